package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Skotchmaster/orbitronic/internal/events"
	"github.com/Skotchmaster/orbitronic/internal/models"
	"github.com/Skotchmaster/orbitronic/internal/repo"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]models.User
	err   error
}

func newMemUsers() *memUsers { return &memUsers{users: map[string]models.User{}} }

func (m *memUsers) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[u.Username]; ok {
		return repo.ErrDuplicateUsername
	}
	u.ID = uint(len(m.users) + 1)
	m.users[u.Username] = *u
	return nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[string]models.Product
	writes   int
	err      error
}

func newMemProducts(ps ...models.Product) *memProducts {
	m := &memProducts{products: map[string]models.Product{}}
	for _, p := range ps {
		m.products[p.ID] = p
	}
	return m
}

func (m *memProducts) sorted() []models.Product {
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memProducts) FindProductByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) ListProductsByCategory(_ context.Context, category string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []models.Product
	for _, p := range m.sorted() {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Categories(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range m.sorted() {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out, nil
}

func (m *memProducts) ListProducts(_ context.Context, category string, offset, limit int) (int64, []models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, nil, m.err
	}
	var all []models.Product
	for _, p := range m.sorted() {
		if category == "" || p.Category == category {
			all = append(all, p)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return total, nil, nil
	}
	end := min(offset+limit, len(all))
	return total, all[offset:end], nil
}

func (m *memProducts) AllProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(), nil
}

func (m *memProducts) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[p.ID]; ok {
		return repo.ErrDuplicateID
	}
	m.products[p.ID] = *p
	m.writes++
	return nil
}

func (m *memProducts) UpdateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[p.ID]; !ok {
		return repo.ErrNotFound
	}
	m.products[p.ID] = *p
	m.writes++
	return nil
}

func (m *memProducts) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.products, id)
	m.writes++
	return nil
}

type published struct {
	Topic string
	Key   string
	Event any
}

type recorder struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (r *recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, published{Topic: topic, Key: key, Event: event})
	return nil
}

var _ events.Publisher = (*recorder)(nil)

type memIndex struct {
	docs      map[string]models.Product
	indexErr  error
	searchErr error
	queries   []string
}

func newMemIndex() *memIndex { return &memIndex{docs: map[string]models.Product{}} }

func (m *memIndex) Index(_ context.Context, p models.Product) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	m.docs[p.ID] = p
	return nil
}

func (m *memIndex) Remove(_ context.Context, id string) error {
	if m.indexErr != nil {
		return m.indexErr
	}
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	m.queries = append(m.queries, q)
	if m.searchErr != nil {
		return 0, nil, m.searchErr
	}
	var out []models.Product
	for _, p := range m.docs {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return int64(len(out)), out, nil
}

var errStoreDown = errors.New("connection refused")
