package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/orbitronic/internal/details"
	"github.com/Skotchmaster/orbitronic/internal/events"
	"github.com/Skotchmaster/orbitronic/internal/logging"
	"github.com/Skotchmaster/orbitronic/internal/models"
	"github.com/Skotchmaster/orbitronic/internal/repo"
	"github.com/Skotchmaster/orbitronic/internal/search"
	"github.com/Skotchmaster/orbitronic/internal/util"
)

const (
	MaxCategoryLen    = 50
	MaxProductIDLen   = 50
	MaxNameLen        = 100
	MaxDescriptionLen = 1000
	MaxImageLen       = 100
	MaxPrice          = math.MaxInt32

	MsgProductIDCharset = "Product ID may only contain letters, digits, dots, dashes and underscores, and must start with a letter or digit"
)

// Ids are used verbatim as one URL path segment.
var productIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

type ProductStore interface {
	FindProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	ListProducts(ctx context.Context, category string, offset, limit int) (int64, []models.Product, error)
	AllProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ProductForm is the raw admin form. Every field arrives as text.
type ProductForm struct {
	Category    string `form:"category"`
	ID          string `form:"id"`
	Name        string `form:"name"`
	Price       string `form:"price"`
	Description string `form:"description"`
	Image       string `form:"image"`
	Details     string `form:"details"`
}

func (f ProductForm) trimmed() ProductForm {
	return ProductForm{
		Category:    strings.TrimSpace(f.Category),
		ID:          strings.TrimSpace(f.ID),
		Name:        strings.TrimSpace(f.Name),
		Price:       strings.TrimSpace(f.Price),
		Description: strings.TrimSpace(f.Description),
		Image:       strings.TrimSpace(f.Image),
		Details:     strings.TrimSpace(f.Details),
	}
}

// FormFromProduct prefills the edit form.
func FormFromProduct(p models.Product) ProductForm {
	return ProductForm{
		Category:    p.Category,
		ID:          p.ID,
		Name:        p.Name,
		Price:       strconv.FormatInt(p.Price, 10),
		Description: p.Description,
		Image:       p.Image,
		Details:     p.Details.Indent(),
	}
}

type CategoryGroup struct {
	Category string
	Products []models.Product
}

type ProductPage struct {
	Items []models.Product `json:"data"`
	Meta  util.Meta        `json:"meta"`
}

type CatalogService struct {
	Products ProductStore
	Events   events.Publisher
	Search   search.Engine
	// Fallback answers queries when Search fails.
	Fallback search.Engine
}

func (s *CatalogService) Create(ctx context.Context, form ProductForm) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")
	form = form.trimmed()

	p, err := buildProduct(form, true)
	if err != nil {
		l.Warn("product_create_error", "status", 400, "reason", err.Error())
		return nil, err
	}

	if err := s.Products.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrDuplicateID) {
			l.Warn("product_create_error", "status", 409, "reason", "product id already exists", "id", p.ID)
			return nil, ErrDuplicateID
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return nil, unexpected("create product", err)
	}

	s.afterWrite(ctx, events.ProductCreated, *p)
	l.Info("product_create_success", "id", p.ID)
	return p, nil
}

func (s *CatalogService) Update(ctx context.Context, id string, form ProductForm) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "id", id)
	form = form.trimmed()

	if _, err := s.Products.FindProductByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("product_update_error", "status", 404, "reason", "product not found")
			return nil, ErrNotFound
		}
		l.Error("product_update_error", "status", 500, "reason", "cannot load product", "error", err)
		return nil, unexpected("load product", err)
	}

	p, err := buildProduct(form, false)
	if err != nil {
		l.Warn("product_update_error", "status", 400, "reason", err.Error())
		return nil, err
	}
	p.ID = id

	if err := s.Products.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("product_update_error", "status", 404, "reason", "product not found")
			return nil, ErrNotFound
		}
		l.Error("product_update_error", "status", 500, "reason", "cannot update product", "error", err)
		return nil, unexpected("update product", err)
	}

	s.afterWrite(ctx, events.ProductUpdated, *p)
	l.Info("product_update_success")
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "id", id)

	if err := s.Products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("product_delete_error", "status", 404, "reason", "product not found")
			return ErrNotFound
		}
		l.Error("product_delete_error", "status", 500, "reason", "cannot delete product", "error", err)
		return unexpected("delete product", err)
	}

	s.afterWrite(ctx, events.ProductDeleted, models.Product{ID: id})
	l.Info("product_delete_success")
	return nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.Products.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, unexpected("load product", err)
	}
	return p, nil
}

// Catalog groups every product by category, categories in alphabetical order.
func (s *CatalogService) Catalog(ctx context.Context) ([]CategoryGroup, error) {
	cats, err := s.Products.Categories(ctx)
	if err != nil {
		return nil, unexpected("list categories", err)
	}
	sort.Strings(cats)

	groups := make([]CategoryGroup, 0, len(cats))
	for _, c := range cats {
		items, err := s.Products.ListProductsByCategory(ctx, c)
		if err != nil {
			return nil, unexpected("list products", err)
		}
		if len(items) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{Category: c, Products: items})
	}
	return groups, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, category string, page, size int) (*ProductPage, error) {
	offset, limit := util.Calculate(page, size)
	total, items, err := s.Products.ListProducts(ctx, strings.TrimSpace(category), offset, limit)
	if err != nil {
		return nil, unexpected("list products", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ProductPage{Items: items, Meta: util.NewMeta(page, size, total)}, nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, size int) (*ProductPage, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, invalid("q", "Search query is required")
	}
	offset, limit := util.Calculate(page, size)

	engine, canFallBack := s.Search, s.Fallback != nil
	if engine == nil {
		engine, canFallBack = s.Fallback, false
	}
	if engine == nil {
		return nil, unexpected("search", errors.New("no search engine configured"))
	}

	total, items, err := engine.Search(ctx, q, offset, limit)
	if err != nil && canFallBack {
		l.Warn("search_engine_error", "reason", "falling back to database", "error", err)
		total, items, err = s.Fallback.Search(ctx, q, offset, limit)
	}
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return nil, unexpected("search", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return &ProductPage{Items: items, Meta: util.NewMeta(page, size, total)}, nil
}

// Reindex pushes every stored product to the search engine.
func (s *CatalogService) Reindex(ctx context.Context) (int, error) {
	if s.Search == nil {
		return 0, nil
	}
	items, err := s.Products.AllProducts(ctx)
	if err != nil {
		return 0, unexpected("list products", err)
	}
	for i, p := range items {
		if err := s.Search.Index(ctx, p); err != nil {
			return i, fmt.Errorf("reindex %s: %w", p.ID, err)
		}
	}
	return len(items), nil
}

// afterWrite runs once the row is committed. Its failures are logged only.
func (s *CatalogService) afterWrite(ctx context.Context, typ string, p models.Product) {
	l := logging.FromContext(ctx)

	if s.Search != nil {
		var err error
		if typ == events.ProductDeleted {
			err = s.Search.Remove(ctx, p.ID)
		} else {
			err = s.Search.Index(ctx, p)
		}
		if err != nil {
			l.Warn("search_index_failed", "id", p.ID, "event", typ, "error", err)
		}
	}

	if s.Events != nil {
		if err := s.Events.PublishEvent(ctx, events.TopicProducts, p.ID, events.NewProductEvent(typ, p)); err != nil {
			l.Warn("publish_event_failed", "topic", events.TopicProducts, "id", p.ID, "error", err)
		}
	}
}

// buildProduct validates the form fields in form order. The id is only
// checked for creation; updates keep the id from the URL.
func buildProduct(f ProductForm, withID bool) (*models.Product, error) {
	if err := checkText("category", "Category", f.Category, MaxCategoryLen); err != nil {
		return nil, err
	}
	if withID {
		if err := checkText("id", "Product ID", f.ID, MaxProductIDLen); err != nil {
			return nil, err
		}
		if !productIDPattern.MatchString(f.ID) {
			return nil, invalid("id", MsgProductIDCharset)
		}
	}
	if err := checkText("name", "Name", f.Name, MaxNameLen); err != nil {
		return nil, err
	}
	price, err := parsePrice(f.Price)
	if err != nil {
		return nil, err
	}
	if err := checkText("description", "Description", f.Description, MaxDescriptionLen); err != nil {
		return nil, err
	}
	if err := checkText("image", "Image", f.Image, MaxImageLen); err != nil {
		return nil, err
	}
	tree, err := details.Parse(f.Details)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDetailsFormat, err)
	}

	p := &models.Product{
		Category:    f.Category,
		Name:        f.Name,
		Price:       price,
		Description: f.Description,
		Image:       f.Image,
		Details:     tree,
	}
	if withID {
		p.ID = f.ID
	}
	return p, nil
}

func checkText(field, label, v string, max int) error {
	if v == "" {
		return invalid(field, label+" is required")
	}
	if utf8.RuneCountInString(v) > max {
		return invalid(field, fmt.Sprintf("%s must be at most %d characters", label, max))
	}
	return nil
}

func parsePrice(v string) (int64, error) {
	if v == "" {
		return 0, invalid("price", "Price is required")
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			if strings.HasPrefix(v, "-") {
				return 0, invalid("price", "Price must be greater than 0")
			}
			return 0, invalid("price", "Price is too large")
		}
		return 0, invalid("price", "Price must be a whole number")
	}
	if n <= 0 {
		return 0, invalid("price", "Price must be greater than 0")
	}
	if n > MaxPrice {
		return 0, invalid("price", "Price is too large")
	}
	return n, nil
}
