package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/orbitronic/internal/details"
	"github.com/Skotchmaster/orbitronic/internal/models"
)

type fakeCluster struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	exists   bool
}

func (f *fakeCluster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	b, _ := io.ReadAll(r.Body)
	f.bodies[key] = string(b)

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodHead && r.URL.Path == "/products":
		if !f.exists {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/products":
		f.exists = true
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	case strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		if r.Method == http.MethodDelete && strings.HasSuffix(r.URL.Path, "/ghost") {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.URL.Path == "/products/_search":
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":3},"hits":[
			{"_source":{"id":"macbook-pro","category":"laptops","name":"MacBook Pro","price":1299,"details":{"chip":"M3 Pro chip"}}}
		]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected"}`)
	}
}

func newElastic(t *testing.T) (*Elastic, *fakeCluster) {
	t.Helper()
	f := &fakeCluster{bodies: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	e, err := NewElastic(ElasticConfig{URL: srv.URL, Index: "products"})
	require.NoError(t, err)
	return e, f
}

func TestElastic_EnsureIndex(t *testing.T) {
	e, f := newElastic(t)
	ctx := context.Background()

	require.NoError(t, e.EnsureIndex(ctx))
	require.NoError(t, e.EnsureIndex(ctx))

	var creates int
	for _, r := range f.requests {
		if r == "PUT /products" {
			creates++
		}
	}
	assert.Equal(t, 1, creates)
	assert.Contains(t, f.bodies["PUT /products"], `"mappings"`)
}

func TestElastic_IndexRemoveSearch(t *testing.T) {
	e, f := newElastic(t)
	ctx := context.Background()

	chip, err := details.Parse(`{"chip":"M3 Pro chip"}`)
	require.NoError(t, err)
	p := models.Product{ID: "macbook-pro", Category: "laptops", Name: "MacBook Pro", Price: 1299, Details: chip}

	require.NoError(t, e.Index(ctx, p))
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.bodies["PUT /products/_doc/macbook-pro"]), &doc))
	assert.Equal(t, "MacBook Pro", doc["name"])
	assert.Equal(t, map[string]any{"chip": "M3 Pro chip"}, doc["details"])

	require.NoError(t, e.Remove(ctx, "macbook-pro"))
	require.NoError(t, e.Remove(ctx, "ghost"))

	total, items, err := e.Search(ctx, "macbok", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "macbook-pro", items[0].ID)
	assert.True(t, details.Equal(chip, items[0].Details))

	var query string
	for k, v := range f.bodies {
		if strings.HasSuffix(k, "/products/_search") {
			query = v
		}
	}
	assert.Contains(t, query, `"multi_match"`)
	assert.Contains(t, query, `"fuzziness":"AUTO"`)
}

type stubSearcher struct {
	q             string
	offset, limit int
}

func (s *stubSearcher) SearchProducts(_ context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	s.q, s.offset, s.limit = q, offset, limit
	return 1, []models.Product{{ID: "dell-xps"}}, nil
}

func TestDatabase_DelegatesToRepo(t *testing.T) {
	s := &stubSearcher{}
	var eng Engine = Database{Repo: s}
	ctx := context.Background()

	require.NoError(t, eng.Index(ctx, models.Product{ID: "x"}))
	require.NoError(t, eng.Remove(ctx, "x"))

	total, items, err := eng.Search(ctx, "dell", 20, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
	assert.Equal(t, "dell", s.q)
	assert.Equal(t, 20, s.offset)
	assert.Equal(t, 10, s.limit)
}
