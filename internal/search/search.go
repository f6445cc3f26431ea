// Package search finds products by free text.
package search

import (
	"context"

	"github.com/Skotchmaster/orbitronic/internal/models"
)

type Engine interface {
	Index(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error)
}

type productSearcher interface {
	SearchProducts(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error)
}

// Database answers queries straight from the relational store. Index and
// Remove are no-ops since the store already is the index.
type Database struct {
	Repo productSearcher
}

func (d Database) Index(context.Context, models.Product) error { return nil }
func (d Database) Remove(context.Context, string) error        { return nil }

func (d Database) Search(ctx context.Context, q string, from, size int) (int64, []models.Product, error) {
	return d.Repo.SearchProducts(ctx, q, from, size)
}

var (
	_ Engine = Database{}
	_ Engine = (*Elastic)(nil)
)
