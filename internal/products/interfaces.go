package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
)

// Repository defines the persistence surface for catalog reads.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, query ListQuery) ([]models.Product, *pagination.Cursor, error)
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category   string
	Brand      string
	Featured   *bool
	ActiveOnly bool
}

// ListQuery is the repo-level listing input with the cursor already parsed.
type ListQuery struct {
	Filters ListFilters
	Cursor  *pagination.Cursor
	Limit   int
}

// ProductList is one page of catalog rows plus the next cursor.
type ProductList struct {
	Products   []models.Product
	NextCursor string
}
