package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their
// append-only tracking history.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ReserveOrderNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	AppendTrackingEvent(ctx context.Context, event *models.TrackingEvent) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)
	UpdateFields(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	ListByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]models.Order, *pagination.Cursor, error)
}

// ListQuery is the repo-level listing input with the cursor already parsed.
type ListQuery struct {
	Cursor *pagination.Cursor
	Limit  int
}
