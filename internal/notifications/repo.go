package notifications

import (
	"context"

	"gorm.io/gorm"

	baserepo "github.com/blast-commerce/blast-backend/internal/repo"
	"github.com/blast-commerce/blast-backend/pkg/db/models"
)

// Repository persists notification rows; the row is the audit trail of
// every message the service attempted to deliver.
type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type repository struct {
	baserepo.Base
}

// NewRepository builds a notifications repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: baserepo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, notification *models.Notification) error {
	return r.DB(ctx).Create(notification).Error
}
