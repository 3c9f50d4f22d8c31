package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	baserepo "github.com/blast-commerce/blast-backend/internal/repo"
	"github.com/blast-commerce/blast-backend/pkg/db/models"
)

type repository struct {
	baserepo.Base
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: baserepo.NewBase(db)}
}

// WithTx binds the repository to a transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: baserepo.NewBase(tx)}
}

// FindByUser loads the user's cart with its items in added order.
func (r *repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create inserts a new empty cart.
func (r *repository) Create(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	if err := r.DB(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// Update saves the cart's denormalized totals.
func (r *repository) Update(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	err := r.DB(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cart.ID).
		Updates(map[string]any{
			"total_items":       cart.TotalItems,
			"total_price_cents": cart.TotalPriceCents,
		}).Error
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpsertItem inserts the line or, when the product already sits in the
// cart, replaces quantity/price/options in place.
func (r *repository) UpsertItem(ctx context.Context, item *models.CartItem) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity", "unit_price_cents", "selected_color", "selected_variant", "updated_at",
			}),
		}).
		Create(item).Error
}

// DeleteItem removes one product line from the cart.
func (r *repository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return r.DB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{}).Error
}

// DeleteItems empties the cart.
func (r *repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.DB(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
