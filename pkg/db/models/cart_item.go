package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a cart. The unit price is a snapshot
// refreshed whenever the same product is added again.
type CartItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index:idx_cart_items_cart_product,unique"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:idx_cart_items_cart_product,unique"`
	ProductName     string    `gorm:"column:product_name;not null"`
	ProductImage    string    `gorm:"column:product_image"`
	ProductBrand    string    `gorm:"column:product_brand"`
	Quantity        int       `gorm:"column:quantity;not null"`
	UnitPriceCents  int64     `gorm:"column:unit_price_cents;not null"`
	SelectedColor   *string   `gorm:"column:selected_color"`
	SelectedVariant *string   `gorm:"column:selected_variant"`
	AddedAt         time.Time `gorm:"column:added_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// LineTotalCents is the extended price for this line.
func (i CartItem) LineTotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}
