package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single active cart owned by a user. The denormalized
// totals are recomputed on every mutation and cover merchandise only;
// shipping and tax are composed by the checkout caller.
type Cart struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	TotalItems      int        `gorm:"column:total_items;not null;default:0"`
	TotalPriceCents int64      `gorm:"column:total_price_cents;not null;default:0"`
	Items           []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastModified    time.Time  `gorm:"column:last_modified;autoUpdateTime"`
}

// ItemCount sums the quantities across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}
