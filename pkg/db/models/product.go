package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a catalog listing. Carts and orders snapshot the
// fields they need at add/checkout time instead of joining back here.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string         `gorm:"column:name;not null"`
	Slug                string         `gorm:"column:slug;not null;uniqueIndex"`
	Description         string         `gorm:"column:description;not null"`
	Category            string         `gorm:"column:category;not null"`
	Brand               string         `gorm:"column:brand;not null"`
	Model               string         `gorm:"column:model;not null"`
	Year                *int           `gorm:"column:year"`
	PriceCents          int64          `gorm:"column:price_cents;not null"`
	OriginalPriceCents  *int64         `gorm:"column:original_price_cents"`
	DiscountPercent     int            `gorm:"column:discount_percent;not null;default:0"`
	Images              pq.StringArray `gorm:"column:images;type:text[]"`
	PrimaryImage        string         `gorm:"column:primary_image"`
	Features            pq.StringArray `gorm:"column:features;type:text[]"`
	Colors              pq.StringArray `gorm:"column:colors;type:text[]"`
	Tags                pq.StringArray `gorm:"column:tags;type:text[]"`
	InStock             bool           `gorm:"column:in_stock;not null;default:true"`
	StockQuantity       int            `gorm:"column:stock_quantity;not null;default:0"`
	RatingAverage       float64        `gorm:"column:rating_average;type:numeric(3,2);not null;default:0"`
	RatingCount         int            `gorm:"column:rating_count;not null;default:0"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool           `gorm:"column:is_featured;not null;default:false"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// DiscountedPriceCents applies the listing discount to the original
// price when both are set, otherwise returns the current price.
func (p Product) DiscountedPriceCents() int64 {
	if p.DiscountPercent > 0 && p.OriginalPriceCents != nil {
		orig := *p.OriginalPriceCents
		return orig - orig*int64(p.DiscountPercent)/100
	}
	return p.PriceCents
}
