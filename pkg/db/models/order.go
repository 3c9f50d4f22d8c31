package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/pkg/enums"
	"github.com/blast-commerce/blast-backend/pkg/types"
)

// Order is the persistent order record. It is created once from a cart
// snapshot and mutated only through lifecycle operations; it is never
// deleted, cancellation being a terminal status rather than a removal.
type Order struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	OrderNumber        string                 `gorm:"column:order_number;not null;uniqueIndex"`
	TrackingNumber     string                 `gorm:"column:tracking_number;not null;uniqueIndex"`
	Status             enums.OrderStatus      `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod      enums.PaymentMethod    `gorm:"column:payment_method;not null"`
	PaymentStatus      enums.PaymentStatus    `gorm:"column:payment_status;not null;default:'pending'"`
	ShippingAddress    types.ShippingAddress  `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	SubtotalCents      int64                  `gorm:"column:subtotal_cents;not null"`
	ShippingCents      int64                  `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents           int64                  `gorm:"column:tax_cents;not null;default:0"`
	TotalCents         int64                  `gorm:"column:total_cents;not null"`
	ShippingCarrier    string                 `gorm:"column:shipping_carrier"`
	ShippingMethod     string                 `gorm:"column:shipping_method"`
	EstimatedDelivery  *time.Time             `gorm:"column:estimated_delivery"`
	DeliveredAt        *time.Time             `gorm:"column:delivered_at"`
	CancellationReason *string                `gorm:"column:cancellation_reason"`
	RefundStatus       enums.RefundStatus     `gorm:"column:refund_status;not null;default:'none'"`
	RefundAmountCents  *int64                 `gorm:"column:refund_amount_cents"`
	Notes              *string                `gorm:"column:notes"`
	Items              []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TrackingHistory    []TrackingEvent        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// LatestTrackingEvent returns the most recent history entry, relying on
// TrackingHistory being loaded in append order.
func (o Order) LatestTrackingEvent() *TrackingEvent {
	if len(o.TrackingHistory) == 0 {
		return nil
	}
	return &o.TrackingHistory[len(o.TrackingHistory)-1]
}
