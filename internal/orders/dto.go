package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/enums"
	"github.com/blast-commerce/blast-backend/pkg/types"
)

// CreateItemInput is one checkout line; the snapshot fields travel by
// value so the order survives later catalog edits.
type CreateItemInput struct {
	ProductID      uuid.UUID
	ProductName    string
	ProductImage   string
	ProductBrand   string
	Quantity       int
	UnitPriceCents int64
}

// CreateInput captures everything required to place an order.
type CreateInput struct {
	UserID          uuid.UUID
	Items           []CreateItemInput
	ShippingAddress types.ShippingAddress
	PaymentMethod   enums.PaymentMethod
	SubtotalCents   int64
	ShippingCents   int64
	TaxCents        int64
	TotalCents      int64
}

// UpdateStatusInput drives an admin transition, with optional narration
// overrides for the appended tracking event.
type UpdateStatusInput struct {
	OrderID     uuid.UUID
	NewStatus   enums.OrderStatus
	Description string
	Location    string
}

// TimelineStage is one of the six fixed stages of the delivery timeline.
type TimelineStage struct {
	Label     string     `json:"label"`
	Status    string     `json:"status"`
	Completed bool       `json:"completed"`
	Date      *time.Time `json:"date,omitempty"`
}

// TrackResult is the public (unauthenticated) tracking projection.
type TrackResult struct {
	OrderNumber       string                `json:"order_number"`
	TrackingNumber    string                `json:"tracking_number"`
	Status            enums.OrderStatus     `json:"status"`
	ShippingCarrier   string                `json:"shipping_carrier"`
	ShippingMethod    string                `json:"shipping_method"`
	EstimatedDelivery *time.Time            `json:"estimated_delivery,omitempty"`
	DeliveredAt       *time.Time            `json:"delivered_at,omitempty"`
	History           []models.TrackingEvent `json:"history"`
	Timeline          []TimelineStage       `json:"timeline"`
}

// OrderList wraps one paginated page for a user.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
