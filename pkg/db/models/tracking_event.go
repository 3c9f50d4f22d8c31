package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/pkg/enums"
)

// TrackingEvent is one entry in an order's append-only tracking
// history. Rows are inserted with a monotonically increasing sequence
// and never updated or deleted afterwards.
type TrackingEvent struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID            `gorm:"column:order_id;type:uuid;not null;index:idx_tracking_events_order_seq,unique"`
	Sequence    int                  `gorm:"column:sequence;not null;index:idx_tracking_events_order_seq,unique"`
	Status      enums.TrackingStatus `gorm:"column:status;not null"`
	Description string               `gorm:"column:description;not null"`
	Location    string               `gorm:"column:location;not null"`
	OccurredAt  time.Time            `gorm:"column:occurred_at;not null"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}
