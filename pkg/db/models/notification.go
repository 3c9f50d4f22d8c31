package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/pkg/enums"
)

// Notification records a customer-facing message produced by an order
// event. Delivery is fire-and-forget; the row is the audit trail.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderID     *uuid.UUID             `gorm:"type:uuid"`
	Type        enums.NotificationType `gorm:"type:text;not null"`
	Subject     string                 `gorm:"type:text;not null"`
	Body        string                 `gorm:"type:text;not null"`
	Recipient   string                 `gorm:"type:text;not null"`
	DeliveredAt *time.Time             `gorm:"type:timestamptz"`
	CreatedAt   time.Time              `gorm:"type:timestamptz;default:now()"`
}
