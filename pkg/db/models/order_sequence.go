package models

// OrderSequence is the single-row counter backing order number
// assignment. Reserving a number increments NextValue atomically inside
// the order creation transaction, so concurrent checkouts never collide.
type OrderSequence struct {
	ID        int   `gorm:"column:id;primaryKey"`
	NextValue int64 `gorm:"column:next_value;not null"`
}

// TableName overrides GORM's pluralization.
func (OrderSequence) TableName() string {
	return "order_sequences"
}
