package types

import "strings"

// Coordinates carries an optional delivery geolocation hint.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ShippingAddress is the order's delivery destination, persisted as a
// jsonb snapshot so later address-book edits never rewrite history.
type ShippingAddress struct {
	FirstName   string       `json:"first_name" validate:"required"`
	LastName    string       `json:"last_name" validate:"required"`
	Email       string       `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string       `json:"phone,omitempty"`
	Street      string       `json:"street" validate:"required"`
	City        string       `json:"city" validate:"required"`
	State       string       `json:"state,omitempty"`
	ZipCode     string       `json:"zip_code" validate:"required"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// FullName joins the recipient name parts for display.
func (s ShippingAddress) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}
