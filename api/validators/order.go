package validators

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/types"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneNoise   = regexp.MustCompile(`[\s\-()]`)
)

// CheckoutItem is one line of a checkout payload.
type CheckoutItem struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductBrand string `json:"product_brand,omitempty"`
	ProductImage string `json:"product_image,omitempty"`
	Quantity     int    `json:"quantity"`
	PriceCents   int64  `json:"price_cents"`
}

// CheckoutPayload is the order-creation request body.
type CheckoutPayload struct {
	Items           []CheckoutItem        `json:"items"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                `json:"payment_method"`
	SubtotalCents   int64                 `json:"subtotal_cents"`
	ShippingCents   int64                 `json:"shipping_cents"`
	TaxCents        int64                 `json:"tax_cents"`
	TotalCents      int64                 `json:"total_cents"`
}

// ValidateCheckout checks the full boundary contract before anything is
// mutated and reports every failure at once.
func ValidateCheckout(payload CheckoutPayload) error {
	var errs error

	if len(payload.Items) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("order must contain at least one item"))
	}
	for i, item := range payload.Items {
		n := i + 1
		if item.ProductID == "" {
			errs = multierr.Append(errs, fmt.Errorf("item %d: product id is required", n))
		} else if _, err := uuid.Parse(item.ProductID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("item %d: product id is not a valid uuid", n))
		}
		if strings.TrimSpace(item.ProductName) == "" {
			errs = multierr.Append(errs, fmt.Errorf("item %d: product name is required", n))
		}
		if item.Quantity <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("item %d: valid quantity is required", n))
		}
		if item.PriceCents <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("item %d: valid price is required", n))
		}
	}

	errs = multierr.Append(errs, validateShippingAddress(payload.ShippingAddress))

	switch payload.PaymentMethod {
	case "card", "upi", "cod":
	default:
		errs = multierr.Append(errs, fmt.Errorf("valid payment method is required (card, upi, or cod)"))
	}

	if payload.TotalCents <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("valid order total is required"))
	}

	if errs == nil {
		return nil
	}

	details := make([]string, 0, len(multierr.Errors(errs)))
	for _, e := range multierr.Errors(errs) {
		details = append(details, e.Error())
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

func validateShippingAddress(addr types.ShippingAddress) error {
	var errs error

	required := []struct {
		field string
		value string
	}{
		{"firstName", addr.FirstName},
		{"lastName", addr.LastName},
		{"street", addr.Street},
		{"city", addr.City},
		{"zipCode", addr.ZipCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			errs = multierr.Append(errs, fmt.Errorf("shipping address: %s is required", f.field))
		}
	}

	if addr.Email != "" && !emailPattern.MatchString(addr.Email) {
		errs = multierr.Append(errs, fmt.Errorf("shipping address: invalid email format"))
	}
	if addr.Phone != "" {
		normalized := phoneNoise.ReplaceAllString(addr.Phone, "")
		if !phonePattern.MatchString(normalized) {
			errs = multierr.Append(errs, fmt.Errorf("shipping address: invalid phone number format"))
		}
	}
	return errs
}
