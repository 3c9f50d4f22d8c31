package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/enums"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/logger"
)

// Service sends customer-facing order emails. Delivery is simulated:
// the rendered message is written to the structured log and the row in
// the notifications table is the audit trail. Callers treat every error
// as log-and-swallow; an undelivered email never fails an order.
type Service interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) error
}

type service struct {
	repo Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewService wires the notifications dependencies.
func NewService(repo Repository, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, log: log, now: time.Now}, nil
}

func (s *service) SendOrderConfirmation(ctx context.Context, order *models.Order, recipient string) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	if recipient == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient required")
	}
	if order.OrderNumber == "" || order.TrackingNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must carry order and tracking numbers")
	}

	subject := fmt.Sprintf("Order Confirmation - %s", order.OrderNumber)
	body := renderConfirmationText(order)

	sentAt := s.now().UTC()
	orderID := order.ID
	row := &models.Notification{
		UserID:      order.UserID,
		OrderID:     &orderID,
		Type:        enums.NotificationTypeOrderConfirmation,
		Subject:     subject,
		Body:        body,
		Recipient:   recipient,
		DeliveredAt: &sentAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "persist notification")
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"order_number": order.OrderNumber,
		"recipient":    recipient,
		"subject":      subject,
	})
	s.log.Info(ctx, "order confirmation email sent")
	return nil
}

// renderConfirmationText builds the plain-text confirmation body.
func renderConfirmationText(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order Confirmation - %s\n\n", order.OrderNumber)
	b.WriteString("Thank you for your purchase! Your order has been confirmed and is being processed.\n\n")

	b.WriteString("ORDER DETAILS:\n")
	fmt.Fprintf(&b, "- Order Number: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "- Tracking Number: %s\n", order.TrackingNumber)
	fmt.Fprintf(&b, "- Order Date: %s\n", order.CreatedAt.Format("02/01/2006"))
	if order.EstimatedDelivery != nil {
		fmt.Fprintf(&b, "- Estimated Delivery: %s\n", order.EstimatedDelivery.Format("02/01/2006"))
	}
	fmt.Fprintf(&b, "- Payment Method: %s\n", strings.ToUpper(order.PaymentMethod.String()))
	fmt.Fprintf(&b, "- Status: %s\n\n", order.Status)

	b.WriteString("ITEMS ORDERED:\n")
	for _, item := range order.Items {
		brand := item.ProductBrand
		if brand == "" {
			brand = "Unknown Brand"
		}
		fmt.Fprintf(&b, "- %s (%s) x%d - %s\n", item.ProductName, brand, item.Quantity, rupees(item.UnitPriceCents))
	}
	b.WriteString("\n")

	b.WriteString("SHIPPING ADDRESS:\n")
	addr := order.ShippingAddress
	fmt.Fprintf(&b, "%s\n%s\n%s, %s %s\n%s\n", addr.FullName(), addr.Street, addr.City, addr.State, addr.ZipCode, addr.Country)
	if addr.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", addr.Phone)
	}
	b.WriteString("\n")

	b.WriteString("ORDER SUMMARY:\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", rupees(order.SubtotalCents))
	fmt.Fprintf(&b, "Shipping: %s\n", rupees(order.ShippingCents))
	fmt.Fprintf(&b, "Tax: %s\n", rupees(order.TaxCents))
	fmt.Fprintf(&b, "Total: %s\n\n", rupees(order.TotalCents))

	b.WriteString("WHAT'S NEXT?\n")
	b.WriteString("- You'll receive tracking updates as your order progresses\n")
	b.WriteString("- Your order will be delivered to the address provided above\n")
	fmt.Fprintf(&b, "- You can track your order anytime using tracking number: %s\n\n", order.TrackingNumber)

	b.WriteString("Thank you for shopping with BLAST Podilato!\n")
	b.WriteString("If you have any questions, please contact our support team.")
	return b.String()
}

// rupees formats an amount of paise as a rupee string, e.g. ₹1850.00.
func rupees(cents int64) string {
	amount := decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
	return "₹" + amount.StringFixed(2)
}
