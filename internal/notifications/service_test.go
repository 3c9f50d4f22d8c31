package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/enums"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/logger"
	"github.com/blast-commerce/blast-backend/pkg/types"
)

func TestSendOrderConfirmationPersistsRow(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)
	order := confirmationOrder()

	err := svc.SendOrderConfirmation(context.Background(), order, "priya@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.created == nil {
		t.Fatal("expected a notification row")
	}
	if repo.created.Type != enums.NotificationTypeOrderConfirmation {
		t.Fatalf("type = %s", repo.created.Type)
	}
	if repo.created.Subject != "Order Confirmation - BWP000042" {
		t.Fatalf("subject = %q", repo.created.Subject)
	}
	if repo.created.Recipient != "priya@example.com" {
		t.Fatalf("recipient = %q", repo.created.Recipient)
	}
	if repo.created.UserID != order.UserID {
		t.Fatal("row not attributed to the order owner")
	}
	if repo.created.DeliveredAt == nil {
		t.Fatal("delivered_at not stamped")
	}
}

func TestSendOrderConfirmationRendersAmountsAndNumbers(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{}
	svc := newTestService(t, repo)

	err := svc.SendOrderConfirmation(context.Background(), confirmationOrder(), "priya@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := repo.created.Body
	for _, want := range []string{
		"Order Number: BWP000042",
		"Tracking Number: BWP1742034600000XY7Q",
		"Falcon 250 (Blast) x1 - ₹185000.00",
		"Subtotal: ₹185000.00",
		"Shipping: ₹5000.00",
		"Tax: ₹33300.00",
		"Total: ₹223300.00",
		"Priya Sharma",
		"Payment Method: UPI",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestSendOrderConfirmationValidatesInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{})

	err := svc.SendOrderConfirmation(context.Background(), nil, "priya@example.com")
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	err = svc.SendOrderConfirmation(context.Background(), confirmationOrder(), "")
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	order := confirmationOrder()
	order.TrackingNumber = ""
	err = svc.SendOrderConfirmation(context.Background(), order, "priya@example.com")
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, logger.New(logger.Options{}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func confirmationOrder() *models.Order {
	eta := time.Date(2025, 3, 22, 10, 30, 0, 0, time.UTC)
	return &models.Order{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		OrderNumber:    "BWP000042",
		TrackingNumber: "BWP1742034600000XY7Q",
		Status:         enums.OrderStatusConfirmed,
		PaymentMethod:  enums.PaymentMethodUPI,
		PaymentStatus:  enums.PaymentStatusPaid,
		ShippingAddress: types.ShippingAddress{
			FirstName: "Priya",
			LastName:  "Sharma",
			Street:    "14 MG Road",
			City:      "Bengaluru",
			State:     "Karnataka",
			ZipCode:   "560001",
			Country:   "India",
		},
		Items: []models.OrderItem{
			{ProductName: "Falcon 250", ProductBrand: "Blast", Quantity: 1, UnitPriceCents: 185000_00},
		},
		SubtotalCents:     185000_00,
		ShippingCents:     5000_00,
		TaxCents:          33300_00,
		TotalCents:        223300_00,
		EstimatedDelivery: &eta,
		CreatedAt:         time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

type stubRepo struct {
	created *models.Notification
}

func (s *stubRepo) Create(ctx context.Context, notification *models.Notification) error {
	s.created = notification
	return nil
}
