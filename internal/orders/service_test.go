package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blast-commerce/blast-backend/pkg/config"
	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/enums"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
	"github.com/blast-commerce/blast-backend/pkg/types"
)

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func TestCreateAssignsSequencedNumberAndSeedsHistory(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{nextSequence: 42}
	svc := newTestService(t, repo)

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.OrderNumber != "BWP000042" {
		t.Fatalf("order number = %q", order.OrderNumber)
	}
	if !strings.HasPrefix(order.TrackingNumber, "BWP") || len(order.TrackingNumber) < len("BWP")+13+4 {
		t.Fatalf("tracking number = %q", order.TrackingNumber)
	}
	if order.Status != enums.OrderStatusConfirmed {
		t.Fatalf("status = %s", order.Status)
	}
	if len(repo.events) != 2 {
		t.Fatalf("expected 2 seed events, got %d", len(repo.events))
	}
	first, second := repo.events[0], repo.events[1]
	if first.Status != enums.TrackingStatusOrderPlaced || first.Location != "Online Store" {
		t.Fatalf("first event = %s at %q", first.Status, first.Location)
	}
	if first.Description != "Order has been placed successfully" {
		t.Fatalf("first description = %q", first.Description)
	}
	if second.Status != enums.TrackingStatusOrderConfirmed || second.Location != "Order Processing Center" {
		t.Fatalf("second event = %s at %q", second.Status, second.Location)
	}
	if first.Sequence != 1 || second.Sequence != 2 {
		t.Fatalf("seed sequences = %d, %d", first.Sequence, second.Sequence)
	}
}

func TestCreateEstimatesDeliveryFromConfig(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{nextSequence: 1}
	svc := newTestService(t, repo)

	order, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.EstimatedDelivery == nil {
		t.Fatal("estimated delivery not set")
	}
	want := testNow.AddDate(0, 0, 7)
	if !order.EstimatedDelivery.Equal(want) {
		t.Fatalf("eta = %s, want %s", order.EstimatedDelivery, want)
	}
	if order.ShippingCarrier != "BLAST Express" || order.ShippingMethod != "Standard Delivery" {
		t.Fatalf("carrier/method = %q/%q", order.ShippingCarrier, order.ShippingMethod)
	}
}

func TestCreateDuplicateNumberIsConflict(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{
		nextSequence: 1,
		createErr:    errors.New(`ERROR: duplicate key value violates unique constraint "orders_order_number_key" (SQLSTATE 23505)`),
	}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), validCreateInput())
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(repo.events) != 0 {
		t.Fatal("no history should be seeded for a failed insert")
	}
}

func TestCreateCODStaysPendingPayment(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{nextSequence: 1}
	svc := newTestService(t, repo)

	input := validCreateInput()
	input.PaymentMethod = enums.PaymentMethodCOD
	order, err := svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("payment status = %s, want pending", order.PaymentStatus)
	}

	input.PaymentMethod = enums.PaymentMethodCard
	order, err = svc.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("payment status = %s, want paid", order.PaymentStatus)
	}
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{nextSequence: 1})
	input := validCreateInput()
	input.Items = nil

	_, err := svc.Create(context.Background(), input)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusConfirmed)
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo)

	got, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:   order.ID,
		NewStatus: enums.OrderStatusProcessing,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != enums.OrderStatusProcessing {
		t.Fatalf("status = %s", got.Status)
	}
	event := repo.events[len(repo.events)-1]
	if event.Description != "Order status updated to processing" {
		t.Fatalf("description = %q", event.Description)
	}
	if event.Location != "Processing Center" {
		t.Fatalf("location = %q", event.Location)
	}
	if event.Sequence != 3 {
		t.Fatalf("sequence = %d, want 3", event.Sequence)
	}
}

func TestUpdateStatusRejectsJumps(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusConfirmed)
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:   order.ID,
		NewStatus: enums.OrderStatusDelivered,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
	if len(repo.events) != 2 {
		t.Fatal("no event should be appended on a rejected transition")
	}
}

func TestUpdateStatusDeliveredStampsDeliveredAt(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusShipped)
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo)

	got, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{
		OrderID:   order.ID,
		NewStatus: enums.OrderStatusDelivered,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DeliveredAt == nil || !got.DeliveredAt.Equal(testNow) {
		t.Fatalf("delivered_at = %v", got.DeliveredAt)
	}
	if _, ok := repo.updates["delivered_at"]; !ok {
		t.Fatal("delivered_at not persisted")
	}
}

func TestMarkOutForDeliveryKeepsCoarseStatus(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusShipped)
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo)

	got, err := svc.MarkOutForDelivery(context.Background(), order.ID, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != enums.OrderStatusShipped {
		t.Fatalf("status = %s, want shipped", got.Status)
	}
	event := repo.events[len(repo.events)-1]
	if event.Status != enums.TrackingStatusOutForDelivery {
		t.Fatalf("event status = %s", event.Status)
	}
	if repo.updates != nil {
		t.Fatal("out for delivery must not touch order columns")
	}
}

func TestMarkOutForDeliveryRequiresShipped(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusConfirmed)
	svc := newTestService(t, &stubRepo{order: order})

	_, err := svc.MarkOutForDelivery(context.Background(), order.ID, "", "")
	if pkgerrors.As(err).Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCancelBeforeShipment(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusProcessing)
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo)

	got, err := svc.Cancel(context.Background(), order.UserID, order.ID, "Changed my mind")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != enums.OrderStatusCancelled {
		t.Fatalf("status = %s", got.Status)
	}
	if got.CancellationReason == nil || *got.CancellationReason != "Changed my mind" {
		t.Fatalf("reason = %v", got.CancellationReason)
	}
	event := repo.events[len(repo.events)-1]
	if event.Description != "Order cancelled: Changed my mind" {
		t.Fatalf("description = %q", event.Description)
	}
	if event.Location != "Customer Request" {
		t.Fatalf("location = %q", event.Location)
	}
}

func TestCancelShippedOrderRejected(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusShipped)
	svc := newTestService(t, &stubRepo{order: order})

	_, err := svc.Cancel(context.Background(), order.UserID, order.ID, "too late")
	if pkgerrors.As(err).Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestCancelScopedToOwner(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusConfirmed)
	svc := newTestService(t, &stubRepo{order: order})

	_, err := svc.Cancel(context.Background(), uuid.New(), order.ID, "not mine")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRequestRefundOnlyWhenDelivered(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusShipped)
	svc := newTestService(t, &stubRepo{order: order})

	_, err := svc.RequestRefund(context.Background(), order.UserID, order.ID, "damaged", nil)
	if pkgerrors.As(err).Code() != pkgerrors.CodeInvalidState {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestRequestRefundDefaultsToFullAmount(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusDelivered)
	repo := &stubRepo{order: order}
	svc := newTestService(t, repo)

	got, err := svc.RequestRefund(context.Background(), order.UserID, order.ID, "damaged on arrival", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RefundStatus != enums.RefundStatusPending {
		t.Fatalf("refund status = %s", got.RefundStatus)
	}
	if got.RefundAmountCents == nil || *got.RefundAmountCents != order.TotalCents {
		t.Fatalf("refund amount = %v, want %d", got.RefundAmountCents, order.TotalCents)
	}
	if got.Notes == nil || *got.Notes != "Refund requested: damaged on arrival" {
		t.Fatalf("notes = %v", got.Notes)
	}
}

func TestRequestRefundRejectsExcessAmount(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusDelivered)
	svc := newTestService(t, &stubRepo{order: order})

	excess := order.TotalCents + 1
	_, err := svc.RequestRefund(context.Background(), order.UserID, order.ID, "damaged", &excess)
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrackUnknownNumberIsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{})
	_, err := svc.Track(context.Background(), "BWP000DOESNOTEXIST")
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTrackReturnsTimelineAndHistory(t *testing.T) {
	t.Parallel()

	order := storedOrder(enums.OrderStatusConfirmed)
	svc := newTestService(t, &stubRepo{order: order})

	result, err := svc.Track(context.Background(), order.TrackingNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OrderNumber != order.OrderNumber {
		t.Fatalf("order number = %q", result.OrderNumber)
	}
	if len(result.History) != 2 {
		t.Fatalf("history length = %d", len(result.History))
	}
	if len(result.Timeline) != 6 {
		t.Fatalf("timeline length = %d", len(result.Timeline))
	}
	if !result.Timeline[0].Completed || !result.Timeline[1].Completed {
		t.Fatal("placed and confirmed stages should be completed")
	}
	if result.Timeline[2].Completed {
		t.Fatal("processing stage should not be completed yet")
	}
}

func TestListByUserRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubRepo{})
	_, err := svc.ListByUser(context.Background(), uuid.New(), pagination.Params{Cursor: "not-base64!"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTxRunner{}, config.OrdersConfig{
		NumberPrefix:    "BWP",
		DeliveryETADays: 7,
		ShippingCarrier: "BLAST Express",
		ShippingMethod:  "Standard Delivery",
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	svc.(*service).now = func() time.Time { return testNow }
	return svc
}

func validCreateInput() CreateInput {
	return CreateInput{
		UserID: uuid.New(),
		Items: []CreateItemInput{
			{ProductID: uuid.New(), ProductName: "Falcon 250", Quantity: 1, UnitPriceCents: 185000_00},
		},
		ShippingAddress: types.ShippingAddress{
			FirstName: "Priya",
			LastName:  "Sharma",
			Street:    "14 MG Road",
			City:      "Bengaluru",
			ZipCode:   "560001",
		},
		PaymentMethod: enums.PaymentMethodUPI,
		SubtotalCents: 185000_00,
		ShippingCents: 5000_00,
		TaxCents:      33300_00,
		TotalCents:    223300_00,
	}
}

// storedOrder builds an order as it would look after creation, with the
// two seed history entries already present.
func storedOrder(status enums.OrderStatus) *models.Order {
	id := uuid.New()
	return &models.Order{
		ID:             id,
		UserID:         uuid.New(),
		OrderNumber:    "BWP000007",
		TrackingNumber: "BWP1742034600000XY7Q",
		Status:         status,
		PaymentMethod:  enums.PaymentMethodCard,
		PaymentStatus:  enums.PaymentStatusPaid,
		RefundStatus:   enums.RefundStatusNone,
		TotalCents:     223300_00,
		CreatedAt:      testNow.Add(-48 * time.Hour),
		TrackingHistory: []models.TrackingEvent{
			{OrderID: id, Sequence: 1, Status: enums.TrackingStatusOrderPlaced, OccurredAt: testNow.Add(-48 * time.Hour)},
			{OrderID: id, Sequence: 2, Status: enums.TrackingStatusOrderConfirmed, OccurredAt: testNow.Add(-48 * time.Hour)},
		},
	}
}

type stubRepo struct {
	nextSequence int64
	order        *models.Order
	created      *models.Order
	createErr    error
	items        []models.OrderItem
	events       []models.TrackingEvent
	updates      map[string]any
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) ReserveOrderNumber(ctx context.Context) (int64, error) {
	n := s.nextSequence
	s.nextSequence++
	return n, nil
}

func (s *stubRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	order.ID = uuid.New()
	s.created = order
	return order, nil
}

func (s *stubRepo) CreateItems(ctx context.Context, items []models.OrderItem) error {
	s.items = append(s.items, items...)
	return nil
}

func (s *stubRepo) AppendTrackingEvent(ctx context.Context, event *models.TrackingEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.order
	if len(s.events) > 0 {
		clone.TrackingHistory = append(clone.TrackingHistory, s.events...)
	}
	return &clone, nil
}

func (s *stubRepo) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id || s.order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.order
	return &clone, nil
}

func (s *stubRepo) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	if s.order == nil || s.order.TrackingNumber != trackingNumber {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *s.order
	return &clone, nil
}

func (s *stubRepo) UpdateFields(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	s.updates = updates
	return nil
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]models.Order, *pagination.Cursor, error) {
	return nil, nil, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
