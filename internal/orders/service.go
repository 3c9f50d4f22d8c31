package orders

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blast-commerce/blast-backend/pkg/config"
	"github.com/blast-commerce/blast-backend/pkg/db"
	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/enums"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
)

const trackingSuffixCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service owns the order lifecycle: creation from a cart snapshot,
// status transitions through the single transition table, cancellation,
// refund requests, and tracking reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	MarkOutForDelivery(ctx context.Context, orderID uuid.UUID, description, location string) (*models.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error)
	RequestRefund(ctx context.Context, userID, orderID uuid.UUID, reason string, amountCents *int64) (*models.Order, error)
	Track(ctx context.Context, trackingNumber string) (*TrackResult, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.OrdersConfig
	now  func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, cfg config.OrdersConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cfg.NumberPrefix == "" {
		return nil, fmt.Errorf("order number prefix required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg, now: time.Now}, nil
}

// Create places an order inside one transaction: the sequence row is
// incremented, the order and its line items are inserted, and the
// history is seeded with order_placed followed by order_confirmed.
// Payment is considered settled immediately except for cash on
// delivery, which stays pending until the courier collects.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	eta := now.AddDate(0, 0, s.deliveryETADays())

	paymentStatus := enums.PaymentStatusPaid
	if input.PaymentMethod == enums.PaymentMethodCOD {
		paymentStatus = enums.PaymentStatusPending
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sequence, err := repo.ReserveOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "reserve order number")
		}

		order := &models.Order{
			UserID:            input.UserID,
			OrderNumber:       fmt.Sprintf("%s%06d", s.cfg.NumberPrefix, sequence),
			TrackingNumber:    s.newTrackingNumber(now),
			Status:            enums.OrderStatusConfirmed,
			PaymentMethod:     input.PaymentMethod,
			PaymentStatus:     paymentStatus,
			ShippingAddress:   input.ShippingAddress,
			SubtotalCents:     input.SubtotalCents,
			ShippingCents:     input.ShippingCents,
			TaxCents:          input.TaxCents,
			TotalCents:        input.TotalCents,
			ShippingCarrier:   s.cfg.ShippingCarrier,
			ShippingMethod:    s.cfg.ShippingMethod,
			EstimatedDelivery: &eta,
			RefundStatus:      enums.RefundStatusNone,
		}

		if _, err := repo.Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number or tracking number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "insert order")
		}

		items := make([]models.OrderItem, len(input.Items))
		for i, line := range input.Items {
			productID := line.ProductID
			items[i] = models.OrderItem{
				OrderID:        order.ID,
				ProductID:      &productID,
				ProductName:    line.ProductName,
				ProductImage:   line.ProductImage,
				ProductBrand:   line.ProductBrand,
				Quantity:       line.Quantity,
				UnitPriceCents: line.UnitPriceCents,
				TotalCents:     line.UnitPriceCents * int64(line.Quantity),
			}
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "insert order items")
		}

		seed := []models.TrackingEvent{
			{
				OrderID:     order.ID,
				Sequence:    1,
				Status:      enums.TrackingStatusOrderPlaced,
				Description: "Order has been placed successfully",
				Location:    "Online Store",
				OccurredAt:  now,
			},
			{
				OrderID:     order.ID,
				Sequence:    2,
				Status:      enums.TrackingStatusOrderConfirmed,
				Description: "Order has been confirmed and is being processed",
				Location:    "Order Processing Center",
				OccurredAt:  now,
			},
		}
		for i := range seed {
			if err := repo.AppendTrackingEvent(ctx, &seed[i]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "seed tracking history")
			}
		}

		order.TrackingHistory = seed
		order.Items = items
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateStatus applies one legal transition and narrates it in the
// history log. Delivered orders are stamped with delivered_at.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.NewStatus))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.load(ctx, repo, input.OrderID)
		if err != nil {
			return err
		}
		if !canTransition(order.Status, input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeInvalidState,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.NewStatus)).
				WithDetails(map[string]any{"from": order.Status, "to": input.NewStatus})
		}

		now := s.now().UTC()
		updates := map[string]any{"status": input.NewStatus}
		if input.NewStatus == enums.OrderStatusDelivered {
			updates["delivered_at"] = now
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update order status")
		}

		description := input.Description
		if description == "" {
			description = fmt.Sprintf("Order status updated to %s", input.NewStatus)
		}
		location := input.Location
		if location == "" {
			location = "Processing Center"
		}
		event := &models.TrackingEvent{
			OrderID:     order.ID,
			Sequence:    len(order.TrackingHistory) + 1,
			Status:      trackingStatusFor(input.NewStatus),
			Description: description,
			Location:    location,
			OccurredAt:  now,
		}
		if err := repo.AppendTrackingEvent(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "append tracking event")
		}

		order.Status = input.NewStatus
		if input.NewStatus == enums.OrderStatusDelivered {
			order.DeliveredAt = &now
		}
		order.TrackingHistory = append(order.TrackingHistory, *event)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkOutForDelivery appends the out_for_delivery narration without
// changing the coarse status. Only a shipped order can be out for
// delivery.
func (s *service) MarkOutForDelivery(ctx context.Context, orderID uuid.UUID, description, location string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.load(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusShipped {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "order is not shipped")
		}

		if description == "" {
			description = "Order is out for delivery"
		}
		if location == "" {
			location = "Local Delivery Hub"
		}
		event := &models.TrackingEvent{
			OrderID:     order.ID,
			Sequence:    len(order.TrackingHistory) + 1,
			Status:      enums.TrackingStatusOutForDelivery,
			Description: description,
			Location:    location,
			OccurredAt:  s.now().UTC(),
		}
		if err := repo.AppendTrackingEvent(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "append tracking event")
		}

		order.TrackingHistory = append(order.TrackingHistory, *event)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel is owner-scoped and allowed only before shipment. The order is
// never deleted; cancellation is a terminal status.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cancellation reason required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.loadForUser(ctx, repo, orderID, userID)
		if err != nil {
			return err
		}
		if !canTransition(order.Status, enums.OrderStatusCancelled) {
			return pkgerrors.New(pkgerrors.CodeInvalidState,
				fmt.Sprintf("order in status %s cannot be cancelled", order.Status))
		}

		now := s.now().UTC()
		updates := map[string]any{
			"status":              enums.OrderStatusCancelled,
			"cancellation_reason": reason,
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update order status")
		}

		event := &models.TrackingEvent{
			OrderID:     order.ID,
			Sequence:    len(order.TrackingHistory) + 1,
			Status:      enums.TrackingStatusCancelled,
			Description: fmt.Sprintf("Order cancelled: %s", reason),
			Location:    "Customer Request",
			OccurredAt:  now,
		}
		if err := repo.AppendTrackingEvent(ctx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "append tracking event")
		}

		order.Status = enums.OrderStatusCancelled
		order.CancellationReason = &reason
		order.TrackingHistory = append(order.TrackingHistory, *event)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RequestRefund is allowed only once the order is delivered. The note
// overwrites any prior one; unlike the tracking history it is not
// append-only.
func (s *service) RequestRefund(ctx context.Context, userID, orderID uuid.UUID, reason string, amountCents *int64) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "refund reason required")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := s.loadForUser(ctx, repo, orderID, userID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeInvalidState, "only delivered orders can be refunded")
		}

		amount := order.TotalCents
		if amountCents != nil {
			amount = *amountCents
		}
		if amount <= 0 || amount > order.TotalCents {
			return pkgerrors.New(pkgerrors.CodeValidation, "refund amount out of range")
		}

		notes := fmt.Sprintf("Refund requested: %s", reason)
		updates := map[string]any{
			"refund_status":       enums.RefundStatusPending,
			"refund_amount_cents": amount,
			"notes":               notes,
		}
		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "update refund fields")
		}

		order.RefundStatus = enums.RefundStatusPending
		order.RefundAmountCents = &amount
		order.Notes = &notes
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Track is the unauthenticated lookup by tracking number.
func (s *service) Track(ctx context.Context, trackingNumber string) (*TrackResult, error) {
	if trackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required")
	}
	order, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid tracking number")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load order by tracking number")
	}

	return &TrackResult{
		OrderNumber:       order.OrderNumber,
		TrackingNumber:    order.TrackingNumber,
		Status:            order.Status,
		ShippingCarrier:   order.ShippingCarrier,
		ShippingMethod:    order.ShippingMethod,
		EstimatedDelivery: order.EstimatedDelivery,
		DeliveredAt:       order.DeliveredAt,
		History:           order.TrackingHistory,
		Timeline:          Timeline(order),
	}, nil
}

// GetForUser loads one order scoped to its owner.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	return s.loadForUser(ctx, s.repo, orderID, userID)
}

// ListByUser pages through the user's orders, newest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	query := ListQuery{Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListByUser(ctx, userID, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "list orders")
	}

	list := &OrderList{Orders: rows}
	if next != nil {
		list.NextCursor = pagination.EncodeCursor(*next)
	}
	return list, nil
}

func (s *service) validateCreate(input CreateInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item product id required")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item quantity must be at least 1")
		}
		if line.UnitPriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "order item price must not be negative")
		}
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	if input.TotalCents < input.SubtotalCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "total must not be below subtotal")
	}
	return nil
}

func (s *service) load(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load order")
	}
	return order, nil
}

func (s *service) loadForUser(ctx context.Context, repo Repository, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load order")
	}
	return order, nil
}

func (s *service) deliveryETADays() int {
	if s.cfg.DeliveryETADays > 0 {
		return s.cfg.DeliveryETADays
	}
	return 7
}

func (s *service) newTrackingNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(trackingSuffixCharset))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			n = big.NewInt(int64(i))
		}
		suffix[i] = trackingSuffixCharset[n.Int64()]
	}
	return fmt.Sprintf("%s%d%s", s.cfg.NumberPrefix, now.UnixMilli(), suffix)
}
