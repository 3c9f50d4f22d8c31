package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/blast-commerce/blast-backend/api/middleware"
	"github.com/blast-commerce/blast-backend/api/responses"
	"github.com/blast-commerce/blast-backend/api/validators"
	cartsvc "github.com/blast-commerce/blast-backend/internal/cart"
	notificationsvc "github.com/blast-commerce/blast-backend/internal/notifications"
	ordersvc "github.com/blast-commerce/blast-backend/internal/orders"
	"github.com/blast-commerce/blast-backend/pkg/enums"
	pkgerrors "github.com/blast-commerce/blast-backend/pkg/errors"
	"github.com/blast-commerce/blast-backend/pkg/logger"
	"github.com/blast-commerce/blast-backend/pkg/pagination"
)

type cancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type refundOrderRequest struct {
	Reason      string `json:"reason" validate:"required"`
	AmountCents *int64 `json:"amount_cents,omitempty" validate:"omitempty,gt=0"`
}

type updateOrderStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

type outForDeliveryRequest struct {
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
}

// OrdersCreate is the checkout endpoint: full payload validation, order
// creation, then best-effort confirmation email and cart clear.
func OrdersCreate(orders ordersvc.Service, carts cartsvc.Service, mailer notificationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload validators.CheckoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateCheckout(payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.CreateItemInput, len(payload.Items))
		for i, line := range payload.Items {
			productID, err := uuid.Parse(line.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			items[i] = ordersvc.CreateItemInput{
				ProductID:      productID,
				ProductName:    line.ProductName,
				ProductImage:   line.ProductImage,
				ProductBrand:   line.ProductBrand,
				Quantity:       line.Quantity,
				UnitPriceCents: line.PriceCents,
			}
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		order, err := orders.Create(r.Context(), ordersvc.CreateInput{
			UserID:          userID,
			Items:           items,
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   method,
			SubtotalCents:   payload.SubtotalCents,
			ShippingCents:   payload.ShippingCents,
			TaxCents:        payload.TaxCents,
			TotalCents:      payload.TotalCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Both follow-ups are fire-and-forget: a failed email or a cart
		// that survives never rolls back a placed order.
		if mailer != nil {
			recipient := payload.ShippingAddress.Email
			if recipient == "" {
				recipient = middleware.EmailFromContext(r.Context())
			}
			if recipient != "" {
				if mailErr := mailer.SendOrderConfirmation(r.Context(), order, recipient); mailErr != nil && logg != nil {
					logg.Error(r.Context(), "order confirmation email failed", mailErr)
				}
			}
		}
		if carts != nil {
			if _, clearErr := carts.Clear(r.Context(), userID); clearErr != nil && logg != nil {
				logg.Error(r.Context(), "cart clear after checkout failed", clearErr)
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OrdersList pages the caller's orders, newest first.
func OrdersList(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{Cursor: r.URL.Query().Get("cursor")}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid limit"))
				return
			}
			params.Limit = limit
		}

		list, err := orders.ListByUser(r.Context(), userID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrdersGet returns one order with items, history, and derived timeline.
func OrdersGet(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.GetForUser(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"order":    order,
			"timeline": ordersvc.Timeline(order),
		})
	}
}

// OrdersCancel cancels the caller's own order before shipment.
func OrdersCancel(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cancelOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.Cancel(r.Context(), userID, orderID, payload.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersRequestRefund opens a refund on a delivered order.
func OrdersRequestRefund(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload refundOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.RequestRefund(r.Context(), userID, orderID, payload.Reason, payload.AmountCents)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersUpdateStatus is the admin transition endpoint.
func OrdersUpdateStatus(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := orders.UpdateStatus(r.Context(), ordersvc.UpdateStatusInput{
			OrderID:     orderID,
			NewStatus:   status,
			Description: payload.Description,
			Location:    payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersOutForDelivery appends the courier narration on a shipped order.
func OrdersOutForDelivery(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := orderIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload outForDeliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := orders.MarkOutForDelivery(r.Context(), orderID, payload.Description, payload.Location)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// OrdersTrack is the unauthenticated tracking lookup.
func OrdersTrack(orders ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackingNumber := chi.URLParam(r, "trackingNumber")
		result, err := orders.Track(r.Context(), trackingNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id")
	}
	return orderID, nil
}
