package orders

import "github.com/blast-commerce/blast-backend/pkg/enums"

// statusTransitions is the single transition table consulted by every
// mutating entry point. A status absent from the map is terminal.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
	enums.OrderStatusConfirmed:  {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
}

// canTransition reports whether moving from one status to the next is
// legal. Arbitrary jumps (confirmed straight to delivered) are rejected.
func canTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range statusTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// trackingStatusFor maps the coarse order status onto the finer
// vocabulary used when narrating a transition in the history log.
func trackingStatusFor(status enums.OrderStatus) enums.TrackingStatus {
	switch status {
	case enums.OrderStatusPending:
		return enums.TrackingStatusOrderPlaced
	case enums.OrderStatusConfirmed:
		return enums.TrackingStatusOrderConfirmed
	case enums.OrderStatusProcessing:
		return enums.TrackingStatusProcessing
	case enums.OrderStatusShipped:
		return enums.TrackingStatusShipped
	case enums.OrderStatusDelivered:
		return enums.TrackingStatusDelivered
	case enums.OrderStatusCancelled:
		return enums.TrackingStatusCancelled
	default:
		return enums.TrackingStatus(status)
	}
}
