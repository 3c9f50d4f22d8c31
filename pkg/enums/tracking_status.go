package enums

import "fmt"

// TrackingStatus is the finer-grained vocabulary used by tracking
// history entries. It narrates the coarser OrderStatus.
type TrackingStatus string

const (
	TrackingStatusOrderPlaced    TrackingStatus = "order_placed"
	TrackingStatusOrderConfirmed TrackingStatus = "order_confirmed"
	TrackingStatusProcessing     TrackingStatus = "processing"
	TrackingStatusShipped        TrackingStatus = "shipped"
	TrackingStatusOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingStatusDelivered      TrackingStatus = "delivered"
	TrackingStatusCancelled      TrackingStatus = "cancelled"
)

var validTrackingStatuses = []TrackingStatus{
	TrackingStatusOrderPlaced,
	TrackingStatusOrderConfirmed,
	TrackingStatusProcessing,
	TrackingStatusShipped,
	TrackingStatusOutForDelivery,
	TrackingStatusDelivered,
	TrackingStatusCancelled,
}

// String implements fmt.Stringer.
func (t TrackingStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrackingStatus.
func (t TrackingStatus) IsValid() bool {
	for _, candidate := range validTrackingStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrackingStatus converts raw input into a TrackingStatus.
func ParseTrackingStatus(value string) (TrackingStatus, error) {
	for _, candidate := range validTrackingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tracking status %q", value)
}
