package enums

import "fmt"

// NotificationType identifies the kind of customer notification sent.
type NotificationType string

const (
	NotificationTypeOrderConfirmation NotificationType = "order_confirmation"
	NotificationTypeStatusUpdate      NotificationType = "status_update"
	NotificationTypeCancellation      NotificationType = "cancellation"
	NotificationTypeRefundRequested   NotificationType = "refund_requested"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrderConfirmation,
	NotificationTypeStatusUpdate,
	NotificationTypeCancellation,
	NotificationTypeRefundRequested,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
