package orders

import (
	"github.com/blast-commerce/blast-backend/pkg/db/models"
	"github.com/blast-commerce/blast-backend/pkg/enums"
)

// timelineStages is the declarative stage list: one entry per fixed
// stage, keyed by the tracking status that completes it. Order matters.
var timelineStages = []struct {
	label  string
	status enums.TrackingStatus
}{
	{"Order Placed", enums.TrackingStatusOrderPlaced},
	{"Order Confirmed", enums.TrackingStatusOrderConfirmed},
	{"Processing", enums.TrackingStatusProcessing},
	{"Shipped", enums.TrackingStatusShipped},
	{"Out for Delivery", enums.TrackingStatusOutForDelivery},
	{"Delivered", enums.TrackingStatusDelivered},
}

// Timeline derives the fixed six-stage delivery projection from the
// order's tracking history. It is a pure function of the log: a stage
// completes with the timestamp of the first matching history entry,
// "Order Placed" is always pre-completed from the creation time, and
// "Delivered" pre-seeds only its date from delivered_at; completion
// still comes from a delivered history entry. Nothing is stored;
// callers recompute on every read.
func Timeline(order *models.Order) []TimelineStage {
	stages := make([]TimelineStage, len(timelineStages))
	for i, stage := range timelineStages {
		stages[i] = TimelineStage{
			Label:  stage.label,
			Status: stage.status.String(),
		}
	}

	createdAt := order.CreatedAt
	stages[0].Completed = true
	stages[0].Date = &createdAt

	if order.DeliveredAt != nil {
		stages[len(stages)-1].Date = order.DeliveredAt
	}

	for i := range order.TrackingHistory {
		event := &order.TrackingHistory[i]
		for j, stage := range timelineStages {
			if stage.status != event.Status || stages[j].Completed {
				continue
			}
			stages[j].Completed = true
			stages[j].Date = &event.OccurredAt
		}
	}
	return stages
}

// CurrentTrackingStatus returns the most recent history entry, or nil
// for an order without history (which should not occur post-creation).
func CurrentTrackingStatus(order *models.Order) *models.TrackingEvent {
	return order.LatestTrackingEvent()
}
