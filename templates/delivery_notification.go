package templates

import (
	"fmt"

	"parceltrack-service/internal/domain/entity"
)

var statusLines = map[entity.Status]string{
	entity.StatusPending:        "Your parcel was registered and is waiting for collection.",
	entity.StatusCollected:      "Your parcel was collected and is on its way to the carrier hub.",
	entity.StatusInTransit:      "Your parcel is in transit.",
	entity.StatusOutForDelivery: "Your parcel is out for delivery and should arrive today.",
	entity.StatusDelivered:      "Your parcel was delivered. Thank you!",
	entity.StatusFailed:         "We could not complete the delivery of your parcel. A new attempt will be scheduled.",
	entity.StatusReturned:       "Your parcel is being returned to the sender.",
}

// StatusMessage builds the WhatsApp notification text for a delivery status
// change.
func StatusMessage(d *entity.Delivery) string {
	line, ok := statusLines[d.Status]
	if !ok {
		line = fmt.Sprintf("Your parcel status changed to %s.", d.Status)
	}

	msg := fmt.Sprintf("Hi %s!\n\n%s\n\nTracking code: %s", d.RecipientName, line, d.TrackingCode)
	if d.CurrentLocation != "" {
		msg += fmt.Sprintf("\nCurrent location: %s", d.CurrentLocation)
	}
	if d.Status != entity.StatusDelivered && !d.EstimatedDelivery.IsZero() {
		msg += fmt.Sprintf("\nEstimated delivery: %s", d.EstimatedDelivery.Format("2006-01-02"))
	}
	return msg
}

// CreatedMessage builds the welcome message sent right after a delivery is
// registered, with the tracking code the recipient can share.
func CreatedMessage(d *entity.Delivery) string {
	msg := fmt.Sprintf(
		"Hi %s!\n\nYour order is registered for delivery.\nTracking code: %s",
		d.RecipientName, d.TrackingCode,
	)
	if !d.EstimatedDelivery.IsZero() {
		msg += fmt.Sprintf("\nEstimated delivery: %s", d.EstimatedDelivery.Format("2006-01-02"))
	}
	return msg
}
