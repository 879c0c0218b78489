package entity

import "time"

// Webhook archive process status
const (
	WebhookStatusPending    = "PENDING"
	WebhookStatusProcessing = "PROCESSING"
	WebhookStatusCompleted  = "COMPLETED"
	WebhookStatusFailed     = "FAILED"
	WebhookStatusSkipped    = "SKIPPED"
)

// WebhookOrder is a raw order payload received from the e-commerce platform.
// Every payload is archived before processing so ingestion failures can be
// retried without asking the platform to redeliver. A worker claims an
// archive by moving it to PROCESSING before touching it; claims stuck in
// PROCESSING past the stale threshold are reset back to PENDING.
type WebhookOrder struct {
	EventID          string                 `bson:"eventId"`
	EventType        string                 `bson:"eventType"`
	OrderID          string                 `bson:"orderId"`
	RawPayload       map[string]interface{} `bson:"rawPayload"`
	ReceivedAt       time.Time              `bson:"receivedAt"`
	ProcessStatus    string                 `bson:"processStatus"`
	ProcessStartedAt time.Time              `bson:"processStartedAt,omitempty"`
	ProcessedAt      time.Time              `bson:"processedAt,omitempty"`
	ErrorDetail      string                 `bson:"errorDetail,omitempty"`
	TrackingCode     string                 `bson:"trackingCode,omitempty"`
}

// OrderPayload is the parsed shape of a platform order event that the
// webhook processor turns into a delivery.
type OrderPayload struct {
	OrderID          string  `json:"order_id"`
	EventType        string  `json:"event_type"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	DestinationCity  string  `json:"destination_city"`
	DestinationState string  `json:"destination_state"`
	DestinationLat   float64 `json:"destination_lat"`
	DestinationLng   float64 `json:"destination_lng"`
	Description      string  `json:"description"`
	WeightKg         float64 `json:"weight_kg"`
}
