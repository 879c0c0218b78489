package entity

import "time"

// NotificationType defines the type of an outbound notification
type NotificationType string

const (
	StatusNotification    NotificationType = "status_update"
	DeliveredNotification NotificationType = "delivered"
)

// Notification is the structured data handed to an outbound channel. The
// core never talks to a provider directly; dispatch is fire-and-forget and
// channel errors are logged, never propagated.
type Notification struct {
	Type         NotificationType
	Phone        string
	Text         string
	TrackingCode string
	Status       Status
	ScheduleAt   time.Time
	CreatedAt    time.Time
}
