package entity

import "time"

// Scheduled event types
const (
	EventStatusChange   = "status_change"
	EventLocationUpdate = "location_update"
)

// ScheduledEvent is a planned future state transition for a delivery,
// produced in bulk by the simulator and consumed by the event executor.
// Unexecuted events for one delivery form a strictly increasing sequence in
// ScheduledFor with a non-decreasing status walk.
type ScheduledEvent struct {
	ID           uint
	DeliveryID   uint
	ScheduledFor time.Time
	EventType    string
	NewStatus    Status
	Location     string
	City         string
	State        string
	Lat          float64
	Lng          float64
	Description  string
	Executed     bool
	CreatedAt    time.Time
}

// ScheduledEventDraft is an event plan entry before persistence. The
// simulator returns drafts; callers own deleting the previous unexecuted
// plan and inserting the new one.
type ScheduledEventDraft struct {
	DeliveryID   uint
	ScheduledFor time.Time
	EventType    string
	NewStatus    Status
	Location     string
	City         string
	State        string
	Lat          float64
	Lng          float64
	Description  string
}
