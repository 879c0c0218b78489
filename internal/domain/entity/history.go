package entity

import "time"

// DeliveryHistory is an append-only audit entry recorded on every status or
// location change. Entries are immutable once written; the first entry for a
// delivery corresponds to its creation.
type DeliveryHistory struct {
	ID          uint
	DeliveryID  uint
	Status      Status
	Location    string
	City        string
	State       string
	Lat         float64
	Lng         float64
	Description string
	CreatedAt   time.Time
}
