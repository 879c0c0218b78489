package entity

import (
	"errors"
	"time"
)

// Domain sentinel errors shared by usecases and repositories.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidDayRange   = errors.New("min_delivery_days must be between 1 and max_delivery_days")
)

// Delivery represents a tracked parcel
type Delivery struct {
	ID                uint
	TrackingCode      string
	Status            Status
	OriginCity        string
	OriginState       string
	OriginLat         float64
	OriginLng         float64
	DestinationCity   string
	DestinationState  string
	DestinationLat    float64
	DestinationLng    float64
	RecipientName     string
	RecipientPhone    string
	Description       string
	WeightKg          float64
	CurrentLocation   string
	EstimatedDelivery time.Time
	DeliveredAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasDestination reports whether the delivery carries enough destination
// data for the simulator to produce a plan.
func (d *Delivery) HasDestination() bool {
	return d.DestinationCity != "" || d.DestinationState != ""
}
