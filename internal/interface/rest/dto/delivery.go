package dto

import "time"

type CreateDeliveryRequest struct {
	DestinationCity  string  `json:"destination_city"`
	DestinationState string  `json:"destination_state"`
	DestinationLat   float64 `json:"destination_lat"`
	DestinationLng   float64 `json:"destination_lng"`
	RecipientName    string  `json:"recipient_name"`
	RecipientPhone   string  `json:"recipient_phone"`
	Description      string  `json:"description"`
	WeightKg         float64 `json:"weight_kg"`
}

type UpdateStatusRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
}

type RegenerateRequest struct {
	DeliveryIDs []uint `json:"delivery_ids"`
}

type DeliveryResponse struct {
	ID                uint       `json:"id"`
	TrackingCode      string     `json:"tracking_code"`
	Status            string     `json:"status"`
	OriginCity        string     `json:"origin_city"`
	OriginState       string     `json:"origin_state"`
	DestinationCity   string     `json:"destination_city"`
	DestinationState  string     `json:"destination_state"`
	RecipientName     string     `json:"recipient_name"`
	Description       string     `json:"description"`
	WeightKg          float64    `json:"weight_kg"`
	CurrentLocation   string     `json:"current_location"`
	EstimatedDelivery string     `json:"estimated_delivery"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

type HistoryEntryResponse struct {
	Status      string    `json:"status"`
	Location    string    `json:"location"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type TrackResponse struct {
	Delivery DeliveryResponse       `json:"delivery"`
	History  []HistoryEntryResponse `json:"history"`
}

type WebhookAckResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

type ScheduledEventResponse struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	EventType    string    `json:"event_type"`
	Status       string    `json:"status"`
	Location     string    `json:"location"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Description  string    `json:"description"`
}

type UpcomingEventsResponse struct {
	DeliveryID uint                     `json:"delivery_id"`
	Events     []ScheduledEventResponse `json:"events"`
}

type SimulationConfigRequest struct {
	OriginCity             string  `json:"origin_city"`
	OriginState            string  `json:"origin_state"`
	OriginLat              float64 `json:"origin_lat"`
	OriginLng              float64 `json:"origin_lng"`
	MinDeliveryDays        int     `json:"min_delivery_days"`
	MaxDeliveryDays        int     `json:"max_delivery_days"`
	UpdateStartHour        int     `json:"update_start_hour"`
	UpdateEndHour          int     `json:"update_end_hour"`
	CheckpointIntervalDays int     `json:"checkpoint_interval_days"`
}

type SimulationConfigResponse struct {
	OriginCity             string  `json:"origin_city"`
	OriginState            string  `json:"origin_state"`
	OriginLat              float64 `json:"origin_lat"`
	OriginLng              float64 `json:"origin_lng"`
	MinDeliveryDays        int     `json:"min_delivery_days"`
	MaxDeliveryDays        int     `json:"max_delivery_days"`
	UpdateStartHour        int     `json:"update_start_hour"`
	UpdateEndHour          int     `json:"update_end_hour"`
	CheckpointIntervalDays int     `json:"checkpoint_interval_days"`
}
