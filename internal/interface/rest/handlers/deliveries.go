package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/interface/rest/dto"
	"parceltrack-service/internal/usecase"
	"parceltrack-service/pkg/logger"
)

// DeliveryService is the slice of the delivery usecase the HTTP layer needs.
type DeliveryService interface {
	Create(ctx context.Context, d *entity.Delivery) error
	UpdateStatus(ctx context.Context, id uint, status entity.Status, location string) (*entity.Delivery, error)
	Regenerate(ctx context.Context, ids []uint) *usecase.RegenerateResult
	Track(ctx context.Context, code string) (*entity.Delivery, []*entity.DeliveryHistory, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Delivery, error)
	UpcomingEvents(ctx context.Context, id uint) ([]*entity.ScheduledEvent, error)
	GetConfig(ctx context.Context) (entity.SimulationConfig, error)
	UpdateConfig(ctx context.Context, cfg *entity.SimulationConfig) error
}

// DeliveryHandler exposes the admin delivery management endpoints
type DeliveryHandler struct {
	Service DeliveryService
	Logger  logger.Logger
}

// Create registers a new delivery and installs its simulated event plan
func (h *DeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeliveryRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "invalid json body")
		return
	}

	if strings.TrimSpace(req.RecipientName) == "" {
		writeError(w, h.Logger, http.StatusBadRequest, "recipient_name is required")
		return
	}

	d := &entity.Delivery{
		Status:           entity.StatusPending,
		DestinationCity:  strings.TrimSpace(req.DestinationCity),
		DestinationState: strings.TrimSpace(req.DestinationState),
		DestinationLat:   req.DestinationLat,
		DestinationLng:   req.DestinationLng,
		RecipientName:    strings.TrimSpace(req.RecipientName),
		RecipientPhone:   strings.TrimSpace(req.RecipientPhone),
		Description:      req.Description,
		WeightKg:         req.WeightKg,
	}

	if err := h.Service.Create(r.Context(), d); err != nil {
		h.Logger.Error("Failed to create delivery", "error", err)
		writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, h.Logger, http.StatusCreated, toDeliveryResponse(d))
}

// List returns deliveries for the admin panel
func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	if limit < 1 || limit > 200 {
		writeError(w, h.Logger, http.StatusBadRequest, "limit must be between 1 and 200")
		return
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		writeError(w, h.Logger, http.StatusBadRequest, "offset must not be negative")
		return
	}

	deliveries, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		h.Logger.Error("Failed to list deliveries", "error", err)
		writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListDeliveriesResponse{Deliveries: make([]dto.DeliveryResponse, 0, len(deliveries))}
	for _, d := range deliveries {
		res.Deliveries = append(res.Deliveries, toDeliveryResponse(d))
	}
	writeJSON(w, h.Logger, http.StatusOK, res)
}

// UpdateStatus applies a manual status change to one delivery
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "invalid delivery id")
		return
	}

	var req dto.UpdateStatusRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "invalid json body")
		return
	}

	status := entity.Status(strings.TrimSpace(req.Status))
	if !status.IsValid() {
		writeError(w, h.Logger, http.StatusBadRequest, "unknown status")
		return
	}

	d, err := h.Service.UpdateStatus(r.Context(), uint(id), status, strings.TrimSpace(req.Location))
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			writeError(w, h.Logger, http.StatusNotFound, "delivery not found")
		case errors.Is(err, entity.ErrInvalidTransition):
			writeError(w, h.Logger, http.StatusConflict, err.Error())
		default:
			h.Logger.Error("Failed to update status", "deliveryID", id, "error", err)
			writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, h.Logger, http.StatusOK, toDeliveryResponse(d))
}

// Regenerate rebuilds the simulated event plan for a batch of deliveries.
// Per-item failures are reported in the aggregated response; the endpoint
// itself only fails on malformed input.
func (h *DeliveryHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req dto.RegenerateRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.DeliveryIDs) == 0 {
		writeError(w, h.Logger, http.StatusBadRequest, "delivery_ids is required")
		return
	}

	result := h.Service.Regenerate(r.Context(), req.DeliveryIDs)

	status := http.StatusOK
	if result.Succeeded == 0 && result.Failed > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, h.Logger, status, result)
}

// Events returns a delivery's remaining simulated plan for the admin panel
func (h *DeliveryHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "invalid delivery id")
		return
	}

	events, err := h.Service.UpcomingEvents(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, h.Logger, http.StatusNotFound, "delivery not found")
			return
		}
		h.Logger.Error("Failed to list upcoming events", "deliveryID", id, "error", err)
		writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.UpcomingEventsResponse{
		DeliveryID: uint(id),
		Events:     make([]dto.ScheduledEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		res.Events = append(res.Events, dto.ScheduledEventResponse{
			ScheduledFor: ev.ScheduledFor,
			EventType:    ev.EventType,
			Status:       string(ev.NewStatus),
			Location:     ev.Location,
			City:         ev.City,
			State:        ev.State,
			Lat:          ev.Lat,
			Lng:          ev.Lng,
			Description:  ev.Description,
		})
	}
	writeJSON(w, h.Logger, http.StatusOK, res)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return v
}
