package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/interface/rest/dto"
	"parceltrack-service/pkg/logger"
)

// ConfigHandler exposes the admin simulation configuration endpoints
type ConfigHandler struct {
	Service DeliveryService
	Logger  logger.Logger
}

// Get returns the active simulation configuration
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.GetConfig(r.Context())
	if err != nil {
		h.Logger.Error("Failed to load simulation config", "error", err)
		writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, h.Logger, http.StatusOK, toConfigResponse(cfg))
}

// Update replaces the simulation configuration. The new values apply to
// deliveries created or regenerated afterwards.
func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulationConfigRequest
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "invalid json body")
		return
	}

	cfg := entity.SimulationConfig{
		OriginCity:             strings.TrimSpace(req.OriginCity),
		OriginState:            strings.TrimSpace(req.OriginState),
		OriginLat:              req.OriginLat,
		OriginLng:              req.OriginLng,
		MinDeliveryDays:        req.MinDeliveryDays,
		MaxDeliveryDays:        req.MaxDeliveryDays,
		UpdateStartHour:        req.UpdateStartHour,
		UpdateEndHour:          req.UpdateEndHour,
		CheckpointIntervalDays: req.CheckpointIntervalDays,
	}

	if err := h.Service.UpdateConfig(r.Context(), &cfg); err != nil {
		if errors.Is(err, entity.ErrInvalidDayRange) {
			writeError(w, h.Logger, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Error("Failed to update simulation config", "error", err)
		writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, h.Logger, http.StatusOK, toConfigResponse(cfg))
}

func toConfigResponse(cfg entity.SimulationConfig) dto.SimulationConfigResponse {
	return dto.SimulationConfigResponse{
		OriginCity:             cfg.OriginCity,
		OriginState:            cfg.OriginState,
		OriginLat:              cfg.OriginLat,
		OriginLng:              cfg.OriginLng,
		MinDeliveryDays:        cfg.MinDeliveryDays,
		MaxDeliveryDays:        cfg.MaxDeliveryDays,
		UpdateStartHour:        cfg.UpdateStartHour,
		UpdateEndHour:          cfg.UpdateEndHour,
		CheckpointIntervalDays: cfg.CheckpointIntervalDays,
	}
}
