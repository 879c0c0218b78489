package handlers

import (
	"errors"
	"net/http"
	"strings"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/interface/rest/dto"
	"parceltrack-service/pkg/logger"
)

// TrackingHandler exposes the public tracking endpoint
type TrackingHandler struct {
	Service DeliveryService
	Logger  logger.Logger
}

// Track returns a delivery and its history by tracking code
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.PathValue("code"))
	if code == "" {
		writeError(w, h.Logger, http.StatusBadRequest, "tracking code is required")
		return
	}

	d, history, err := h.Service.Track(r.Context(), code)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			writeError(w, h.Logger, http.StatusNotFound, "tracking code not found")
			return
		}
		h.Logger.Error("Failed to track delivery", "code", code, "error", err)
		writeError(w, h.Logger, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.TrackResponse{
		Delivery: toDeliveryResponse(d),
		History:  make([]dto.HistoryEntryResponse, 0, len(history)),
	}
	for _, entry := range history {
		res.History = append(res.History, dto.HistoryEntryResponse{
			Status:      string(entry.Status),
			Location:    entry.Location,
			City:        entry.City,
			State:       entry.State,
			Lat:         entry.Lat,
			Lng:         entry.Lng,
			Description: entry.Description,
			CreatedAt:   entry.CreatedAt,
		})
	}

	writeJSON(w, h.Logger, http.StatusOK, res)
}
