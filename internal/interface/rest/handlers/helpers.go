package handlers

import (
	"encoding/json"
	"net/http"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/interface/rest/dto"
	"parceltrack-service/pkg/logger"
)

func writeJSON(w http.ResponseWriter, log logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, status int, msg string) {
	writeJSON(w, log, status, map[string]string{"error": msg})
}

func toDeliveryResponse(d *entity.Delivery) dto.DeliveryResponse {
	estimated := ""
	if !d.EstimatedDelivery.IsZero() {
		estimated = d.EstimatedDelivery.Format("2006-01-02")
	}
	return dto.DeliveryResponse{
		ID:                d.ID,
		TrackingCode:      d.TrackingCode,
		Status:            string(d.Status),
		OriginCity:        d.OriginCity,
		OriginState:       d.OriginState,
		DestinationCity:   d.DestinationCity,
		DestinationState:  d.DestinationState,
		RecipientName:     d.RecipientName,
		Description:       d.Description,
		WeightKg:          d.WeightKg,
		CurrentLocation:   d.CurrentLocation,
		EstimatedDelivery: estimated,
		DeliveredAt:       d.DeliveredAt,
		CreatedAt:         d.CreatedAt,
	}
}
