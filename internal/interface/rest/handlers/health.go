package handlers

import (
	"net/http"

	"parceltrack-service/pkg/logger"
)

// HealthHandler provides a minimal liveness check endpoint
type HealthHandler struct {
	Logger logger.Logger
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Logger, http.StatusOK, map[string]string{"status": "ok"})
}
