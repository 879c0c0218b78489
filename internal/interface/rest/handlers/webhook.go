package handlers

import (
	"context"
	"crypto/subtle"
	"io"
	"net/http"

	"parceltrack-service/internal/interface/rest/dto"
	"parceltrack-service/pkg/logger"
)

// maxWebhookBody caps incoming webhook payloads at 1 MiB.
const maxWebhookBody = 1 << 20

// WebhookIngestor is the slice of the webhook processor the HTTP layer needs.
type WebhookIngestor interface {
	Ingest(ctx context.Context, eventType string, raw []byte) (string, error)
}

// WebhookHandler receives order events from the e-commerce platform
type WebhookHandler struct {
	Processor WebhookIngestor
	APIKey    string
	Logger    logger.Logger
}

// ReceiveOrder archives and processes a platform order event
func (h *WebhookHandler) ReceiveOrder(w http.ResponseWriter, r *http.Request) {
	if h.APIKey != "" {
		provided := r.Header.Get("X-Webhook-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(h.APIKey)) != 1 {
			writeError(w, h.Logger, http.StatusUnauthorized, "invalid webhook key")
			return
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	r.Body.Close()
	if err != nil {
		writeError(w, h.Logger, http.StatusBadRequest, "failed to read body")
		return
	}

	eventID, err := h.Processor.Ingest(r.Context(), r.Header.Get("X-Event-Type"), body)
	if err != nil {
		h.Logger.Error("Webhook ingestion failed", "error", err)
		writeError(w, h.Logger, http.StatusBadRequest, "invalid payload")
		return
	}

	writeJSON(w, h.Logger, http.StatusAccepted, dto.WebhookAckResponse{
		EventID: eventID,
		Status:  "accepted",
	})
}
