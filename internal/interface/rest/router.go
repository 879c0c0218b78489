package rest

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parceltrack-service/internal/interface/rest/handlers"
	"parceltrack-service/pkg/logger"
)

// RouterConfig carries the handler dependencies and shared secrets.
type RouterConfig struct {
	Deliveries    handlers.DeliveryService
	Webhooks      handlers.WebhookIngestor
	AdminAPIKey   string
	WebhookAPIKey string
	Logger        logger.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Handlers stay unaware of concrete adapters.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Logger: cfg.Logger}
	tracking := &handlers.TrackingHandler{Service: cfg.Deliveries, Logger: cfg.Logger}
	deliveries := &handlers.DeliveryHandler{Service: cfg.Deliveries, Logger: cfg.Logger}
	simConfig := &handlers.ConfigHandler{Service: cfg.Deliveries, Logger: cfg.Logger}
	webhook := &handlers.WebhookHandler{Processor: cfg.Webhooks, APIKey: cfg.WebhookAPIKey, Logger: cfg.Logger}

	mux.HandleFunc("GET /health", health.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/track/{code}", tracking.Track)
	mux.HandleFunc("POST /api/webhooks/orders", webhook.ReceiveOrder)

	admin := http.NewServeMux()
	admin.HandleFunc("POST /api/deliveries", deliveries.Create)
	admin.HandleFunc("GET /api/deliveries", deliveries.List)
	admin.HandleFunc("PATCH /api/deliveries/{id}/status", deliveries.UpdateStatus)
	admin.HandleFunc("GET /api/deliveries/{id}/events", deliveries.Events)
	admin.HandleFunc("POST /api/deliveries/regenerate", deliveries.Regenerate)
	admin.HandleFunc("GET /api/config", simConfig.Get)
	admin.HandleFunc("PUT /api/config", simConfig.Update)

	adminGuard := adminKeyMiddleware(cfg.AdminAPIKey, cfg.Logger, admin)
	mux.Handle("/api/deliveries", adminGuard)
	mux.Handle("/api/deliveries/", adminGuard)
	mux.Handle("/api/config", adminGuard)

	return loggingMiddleware(cfg.Logger, mux)
}
