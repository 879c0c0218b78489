package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
)

// staleClaimAge is how long an archive may sit in PROCESSING before a sweep
// assumes its worker died and resets the claim.
const staleClaimAge = 5 * time.Minute

// WebhookProcessor ingests order events from the e-commerce platform. Every
// raw payload is archived first; processing turns it into a delivery through
// the same path the admin creation uses. Archived payloads that failed or
// never processed are retried by a background sweep. A worker must claim an
// archive (PENDING -> PROCESSING) before processing it, so an ingest and an
// overlapping sweep never both create a delivery for the same archive.
type WebhookProcessor struct {
	webhookRepo repository.WebhookRepository
	deliveries  *DeliveryService
	logger      logger.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewWebhookProcessor creates a new webhook processor
func NewWebhookProcessor(
	webhookRepo repository.WebhookRepository,
	deliveries *DeliveryService,
	log logger.Logger,
	m *metrics.Metrics,
) *WebhookProcessor {
	return &WebhookProcessor{
		webhookRepo: webhookRepo,
		deliveries:  deliveries,
		logger:      log,
		metrics:     m,
		now:         time.Now,
	}
}

// WithClock overrides the processor clock. Used in tests.
func (p *WebhookProcessor) WithClock(now func() time.Time) *WebhookProcessor {
	p.now = now
	return p
}

// Ingest archives a raw order payload and processes it immediately.
// Archiving failures are fatal for the request (the platform will retry);
// processing failures are not, the sweep picks the archive up later.
func (p *WebhookProcessor) Ingest(ctx context.Context, eventType string, raw []byte) (string, error) {
	var rawMap map[string]interface{}
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		return "", fmt.Errorf("ingest webhook: invalid json payload: %w", err)
	}

	var payload entity.OrderPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("ingest webhook: decode order payload: %w", err)
	}
	if payload.EventType == "" {
		payload.EventType = eventType
	}

	order := &entity.WebhookOrder{
		EventID:       uuid.New().String(),
		EventType:     payload.EventType,
		OrderID:       payload.OrderID,
		RawPayload:    rawMap,
		ReceivedAt:    p.now(),
		ProcessStatus: entity.WebhookStatusPending,
	}
	if err := p.webhookRepo.Save(ctx, order); err != nil {
		return "", fmt.Errorf("ingest webhook: archive payload: %w", err)
	}
	if p.metrics != nil {
		p.metrics.WebhooksReceived.Inc()
	}

	claimed, err := p.webhookRepo.Claim(ctx, order.EventID)
	if err != nil {
		p.logger.Error("Failed to claim webhook archive, sweep will retry",
			"eventID", order.EventID, "error", err)
		return order.EventID, nil
	}
	if !claimed {
		// A sweep got there first; it owns the archive now.
		return order.EventID, nil
	}

	if err := p.process(ctx, order, &payload); err != nil {
		p.logger.Error("Webhook processing failed, archive kept for retry",
			"eventID", order.EventID, "orderID", order.OrderID, "error", err)
	}
	return order.EventID, nil
}

// ProcessPending retries archived payloads that were never processed. Stale
// PROCESSING claims are recovered first, then each archive is claimed before
// it is touched; archives another worker already claimed are left alone.
func (p *WebhookProcessor) ProcessPending(ctx context.Context) error {
	if err := p.webhookRepo.ResetStale(ctx, p.now().Add(-staleClaimAge)); err != nil {
		p.logger.Error("Failed to reset stale webhook claims", "error", err)
	}

	orders, err := p.webhookRepo.FindUnprocessed(ctx, 100)
	if err != nil {
		return fmt.Errorf("process pending webhooks: %w", err)
	}
	if len(orders) == 0 {
		return nil
	}

	p.logger.Info("Found unprocessed webhook payloads", "count", len(orders))
	for _, order := range orders {
		claimed, err := p.webhookRepo.Claim(ctx, order.EventID)
		if err != nil {
			p.logger.Error("Failed to claim webhook archive", "eventID", order.EventID, "error", err)
			continue
		}
		if !claimed {
			continue
		}

		payload, err := decodeOrder(order)
		if err != nil {
			p.logger.Error("Skipping malformed webhook archive", "eventID", order.EventID, "error", err)
			if markErr := p.webhookRepo.MarkProcessed(ctx, order.EventID, entity.WebhookStatusSkipped, err.Error(), ""); markErr != nil {
				p.logger.Error("Failed to mark webhook skipped", "eventID", order.EventID, "error", markErr)
			}
			continue
		}
		if err := p.process(ctx, order, payload); err != nil {
			p.logger.Error("Failed to process webhook archive", "eventID", order.EventID, "error", err)
		}
	}
	return nil
}

// Run sweeps pending archives until the context is cancelled.
func (p *WebhookProcessor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Webhook processor stopped")
			return
		case <-ticker.C:
			if err := p.ProcessPending(ctx); err != nil {
				p.logger.Error("Webhook sweep failed", "error", err)
			}
		}
	}
}

// process assumes the caller holds the PROCESSING claim on the archive.
func (p *WebhookProcessor) process(ctx context.Context, order *entity.WebhookOrder, payload *entity.OrderPayload) error {
	if payload.OrderID == "" {
		if err := p.webhookRepo.MarkProcessed(ctx, order.EventID, entity.WebhookStatusSkipped, "missing order_id", ""); err != nil {
			return fmt.Errorf("mark skipped: %w", err)
		}
		return nil
	}

	// Redeliveries carry a fresh event id, so the duplicate check goes
	// through the platform order id.
	dup, err := p.webhookRepo.HasCompletedOrder(ctx, payload.OrderID)
	if err != nil {
		return fmt.Errorf("check duplicate order: %w", err)
	}
	if dup {
		if err := p.webhookRepo.MarkProcessed(ctx, order.EventID, entity.WebhookStatusSkipped, "duplicate order", ""); err != nil {
			return fmt.Errorf("mark skipped: %w", err)
		}
		p.logger.Info("Skipping redelivered order", "eventID", order.EventID, "orderID", order.OrderID)
		return nil
	}

	d := &entity.Delivery{
		Status:           entity.StatusPending,
		DestinationCity:  payload.DestinationCity,
		DestinationState: payload.DestinationState,
		DestinationLat:   payload.DestinationLat,
		DestinationLng:   payload.DestinationLng,
		RecipientName:    payload.RecipientName,
		RecipientPhone:   payload.RecipientPhone,
		Description:      payload.Description,
		WeightKg:         payload.WeightKg,
	}

	if err := p.deliveries.Create(ctx, d); err != nil {
		if markErr := p.webhookRepo.MarkProcessed(ctx, order.EventID, entity.WebhookStatusFailed, err.Error(), ""); markErr != nil {
			p.logger.Error("Failed to mark webhook failed", "eventID", order.EventID, "error", markErr)
		}
		return fmt.Errorf("create delivery from webhook: %w", err)
	}

	if err := p.webhookRepo.MarkProcessed(ctx, order.EventID, entity.WebhookStatusCompleted, "", d.TrackingCode); err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}

	p.logger.Info("Webhook order processed",
		"eventID", order.EventID, "orderID", order.OrderID, "trackingCode", d.TrackingCode)
	return nil
}

func decodeOrder(order *entity.WebhookOrder) (*entity.OrderPayload, error) {
	raw, err := json.Marshal(order.RawPayload)
	if err != nil {
		return nil, fmt.Errorf("re-encode archived payload: %w", err)
	}

	var payload entity.OrderPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode archived payload: %w", err)
	}
	return &payload, nil
}
