package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
	"parceltrack-service/templates"
)

// DeliveryService handles delivery lifecycle logic: creation, manual status
// updates, and plan regeneration. It owns the idempotency contract around
// the simulator: a delivery's unexecuted events are always replaced as a
// whole, never appended to.
type DeliveryService struct {
	deliveryRepo repository.DeliveryRepository
	historyRepo  repository.HistoryRepository
	eventRepo    repository.ScheduledEventRepository
	configRepo   repository.SimulationConfigRepository
	whatsappRepo repository.WhatsappRepository
	logger       logger.Logger
	metrics      *metrics.Metrics

	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// RegenerateItemError reports a single delivery that could not be
// regenerated inside a batch.
type RegenerateItemError struct {
	DeliveryID uint   `json:"delivery_id"`
	Reason     string `json:"reason"`
}

// RegenerateResult aggregates a regeneration batch. One delivery failing
// never aborts the batch.
type RegenerateResult struct {
	Succeeded int                   `json:"succeeded"`
	Failed    int                   `json:"failed"`
	Errors    []RegenerateItemError `json:"errors,omitempty"`
}

// NewDeliveryService creates a new delivery service
func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	historyRepo repository.HistoryRepository,
	eventRepo repository.ScheduledEventRepository,
	configRepo repository.SimulationConfigRepository,
	whatsappRepo repository.WhatsappRepository,
	log logger.Logger,
	m *metrics.Metrics,
) *DeliveryService {
	return &DeliveryService{
		deliveryRepo: deliveryRepo,
		historyRepo:  historyRepo,
		eventRepo:    eventRepo,
		configRepo:   configRepo,
		whatsappRepo: whatsappRepo,
		logger:       log,
		metrics:      m,
		now:          time.Now,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock overrides the service clock and randomness source. Used in tests.
func (s *DeliveryService) WithClock(now func() time.Time, rng *rand.Rand) *DeliveryService {
	s.now = now
	s.rng = rng
	return s
}

// Create registers a delivery, estimates its delivery date, records the
// creation history entry and installs the simulated event plan. An empty
// plan (insufficient destination data) is logged and does not fail creation.
func (s *DeliveryService) Create(ctx context.Context, d *entity.Delivery) error {
	if d.Status == "" {
		d.Status = entity.StatusPending
	}
	if !d.Status.IsValid() {
		return fmt.Errorf("create delivery: unknown status %q", d.Status)
	}
	if d.TrackingCode == "" {
		d.TrackingCode = newTrackingCode()
	}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("create delivery: load simulation config: %w", err)
	}
	if d.OriginCity == "" {
		d.OriginCity = cfg.OriginCity
		d.OriginState = cfg.OriginState
		d.OriginLat = cfg.OriginLat
		d.OriginLng = cfg.OriginLng
	}

	now := s.now()
	s.mu.Lock()
	est, err := EstimateDeliveryDate(cfg, d.DestinationCity, d.DestinationState, now, s.rng)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("create delivery: estimate delivery date: %w", err)
	}
	d.EstimatedDelivery = est
	d.CurrentLocation = placeLabel(d.OriginCity, d.OriginState)

	if err := s.deliveryRepo.Create(ctx, d); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}

	if err := s.historyRepo.Append(ctx, &entity.DeliveryHistory{
		DeliveryID:  d.ID,
		Status:      d.Status,
		Location:    d.CurrentLocation,
		City:        d.OriginCity,
		State:       d.OriginState,
		Lat:         d.OriginLat,
		Lng:         d.OriginLng,
		Description: "Delivery registered",
		CreatedAt:   now,
	}); err != nil {
		return fmt.Errorf("create delivery: append history: %w", err)
	}

	if err := s.installPlan(ctx, d, cfg, now); err != nil {
		return fmt.Errorf("create delivery: %w", err)
	}

	if s.metrics != nil {
		s.metrics.DeliveriesCreated.Inc()
	}
	s.logger.Info("Delivery created",
		"trackingCode", d.TrackingCode,
		"destination", placeLabel(d.DestinationCity, d.DestinationState),
		"estimatedDelivery", d.EstimatedDelivery.Format("2006-01-02"))

	s.notifyAsync(d, templates.CreatedMessage(d))
	return nil
}

// UpdateStatus applies a manual status change through the state machine.
// Terminal statuses void the remaining simulated plan; delivered stamps
// DeliveredAt. Notification dispatch is fire-and-forget.
func (s *DeliveryService) UpdateStatus(ctx context.Context, id uint, newStatus entity.Status, location string) (*entity.Delivery, error) {
	d, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if !entity.CanTransition(d.Status, newStatus) {
		return nil, fmt.Errorf("update status: %s -> %s: %w", d.Status, newStatus, entity.ErrInvalidTransition)
	}

	now := s.now()
	d.Status = newStatus
	if location != "" {
		d.CurrentLocation = location
	}
	if newStatus == entity.StatusDelivered {
		d.DeliveredAt = &now
	} else {
		d.DeliveredAt = nil
	}

	if err := s.deliveryRepo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	if err := s.historyRepo.Append(ctx, &entity.DeliveryHistory{
		DeliveryID:  d.ID,
		Status:      newStatus,
		Location:    d.CurrentLocation,
		Description: fmt.Sprintf("Status manually updated to %s", newStatus),
		CreatedAt:   now,
	}); err != nil {
		return nil, fmt.Errorf("update status: append history: %w", err)
	}

	// A forced terminal state voids the simulated plan.
	if newStatus.IsTerminal() {
		if err := s.eventRepo.DeleteUnexecuted(ctx, d.ID); err != nil {
			s.logger.Error("Failed to cancel scheduled events", "deliveryID", d.ID, "error", err)
			if s.metrics != nil {
				s.metrics.ErrorsCount.WithLabelValues("cancel_events").Inc()
			}
		}
	}

	s.logger.Info("Delivery status updated", "trackingCode", d.TrackingCode, "status", newStatus)
	s.notifyAsync(d, templates.StatusMessage(d))
	return d, nil
}

// Regenerate replaces the simulated plan for each delivery in the batch.
// Terminal deliveries and deliveries yielding an empty plan are reported as
// per-item failures; the batch always runs to completion.
func (s *DeliveryService) Regenerate(ctx context.Context, ids []uint) *RegenerateResult {
	result := &RegenerateResult{}

	cfg, err := s.configRepo.Get(ctx)
	if err != nil {
		s.logger.Error("Failed to load simulation config", "error", err)
		for _, id := range ids {
			result.Failed++
			result.Errors = append(result.Errors, RegenerateItemError{DeliveryID: id, Reason: "simulation config unavailable"})
		}
		return result
	}

	for _, id := range ids {
		if reason := s.regenerateOne(ctx, id, cfg); reason != "" {
			result.Failed++
			result.Errors = append(result.Errors, RegenerateItemError{DeliveryID: id, Reason: reason})
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("Regeneration batch finished", "succeeded", result.Succeeded, "failed", result.Failed)
	return result
}

func (s *DeliveryService) regenerateOne(ctx context.Context, id uint, cfg entity.SimulationConfig) string {
	d, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Sprintf("load delivery: %v", err)
	}
	if d.Status.IsTerminal() {
		return fmt.Sprintf("delivery is %s, nothing to regenerate", d.Status)
	}

	now := s.now()
	s.mu.Lock()
	drafts, err := GenerateDeliveryEvents(d, cfg, now, s.rng)
	s.mu.Unlock()
	if err != nil {
		return fmt.Sprintf("generate events: %v", err)
	}
	if len(drafts) == 0 {
		return "no events generated (missing destination data)"
	}

	if err := s.eventRepo.ReplaceUnexecuted(ctx, d.ID, drafts); err != nil {
		return fmt.Sprintf("replace events: %v", err)
	}
	if s.metrics != nil {
		s.metrics.EventsGenerated.Add(float64(len(drafts)))
	}
	return ""
}

// Track returns a delivery and its ordered history by tracking code.
func (s *DeliveryService) Track(ctx context.Context, code string) (*entity.Delivery, []*entity.DeliveryHistory, error) {
	code = strings.TrimSpace(code)
	d, err := s.deliveryRepo.FindByTrackingCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("track %q: %w", code, err)
	}

	history, err := s.historyRepo.ListByDelivery(ctx, d.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("track %q: load history: %w", code, err)
	}
	return d, history, nil
}

// List returns deliveries for the admin panel.
func (s *DeliveryService) List(ctx context.Context, limit, offset int) ([]*entity.Delivery, error) {
	return s.deliveryRepo.List(ctx, limit, offset)
}

// UpcomingEvents returns a delivery's unexecuted plan, soonest first.
func (s *DeliveryService) UpcomingEvents(ctx context.Context, id uint) ([]*entity.ScheduledEvent, error) {
	if _, err := s.deliveryRepo.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}

	events, err := s.eventRepo.ListUnexecuted(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("upcoming events: %w", err)
	}
	return events, nil
}

// GetConfig returns the active simulation configuration.
func (s *DeliveryService) GetConfig(ctx context.Context) (entity.SimulationConfig, error) {
	return s.configRepo.Get(ctx)
}

// UpdateConfig validates and persists the simulation configuration
// singleton. New deliveries pick it up immediately; existing plans stay as
// generated until someone regenerates them.
func (s *DeliveryService) UpdateConfig(ctx context.Context, cfg *entity.SimulationConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("update config: %w", err)
	}

	current, err := s.configRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	cfg.ID = current.ID

	if err := s.configRepo.Save(ctx, cfg); err != nil {
		return fmt.Errorf("update config: %w", err)
	}
	s.logger.Info("Simulation config updated",
		"origin", placeLabel(cfg.OriginCity, cfg.OriginState),
		"minDays", cfg.MinDeliveryDays, "maxDays", cfg.MaxDeliveryDays)
	return nil
}

// installPlan generates and persists the event plan for a delivery. Empty
// plans are logged and tolerated.
func (s *DeliveryService) installPlan(ctx context.Context, d *entity.Delivery, cfg entity.SimulationConfig, now time.Time) error {
	s.mu.Lock()
	drafts, err := GenerateDeliveryEvents(d, cfg, now, s.rng)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("generate events: %w", err)
	}
	if len(drafts) == 0 {
		s.logger.Warn("No events generated for delivery", "trackingCode", d.TrackingCode)
		return nil
	}

	if err := s.eventRepo.ReplaceUnexecuted(ctx, d.ID, drafts); err != nil {
		return fmt.Errorf("replace events: %w", err)
	}
	if s.metrics != nil {
		s.metrics.EventsGenerated.Add(float64(len(drafts)))
	}
	return nil
}

// notifyAsync dispatches a WhatsApp notification without blocking the
// caller. Channel errors are logged and never propagated.
func (s *DeliveryService) notifyAsync(d *entity.Delivery, text string) {
	if s.whatsappRepo == nil || d.RecipientPhone == "" {
		return
	}

	notification := &entity.Notification{
		Type:         entity.StatusNotification,
		Phone:        d.RecipientPhone,
		Text:         text,
		TrackingCode: d.TrackingCode,
		Status:       d.Status,
		ScheduleAt:   s.now(),
		CreatedAt:    s.now(),
	}
	if d.Status == entity.StatusDelivered {
		notification.Type = entity.DeliveredNotification
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.whatsappRepo.SendNotification(ctx, notification); err != nil {
			s.logger.Error("Failed to send notification", "trackingCode", d.TrackingCode, "error", err)
			if s.metrics != nil {
				s.metrics.ErrorsCount.WithLabelValues("notify").Inc()
			}
			return
		}
		if s.metrics != nil {
			s.metrics.NotificationsSent.Inc()
		}
	}()
}

func newTrackingCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "PT" + raw[:10]
}
