package usecase

import (
	"context"
	"fmt"
	"time"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
	"parceltrack-service/templates"
)

// EventExecutor walks due scheduled events and applies them to their
// deliveries: status and location move forward, a history entry is appended,
// the event is marked executed and a notification goes out. Per-event
// failures are logged and the sweep continues.
type EventExecutor struct {
	deliveryRepo repository.DeliveryRepository
	historyRepo  repository.HistoryRepository
	eventRepo    repository.ScheduledEventRepository
	whatsappRepo repository.WhatsappRepository
	logger       logger.Logger
	metrics      *metrics.Metrics

	now   func() time.Time
	limit int
}

// NewEventExecutor creates a new event executor
func NewEventExecutor(
	deliveryRepo repository.DeliveryRepository,
	historyRepo repository.HistoryRepository,
	eventRepo repository.ScheduledEventRepository,
	whatsappRepo repository.WhatsappRepository,
	log logger.Logger,
	m *metrics.Metrics,
) *EventExecutor {
	return &EventExecutor{
		deliveryRepo: deliveryRepo,
		historyRepo:  historyRepo,
		eventRepo:    eventRepo,
		whatsappRepo: whatsappRepo,
		logger:       log,
		metrics:      m,
		now:          time.Now,
		limit:        200,
	}
}

// WithClock overrides the executor clock. Used in tests.
func (e *EventExecutor) WithClock(now func() time.Time) *EventExecutor {
	e.now = now
	return e
}

// Run sweeps due events on every tick until the context is cancelled.
func (e *EventExecutor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Event executor stopped")
			return
		case <-ticker.C:
			if err := e.ExecuteDue(ctx); err != nil {
				e.logger.Error("Event sweep failed", "error", err)
			}
		}
	}
}

// ExecuteDue applies every unexecuted event whose scheduled time has passed,
// oldest first.
func (e *EventExecutor) ExecuteDue(ctx context.Context) error {
	now := e.now()
	start := time.Now()

	events, err := e.eventRepo.FindDue(ctx, now, e.limit)
	if err != nil {
		return fmt.Errorf("execute due events: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	e.logger.Info("Executing due events", "count", len(events))
	for _, ev := range events {
		if err := e.apply(ctx, ev, now); err != nil {
			e.logger.Error("Failed to apply event",
				"eventID", ev.ID, "deliveryID", ev.DeliveryID, "error", err)
			if e.metrics != nil {
				e.metrics.ErrorsCount.WithLabelValues("execute_event").Inc()
			}
		}
	}

	if e.metrics != nil {
		e.metrics.ExecutionTime.Observe(time.Since(start).Seconds())
	}
	return nil
}

func (e *EventExecutor) apply(ctx context.Context, ev *entity.ScheduledEvent, now time.Time) error {
	d, err := e.deliveryRepo.FindByID(ctx, ev.DeliveryID)
	if err != nil {
		return fmt.Errorf("load delivery: %w", err)
	}

	// A manual update may have overtaken the plan. Skip stale events but
	// still mark them so they are not retried forever.
	statusChanged := d.Status != ev.NewStatus
	if statusChanged && !entity.CanTransition(d.Status, ev.NewStatus) {
		e.logger.Warn("Skipping stale event",
			"eventID", ev.ID, "deliveryStatus", d.Status, "eventStatus", ev.NewStatus)
		return e.eventRepo.MarkExecuted(ctx, ev.ID)
	}

	d.Status = ev.NewStatus
	if ev.Location != "" {
		d.CurrentLocation = ev.Location
	}
	if ev.NewStatus == entity.StatusDelivered {
		deliveredAt := ev.ScheduledFor
		d.DeliveredAt = &deliveredAt
	}

	if err := e.deliveryRepo.Update(ctx, d); err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}

	if err := e.historyRepo.Append(ctx, &entity.DeliveryHistory{
		DeliveryID:  d.ID,
		Status:      ev.NewStatus,
		Location:    ev.Location,
		City:        ev.City,
		State:       ev.State,
		Lat:         ev.Lat,
		Lng:         ev.Lng,
		Description: ev.Description,
		CreatedAt:   now,
	}); err != nil {
		return fmt.Errorf("append history: %w", err)
	}

	if err := e.eventRepo.MarkExecuted(ctx, ev.ID); err != nil {
		return fmt.Errorf("mark executed: %w", err)
	}
	if e.metrics != nil {
		e.metrics.EventsExecuted.Inc()
	}

	// Location-only updates do not ping the recipient.
	if statusChanged {
		e.notifyAsync(d)
	}
	return nil
}

func (e *EventExecutor) notifyAsync(d *entity.Delivery) {
	if e.whatsappRepo == nil || d.RecipientPhone == "" {
		return
	}

	notification := &entity.Notification{
		Type:         entity.StatusNotification,
		Phone:        d.RecipientPhone,
		Text:         templates.StatusMessage(d),
		TrackingCode: d.TrackingCode,
		Status:       d.Status,
		ScheduleAt:   e.now(),
		CreatedAt:    e.now(),
	}
	if d.Status == entity.StatusDelivered {
		notification.Type = entity.DeliveredNotification
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := e.whatsappRepo.SendNotification(ctx, notification); err != nil {
			e.logger.Error("Failed to send notification", "trackingCode", d.TrackingCode, "error", err)
			return
		}
		if e.metrics != nil {
			e.metrics.NotificationsSent.Inc()
		}
	}()
}
