package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
)

// GormScheduledEventRepository implements the ScheduledEventRepository interface
type GormScheduledEventRepository struct {
	db *gorm.DB
}

// NewGormScheduledEventRepository creates a new GORM scheduled event repository
func NewGormScheduledEventRepository(db *gorm.DB) repository.ScheduledEventRepository {
	return &GormScheduledEventRepository{db: db}
}

// ScheduledEvents GORM model for database mapping
type ScheduledEvents struct {
	gorm.Model
	DeliveryID   uint      `gorm:"column:delivery_id;index:idx_scheduled_events_delivery_executed"`
	ScheduledFor time.Time `gorm:"column:scheduled_for;index"`
	EventType    string    `gorm:"column:event_type"`
	NewStatus    string    `gorm:"column:new_status"`
	Location     string    `gorm:"column:location"`
	City         string    `gorm:"column:city"`
	State        string    `gorm:"column:state"`
	Lat          float64   `gorm:"column:lat"`
	Lng          float64   `gorm:"column:lng"`
	Description  string    `gorm:"column:description"`
	Executed     bool      `gorm:"column:executed;index:idx_scheduled_events_delivery_executed"`
}

// TableName overrides the default table name
func (ScheduledEvents) TableName() string {
	return "scheduled_events"
}

// ReplaceUnexecuted swaps a delivery's active plan in a single transaction:
// delete every unexecuted event, then bulk insert the new drafts. Running
// both statements in one transaction keeps concurrent regenerations of the
// same delivery from interleaving into a mixed plan.
func (r *GormScheduledEventRepository) ReplaceUnexecuted(ctx context.Context, deliveryID uint, drafts []entity.ScheduledEventDraft) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_id = ? AND executed = ?", deliveryID, false).
			Delete(&ScheduledEvents{}).Error; err != nil {
			return err
		}
		if len(drafts) == 0 {
			return nil
		}

		models := make([]ScheduledEvents, 0, len(drafts))
		for _, draft := range drafts {
			models = append(models, ScheduledEvents{
				DeliveryID:   draft.DeliveryID,
				ScheduledFor: draft.ScheduledFor,
				EventType:    draft.EventType,
				NewStatus:    string(draft.NewStatus),
				Location:     draft.Location,
				City:         draft.City,
				State:        draft.State,
				Lat:          draft.Lat,
				Lng:          draft.Lng,
				Description:  draft.Description,
			})
		}
		return tx.Create(&models).Error
	})
}

// DeleteUnexecuted cancels a delivery's remaining plan
func (r *GormScheduledEventRepository) DeleteUnexecuted(ctx context.Context, deliveryID uint) error {
	return r.db.WithContext(ctx).
		Where("delivery_id = ? AND executed = ?", deliveryID, false).
		Delete(&ScheduledEvents{}).Error
}

// ListUnexecuted returns a delivery's active plan ordered by schedule time
func (r *GormScheduledEventRepository) ListUnexecuted(ctx context.Context, deliveryID uint) ([]*entity.ScheduledEvent, error) {
	var models []ScheduledEvents
	result := r.db.WithContext(ctx).
		Where("delivery_id = ? AND executed = ?", deliveryID, false).
		Order("scheduled_for ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEventEntities(models), nil
}

// FindDue returns unexecuted events whose schedule time has passed, oldest
// first across all deliveries
func (r *GormScheduledEventRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.ScheduledEvent, error) {
	var models []ScheduledEvents
	result := r.db.WithContext(ctx).
		Where("executed = ? AND scheduled_for <= ?", false, now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEventEntities(models), nil
}

// MarkExecuted flags a single event as applied
func (r *GormScheduledEventRepository) MarkExecuted(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&ScheduledEvents{}).
		Where("id = ?", id).
		Update("executed", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func toEventEntities(models []ScheduledEvents) []*entity.ScheduledEvent {
	events := make([]*entity.ScheduledEvent, 0, len(models))
	for i := range models {
		m := &models[i]
		events = append(events, &entity.ScheduledEvent{
			ID:           m.ID,
			DeliveryID:   m.DeliveryID,
			ScheduledFor: m.ScheduledFor,
			EventType:    m.EventType,
			NewStatus:    entity.Status(m.NewStatus),
			Location:     m.Location,
			City:         m.City,
			State:        m.State,
			Lat:          m.Lat,
			Lng:          m.Lng,
			Description:  m.Description,
			Executed:     m.Executed,
			CreatedAt:    m.CreatedAt,
		})
	}
	return events
}
