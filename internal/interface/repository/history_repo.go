package repository

import (
	"context"

	"gorm.io/gorm"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
)

// GormHistoryRepository implements the HistoryRepository interface
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository
func NewGormHistoryRepository(db *gorm.DB) repository.HistoryRepository {
	return &GormHistoryRepository{db: db}
}

// DeliveryHistories GORM model for database mapping
type DeliveryHistories struct {
	gorm.Model
	DeliveryID  uint    `gorm:"column:delivery_id;index"`
	Status      string  `gorm:"column:status"`
	Location    string  `gorm:"column:location"`
	City        string  `gorm:"column:city"`
	State       string  `gorm:"column:state"`
	Lat         float64 `gorm:"column:lat"`
	Lng         float64 `gorm:"column:lng"`
	Description string  `gorm:"column:description"`
}

// TableName overrides the default table name
func (DeliveryHistories) TableName() string {
	return "delivery_histories"
}

// Append inserts a new audit entry. Entries are never updated or deleted.
func (r *GormHistoryRepository) Append(ctx context.Context, entry *entity.DeliveryHistory) error {
	model := DeliveryHistories{
		DeliveryID:  entry.DeliveryID,
		Status:      string(entry.Status),
		Location:    entry.Location,
		City:        entry.City,
		State:       entry.State,
		Lat:         entry.Lat,
		Lng:         entry.Lng,
		Description: entry.Description,
	}
	if !entry.CreatedAt.IsZero() {
		model.CreatedAt = entry.CreatedAt
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	entry.ID = model.ID
	entry.CreatedAt = model.CreatedAt
	return nil
}

// ListByDelivery returns the audit log for one delivery, oldest first
func (r *GormHistoryRepository) ListByDelivery(ctx context.Context, deliveryID uint) ([]*entity.DeliveryHistory, error) {
	var models []DeliveryHistories
	result := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID).
		Order("created_at ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.DeliveryHistory, 0, len(models))
	for i := range models {
		m := &models[i]
		entries = append(entries, &entity.DeliveryHistory{
			ID:          m.ID,
			DeliveryID:  m.DeliveryID,
			Status:      entity.Status(m.Status),
			Location:    m.Location,
			City:        m.City,
			State:       m.State,
			Lat:         m.Lat,
			Lng:         m.Lng,
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
		})
	}
	return entries, nil
}
