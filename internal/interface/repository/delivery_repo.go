package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
)

// GormDeliveryRepository implements the DeliveryRepository interface
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GORM delivery repository
func NewGormDeliveryRepository(db *gorm.DB) repository.DeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Deliveries GORM model for database mapping
type Deliveries struct {
	gorm.Model
	TrackingCode      string     `gorm:"column:tracking_code;uniqueIndex"`
	Status            string     `gorm:"column:status;index"`
	OriginCity        string     `gorm:"column:origin_city"`
	OriginState       string     `gorm:"column:origin_state"`
	OriginLat         float64    `gorm:"column:origin_lat"`
	OriginLng         float64    `gorm:"column:origin_lng"`
	DestinationCity   string     `gorm:"column:destination_city"`
	DestinationState  string     `gorm:"column:destination_state"`
	DestinationLat    float64    `gorm:"column:destination_lat"`
	DestinationLng    float64    `gorm:"column:destination_lng"`
	RecipientName     string     `gorm:"column:recipient_name"`
	RecipientPhone    string     `gorm:"column:recipient_phone"`
	Description       string     `gorm:"column:description"`
	WeightKg          float64    `gorm:"column:weight_kg"`
	CurrentLocation   string     `gorm:"column:current_location"`
	EstimatedDelivery time.Time  `gorm:"column:estimated_delivery"`
	DeliveredAt       *time.Time `gorm:"column:delivered_at"`
}

// TableName overrides the default table name
func (Deliveries) TableName() string {
	return "deliveries"
}

// Create inserts a new delivery into the database
func (r *GormDeliveryRepository) Create(ctx context.Context, d *entity.Delivery) error {
	model := toDeliveryModel(d)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}

	d.ID = model.ID
	d.CreatedAt = model.CreatedAt
	d.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID finds a delivery by primary key
func (r *GormDeliveryRepository) FindByID(ctx context.Context, id uint) (*entity.Delivery, error) {
	var model Deliveries
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}
	return toDeliveryEntity(&model), nil
}

// FindByTrackingCode finds a delivery by its public tracking code
func (r *GormDeliveryRepository) FindByTrackingCode(ctx context.Context, code string) (*entity.Delivery, error) {
	var model Deliveries
	result := r.db.WithContext(ctx).Where("tracking_code = ?", code).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, entity.ErrNotFound
		}
		return nil, result.Error
	}
	return toDeliveryEntity(&model), nil
}

// List returns deliveries ordered newest first
func (r *GormDeliveryRepository) List(ctx context.Context, limit, offset int) ([]*entity.Delivery, error) {
	var models []Deliveries
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	deliveries := make([]*entity.Delivery, 0, len(models))
	for i := range models {
		deliveries = append(deliveries, toDeliveryEntity(&models[i]))
	}
	return deliveries, nil
}

// Update persists the mutable delivery fields
func (r *GormDeliveryRepository) Update(ctx context.Context, d *entity.Delivery) error {
	result := r.db.WithContext(ctx).Model(&Deliveries{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"status":             string(d.Status),
		"current_location":   d.CurrentLocation,
		"delivered_at":       d.DeliveredAt,
		"estimated_delivery": d.EstimatedDelivery,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func toDeliveryModel(d *entity.Delivery) *Deliveries {
	return &Deliveries{
		TrackingCode:      d.TrackingCode,
		Status:            string(d.Status),
		OriginCity:        d.OriginCity,
		OriginState:       d.OriginState,
		OriginLat:         d.OriginLat,
		OriginLng:         d.OriginLng,
		DestinationCity:   d.DestinationCity,
		DestinationState:  d.DestinationState,
		DestinationLat:    d.DestinationLat,
		DestinationLng:    d.DestinationLng,
		RecipientName:     d.RecipientName,
		RecipientPhone:    d.RecipientPhone,
		Description:       d.Description,
		WeightKg:          d.WeightKg,
		CurrentLocation:   d.CurrentLocation,
		EstimatedDelivery: d.EstimatedDelivery,
		DeliveredAt:       d.DeliveredAt,
	}
}

func toDeliveryEntity(m *Deliveries) *entity.Delivery {
	return &entity.Delivery{
		ID:                m.ID,
		TrackingCode:      m.TrackingCode,
		Status:            entity.Status(m.Status),
		OriginCity:        m.OriginCity,
		OriginState:       m.OriginState,
		OriginLat:         m.OriginLat,
		OriginLng:         m.OriginLng,
		DestinationCity:   m.DestinationCity,
		DestinationState:  m.DestinationState,
		DestinationLat:    m.DestinationLat,
		DestinationLng:    m.DestinationLng,
		RecipientName:     m.RecipientName,
		RecipientPhone:    m.RecipientPhone,
		Description:       m.Description,
		WeightKg:          m.WeightKg,
		CurrentLocation:   m.CurrentLocation,
		EstimatedDelivery: m.EstimatedDelivery,
		DeliveredAt:       m.DeliveredAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
