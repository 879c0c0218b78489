package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
)

// GormSimulationConfigRepository implements the SimulationConfigRepository
// interface. The table holds at most one row; a missing row means the
// documented defaults apply.
type GormSimulationConfigRepository struct {
	db       *gorm.DB
	fallback entity.SimulationConfig
}

// NewGormSimulationConfigRepository creates a new GORM simulation config
// repository with the given fallback defaults.
func NewGormSimulationConfigRepository(db *gorm.DB, fallback entity.SimulationConfig) repository.SimulationConfigRepository {
	return &GormSimulationConfigRepository{db: db, fallback: fallback}
}

// SimulationConfigs GORM model for database mapping
type SimulationConfigs struct {
	gorm.Model
	OriginCity             string  `gorm:"column:origin_city"`
	OriginState            string  `gorm:"column:origin_state"`
	OriginLat              float64 `gorm:"column:origin_lat"`
	OriginLng              float64 `gorm:"column:origin_lng"`
	MinDeliveryDays        int     `gorm:"column:min_delivery_days"`
	MaxDeliveryDays        int     `gorm:"column:max_delivery_days"`
	UpdateStartHour        int     `gorm:"column:update_start_hour"`
	UpdateEndHour          int     `gorm:"column:update_end_hour"`
	CheckpointIntervalDays int     `gorm:"column:checkpoint_interval_days"`
}

// TableName overrides the default table name
func (SimulationConfigs) TableName() string {
	return "simulation_configs"
}

// Get returns the configuration singleton, or the fallback defaults when no
// row exists.
func (r *GormSimulationConfigRepository) Get(ctx context.Context) (entity.SimulationConfig, error) {
	var model SimulationConfigs
	result := r.db.WithContext(ctx).Order("id ASC").First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return r.fallback, nil
		}
		return entity.SimulationConfig{}, result.Error
	}

	return entity.SimulationConfig{
		ID:                     model.ID,
		OriginCity:             model.OriginCity,
		OriginState:            model.OriginState,
		OriginLat:              model.OriginLat,
		OriginLng:              model.OriginLng,
		MinDeliveryDays:        model.MinDeliveryDays,
		MaxDeliveryDays:        model.MaxDeliveryDays,
		UpdateStartHour:        model.UpdateStartHour,
		UpdateEndHour:          model.UpdateEndHour,
		CheckpointIntervalDays: model.CheckpointIntervalDays,
	}, nil
}

// Save upserts the configuration singleton
func (r *GormSimulationConfigRepository) Save(ctx context.Context, cfg *entity.SimulationConfig) error {
	model := SimulationConfigs{
		OriginCity:             cfg.OriginCity,
		OriginState:            cfg.OriginState,
		OriginLat:              cfg.OriginLat,
		OriginLng:              cfg.OriginLng,
		MinDeliveryDays:        cfg.MinDeliveryDays,
		MaxDeliveryDays:        cfg.MaxDeliveryDays,
		UpdateStartHour:        cfg.UpdateStartHour,
		UpdateEndHour:          cfg.UpdateEndHour,
		CheckpointIntervalDays: cfg.CheckpointIntervalDays,
	}
	model.ID = cfg.ID

	result := r.db.WithContext(ctx).Save(&model)
	if result.Error != nil {
		return result.Error
	}
	cfg.ID = model.ID
	return nil
}
