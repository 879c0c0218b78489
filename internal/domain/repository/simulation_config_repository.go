package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// SimulationConfigRepository loads the simulation configuration singleton.
// Get never fails on a missing row; it returns the documented defaults.
type SimulationConfigRepository interface {
	Get(ctx context.Context) (entity.SimulationConfig, error)
	Save(ctx context.Context, cfg *entity.SimulationConfig) error
}
