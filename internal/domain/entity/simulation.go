package entity

// SimulationConfig is the tenant-wide configuration driving the event
// simulator. It is a read-only singleton from the simulator's point of view;
// DefaultSimulationConfig applies when no row exists in storage.
type SimulationConfig struct {
	ID                     uint
	OriginCity             string
	OriginState            string
	OriginLat              float64
	OriginLng              float64
	MinDeliveryDays        int
	MaxDeliveryDays        int
	UpdateStartHour        int
	UpdateEndHour          int
	CheckpointIntervalDays int
}

// DefaultSimulationConfig returns the documented fallback used when the
// configuration singleton is absent from storage.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		OriginCity:             "São Paulo",
		OriginState:            "SP",
		OriginLat:              -23.5505,
		OriginLng:              -46.6333,
		MinDeliveryDays:        3,
		MaxDeliveryDays:        7,
		UpdateStartHour:        8,
		UpdateEndHour:          18,
		CheckpointIntervalDays: 2,
	}
}

// Validate checks the invariant-breaking fields. Day-range violations are
// the only condition the simulator refuses to work with.
func (c SimulationConfig) Validate() error {
	if c.MinDeliveryDays < 1 || c.MinDeliveryDays > c.MaxDeliveryDays {
		return ErrInvalidDayRange
	}
	return nil
}

// WindowHours returns the business window, falling back to the default
// window when unset or inverted.
func (c SimulationConfig) WindowHours() (start, end int) {
	start, end = c.UpdateStartHour, c.UpdateEndHour
	if start < 0 || start > 23 || end <= start || end > 24 {
		d := DefaultSimulationConfig()
		return d.UpdateStartHour, d.UpdateEndHour
	}
	return start, end
}

// CheckpointInterval returns the configured checkpoint spacing in days,
// defaulting when unset.
func (c SimulationConfig) CheckpointInterval() int {
	if c.CheckpointIntervalDays < 1 {
		return DefaultSimulationConfig().CheckpointIntervalDays
	}
	return c.CheckpointIntervalDays
}
