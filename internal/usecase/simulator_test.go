package usecase

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"parceltrack-service/internal/domain/entity"
)

func testConfig() entity.SimulationConfig {
	return entity.SimulationConfig{
		OriginCity:             "São Paulo",
		OriginState:            "SP",
		OriginLat:              -23.5505,
		OriginLng:              -46.6333,
		MinDeliveryDays:        15,
		MaxDeliveryDays:        19,
		UpdateStartHour:        8,
		UpdateEndHour:          18,
		CheckpointIntervalDays: 2,
	}
}

func TestEstimateDeliveryDateBounds(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))

		est, err := EstimateDeliveryDate(cfg, "Rio de Janeiro", "RJ", now, rng)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}

		earliest := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
		latest := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
		if est.Before(earliest) || est.After(latest) {
			t.Fatalf("seed %d: estimate %v outside [%v, %v]", seed, est, earliest, latest)
		}
		if est.Hour() != 0 || est.Minute() != 0 {
			t.Fatalf("seed %d: estimate %v carries a time-of-day component", seed, est)
		}
	}
}

func TestEstimateDeliveryDateSameStateBias(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// Same-state picks never exceed min + span/2 transit days.
	cutoff := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		est, err := EstimateDeliveryDate(cfg, "Campinas", "SP", now, rng)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if est.After(cutoff) {
			t.Fatalf("seed %d: same-state estimate %v beyond %v", seed, est, cutoff)
		}
	}
}

func TestEstimateDeliveryDateMissingDestination(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	est, err := EstimateDeliveryDate(cfg, "", "", now, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Midpoint of [15, 19] is 17 days.
	want := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)
	if !est.Equal(want) {
		t.Fatalf("estimate = %v, want midpoint fallback %v", est, want)
	}
}

func TestEstimateDeliveryDateInvalidRange(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name     string
		min, max int
	}{
		{"min greater than max", 10, 5},
		{"min below one", 0, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MinDeliveryDays = tc.min
			cfg.MaxDeliveryDays = tc.max

			if _, err := EstimateDeliveryDate(cfg, "Rio de Janeiro", "RJ", now, rng); !errors.Is(err, entity.ErrInvalidDayRange) {
				t.Fatalf("err = %v, want ErrInvalidDayRange", err)
			}
		})
	}
}

func TestGenerateDeliveryEventsTerminal(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, status := range []entity.Status{entity.StatusDelivered, entity.StatusFailed, entity.StatusReturned} {
		t.Run(string(status), func(t *testing.T) {
			d := &entity.Delivery{
				ID:               1,
				Status:           status,
				DestinationCity:  "Rio de Janeiro",
				DestinationState: "RJ",
			}

			drafts, err := GenerateDeliveryEvents(d, cfg, now, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(drafts) != 0 {
				t.Fatalf("expected empty plan for %s, got %d events", status, len(drafts))
			}
		})
	}
}

func TestGenerateDeliveryEventsMissingDestination(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	d := &entity.Delivery{ID: 1, Status: entity.StatusPending}
	drafts, err := GenerateDeliveryEvents(d, cfg, now, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("insufficient data must not fail: %v", err)
	}
	if len(drafts) != 0 {
		t.Fatalf("expected empty plan, got %d events", len(drafts))
	}
}

func TestGenerateDeliveryEventsInvalidRange(t *testing.T) {
	cfg := testConfig()
	cfg.MinDeliveryDays = 9
	cfg.MaxDeliveryDays = 3
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	d := &entity.Delivery{ID: 1, Status: entity.StatusPending, DestinationCity: "Rio de Janeiro", DestinationState: "RJ"}
	if _, err := GenerateDeliveryEvents(d, cfg, now, rand.New(rand.NewSource(1))); !errors.Is(err, entity.ErrInvalidDayRange) {
		t.Fatalf("err = %v, want ErrInvalidDayRange", err)
	}
}

// Mirrors the worked example: pending delivery created 2024-01-01T10:00 in
// São Paulo/SP heading to Rio de Janeiro/RJ, 15-19 day range, 08-18 window.
func TestGenerateDeliveryEventsScenario(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	due := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)

	d := &entity.Delivery{
		ID:                7,
		Status:            entity.StatusPending,
		OriginCity:        "São Paulo",
		OriginState:       "SP",
		DestinationCity:   "Rio de Janeiro",
		DestinationState:  "RJ",
		DestinationLat:    -22.9068,
		DestinationLng:    -43.1729,
		EstimatedDelivery: due,
	}

	for seed := int64(0); seed < 50; seed++ {
		drafts, err := GenerateDeliveryEvents(d, cfg, now, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		if len(drafts) < 4 {
			t.Fatalf("seed %d: expected at least 4 events, got %d", seed, len(drafts))
		}

		first := drafts[0]
		if first.NewStatus != entity.StatusCollected {
			t.Fatalf("seed %d: first status = %s, want collected", seed, first.NewStatus)
		}
		if !sameDay(first.ScheduledFor, now) {
			t.Fatalf("seed %d: collection %v not on the creation day", seed, first.ScheduledFor)
		}
		if first.City != "São Paulo" || first.State != "SP" {
			t.Fatalf("seed %d: collection location = %s/%s, want origin", seed, first.City, first.State)
		}

		last := drafts[len(drafts)-1]
		if last.NewStatus != entity.StatusDelivered {
			t.Fatalf("seed %d: last status = %s, want delivered", seed, last.NewStatus)
		}
		if !sameDay(last.ScheduledFor, due) {
			t.Fatalf("seed %d: delivery %v not on the estimated date %v", seed, last.ScheduledFor, due)
		}
		if last.City != "Rio de Janeiro" || last.State != "RJ" {
			t.Fatalf("seed %d: delivery location = %s/%s, want destination", seed, last.City, last.State)
		}

		assertPlanInvariants(t, seed, drafts, d.Status, cfg)
	}
}

func TestGenerateDeliveryEventsUsesDeliveryOriginCoordinates(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	// Collected from a warehouse that is not the configured default origin.
	d := &entity.Delivery{
		ID:                4,
		Status:            entity.StatusPending,
		OriginCity:        "Campinas",
		OriginState:       "SP",
		OriginLat:         -22.9099,
		OriginLng:         -47.0626,
		DestinationCity:   "Rio de Janeiro",
		DestinationState:  "RJ",
		DestinationLat:    -22.9068,
		DestinationLng:    -43.1729,
		EstimatedDelivery: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
	}

	drafts, err := GenerateDeliveryEvents(d, cfg, now, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := drafts[0]
	if first.NewStatus != entity.StatusCollected {
		t.Fatalf("first status = %s, want collected", first.NewStatus)
	}
	if first.City != "Campinas" || first.State != "SP" {
		t.Fatalf("collection place = %s/%s, want the delivery's origin", first.City, first.State)
	}
	if first.Lat != d.OriginLat || first.Lng != d.OriginLng {
		t.Fatalf("collection coordinates = (%v, %v), want the delivery's origin (%v, %v)",
			first.Lat, first.Lng, d.OriginLat, d.OriginLng)
	}

	// Checkpoints interpolate from the same origin, so every transit
	// coordinate stays between the delivery's origin and its destination.
	lo, hi := d.OriginLat, d.DestinationLat
	if lo > hi {
		lo, hi = hi, lo
	}
	for i, ev := range drafts[1 : len(drafts)-2] {
		if ev.Lat < lo-1e-9 || ev.Lat > hi+1e-9 {
			t.Fatalf("checkpoint %d latitude %v outside [%v, %v]", i, ev.Lat, lo, hi)
		}
	}
}

func TestGenerateDeliveryEventsInTransitSkipsEarlierStages(t *testing.T) {
	cfg := testConfig()
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	d := &entity.Delivery{
		ID:                3,
		Status:            entity.StatusInTransit,
		DestinationCity:   "Rio de Janeiro",
		DestinationState:  "RJ",
		EstimatedDelivery: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
	}

	drafts, err := GenerateDeliveryEvents(d, cfg, now, rand.New(rand.NewSource(2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected out_for_delivery and delivered only, got %d events", len(drafts))
	}
	if drafts[0].NewStatus != entity.StatusOutForDelivery || drafts[1].NewStatus != entity.StatusDelivered {
		t.Fatalf("unexpected status walk: %s, %s", drafts[0].NewStatus, drafts[1].NewStatus)
	}
}

// Regenerating over many random configurations and deliveries must satisfy
// the ordering, window, and status-walk invariants every single time.
func TestGenerateDeliveryEventsInvariantsProperty(t *testing.T) {
	now := time.Date(2024, 3, 4, 11, 30, 0, 0, time.UTC)
	statuses := []entity.Status{
		entity.StatusPending, entity.StatusCollected,
		entity.StatusInTransit, entity.StatusOutForDelivery,
	}

	for seed := int64(0); seed < 300; seed++ {
		rng := rand.New(rand.NewSource(seed))

		minDays := 1 + rng.Intn(10)
		start := rng.Intn(22)
		cfg := entity.SimulationConfig{
			OriginCity:             "São Paulo",
			OriginState:            "SP",
			MinDeliveryDays:        minDays,
			MaxDeliveryDays:        minDays + rng.Intn(10),
			UpdateStartHour:        start,
			UpdateEndHour:          start + 1 + rng.Intn(24-start-1),
			CheckpointIntervalDays: 1 + rng.Intn(3),
		}

		d := &entity.Delivery{
			ID:               uint(seed + 1),
			Status:           statuses[rng.Intn(len(statuses))],
			DestinationCity:  "Recife",
			DestinationState: "PE",
		}
		if rng.Intn(2) == 0 {
			// Stale promise: regeneration must clamp it forward.
			d.EstimatedDelivery = now.AddDate(0, 0, rng.Intn(6)-3)
		}

		// Regenerate twice; invariants hold on every run even though the
		// exact timestamps differ.
		for run := 0; run < 2; run++ {
			drafts, err := GenerateDeliveryEvents(d, cfg, now, rng)
			if err != nil {
				t.Fatalf("seed %d run %d: unexpected error: %v", seed, run, err)
			}
			if len(drafts) == 0 {
				t.Fatalf("seed %d run %d: expected a non-empty plan", seed, run)
			}
			assertPlanInvariants(t, seed, drafts, d.Status, cfg)
		}
	}
}

func assertPlanInvariants(t *testing.T, seed int64, drafts []entity.ScheduledEventDraft, current entity.Status, cfg entity.SimulationConfig) {
	t.Helper()

	startHour, endHour := cfg.WindowHours()
	prevRank, _ := current.Rank()

	for i, ev := range drafts {
		if i > 0 && !ev.ScheduledFor.After(drafts[i-1].ScheduledFor) {
			t.Fatalf("seed %d: event %d at %v not after %v", seed, i, ev.ScheduledFor, drafts[i-1].ScheduledFor)
		}

		h := ev.ScheduledFor.Hour()
		if h < startHour || h >= endHour {
			t.Fatalf("seed %d: event %d at %v outside window [%02d, %02d)", seed, i, ev.ScheduledFor, startHour, endHour)
		}

		rank, ok := ev.NewStatus.Rank()
		if !ok {
			t.Fatalf("seed %d: event %d has off-chain status %s", seed, i, ev.NewStatus)
		}
		if rank < prevRank {
			t.Fatalf("seed %d: event %d walks backward from rank %d to %d", seed, i, prevRank, rank)
		}
		prevRank = rank
	}

	if last := drafts[len(drafts)-1]; last.NewStatus != entity.StatusDelivered {
		t.Fatalf("seed %d: plan ends at %s, want delivered", seed, last.NewStatus)
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
