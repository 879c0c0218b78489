package usecase

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"parceltrack-service/internal/domain/entity"
)

// Brazilian state -> macro region, used as a coarse distance heuristic:
// same-state destinations bias transit time toward the minimum, cross-region
// destinations toward the maximum. No real routing is involved.
var stateRegion = map[string]string{
	"AC": "north", "AP": "north", "AM": "north", "PA": "north",
	"RO": "north", "RR": "north", "TO": "north",
	"AL": "northeast", "BA": "northeast", "CE": "northeast",
	"MA": "northeast", "PB": "northeast", "PE": "northeast",
	"PI": "northeast", "RN": "northeast", "SE": "northeast",
	"DF": "central", "GO": "central", "MT": "central", "MS": "central",
	"ES": "southeast", "MG": "southeast", "RJ": "southeast", "SP": "southeast",
	"PR": "south", "RS": "south", "SC": "south",
}

// minEventGap is the smallest spacing between two consecutive scheduled
// events of the same delivery.
const minEventGap = 20 * time.Minute

// maxTransitCheckpoints caps the number of intermediate hub events
// regardless of transit length.
const maxTransitCheckpoints = 4

// EstimateDeliveryDate returns the promised delivery day for a destination.
//
// The transit-day count is drawn from [MinDeliveryDays, MaxDeliveryDays],
// biased by the state/region heuristic above. Days are calendar days, so a
// promise may land on a weekend. The returned time is truncated to midnight
// in now's location.
//
// Missing destination fields fall back to the midpoint of the allowed range.
// The only error condition is an invalid day range in the configuration.
func EstimateDeliveryDate(cfg entity.SimulationConfig, destCity, destState string, now time.Time, rng *rand.Rand) (time.Time, error) {
	if err := cfg.Validate(); err != nil {
		return time.Time{}, err
	}

	span := cfg.MaxDeliveryDays - cfg.MinDeliveryDays
	days := cfg.MinDeliveryDays + span/2

	destCity = strings.TrimSpace(destCity)
	destState = strings.ToUpper(strings.TrimSpace(destState))
	originState := strings.ToUpper(strings.TrimSpace(cfg.OriginState))

	if destCity != "" || destState != "" {
		switch {
		case destState != "" && destState == originState:
			days = cfg.MinDeliveryDays + rng.Intn(span/2+1)
		case regionOf(destState) != "" && regionOf(originState) != "" && regionOf(destState) != regionOf(originState):
			days = cfg.MaxDeliveryDays - rng.Intn(span/2+1)
		default:
			days = cfg.MinDeliveryDays + rng.Intn(span+1)
		}
	}

	return startOfDay(now).AddDate(0, 0, days), nil
}

// GenerateDeliveryEvents synthesizes the ordered future event plan that
// carries a delivery from its current status through delivered.
//
// The function is pure: it performs no I/O and leaves deletion of the
// previous unexecuted plan to the caller. Terminal deliveries and deliveries
// without destination data yield an empty plan with no error; only an
// invalid day range fails.
//
// Invariants on the returned sequence: ScheduledFor is strictly increasing,
// every timestamp falls inside the [UpdateStartHour, UpdateEndHour) window
// of its day, and the NewStatus walk is non-decreasing along the active
// chain.
func GenerateDeliveryEvents(d *entity.Delivery, cfg entity.SimulationConfig, now time.Time, rng *rand.Rand) ([]entity.ScheduledEventDraft, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.Status.IsTerminal() || !d.HasDestination() {
		return nil, nil
	}

	stages := entity.StagesAfter(d.Status)
	if len(stages) == 0 {
		return nil, nil
	}

	due := startOfDay(d.EstimatedDelivery)
	if d.EstimatedDelivery.IsZero() {
		est, err := EstimateDeliveryDate(cfg, d.DestinationCity, d.DestinationState, now, rng)
		if err != nil {
			return nil, err
		}
		due = est
	}
	// Regeneration may run after the original promise has passed.
	if !due.After(startOfDay(now)) {
		due = startOfDay(now).AddDate(0, 0, 1)
	}

	startHour, endHour := cfg.WindowHours()
	totalDays := int(due.Sub(startOfDay(now)).Hours() / 24)
	if totalDays < 1 {
		totalDays = 1
	}

	originCity, originState := d.OriginCity, d.OriginState
	if originCity == "" {
		originCity, originState = cfg.OriginCity, cfg.OriginState
	}
	originLat, originLng := d.OriginLat, d.OriginLng
	if originLat == 0 && originLng == 0 {
		originLat, originLng = cfg.OriginLat, cfg.OriginLng
	}

	cursor := now
	drafts := make([]entity.ScheduledEventDraft, 0, len(stages)+maxTransitCheckpoints)

	// emit snaps the target forward into the business window while the
	// cursor only ever moves ahead, which makes strict ordering structural.
	emit := func(target time.Time, eventType string, status entity.Status, location, city, state string, lat, lng float64, desc string) {
		if floor := cursor.Add(minEventGap); target.Before(floor) {
			target = floor
		}
		target = snapIntoWindow(target, startHour, endHour, rng)
		cursor = target
		drafts = append(drafts, entity.ScheduledEventDraft{
			DeliveryID:   d.ID,
			ScheduledFor: target,
			EventType:    eventType,
			NewStatus:    status,
			Location:     location,
			City:         city,
			State:        state,
			Lat:          lat,
			Lng:          lng,
			Description:  desc,
		})
	}

	for _, stage := range stages {
		switch stage {
		case entity.StatusCollected:
			target := now.Add(time.Duration(60+rng.Intn(120)) * time.Minute)
			emit(target, entity.EventStatusChange, entity.StatusCollected,
				placeLabel(originCity, originState), originCity, originState,
				originLat, originLng, "Package collected at origin facility")

		case entity.StatusInTransit:
			n := totalDays / cfg.CheckpointInterval()
			if n < 1 {
				n = 1
			}
			if n > maxTransitCheckpoints {
				n = maxTransitCheckpoints
			}
			transitSpan := due.Sub(now)
			for i := 0; i < n; i++ {
				frac := float64(i+1) / float64(n+1)
				target := now.Add(time.Duration(float64(transitSpan) * frac))
				lat, lng := interpolate(originLat, originLng, d.DestinationLat, d.DestinationLng, frac)
				if i == 0 {
					emit(target, entity.EventStatusChange, entity.StatusInTransit,
						fmt.Sprintf("Distribution Center %d", i+1), "", "", lat, lng,
						"Package in transit to destination")
					continue
				}
				emit(target, entity.EventLocationUpdate, entity.StatusInTransit,
					fmt.Sprintf("Distribution Center %d", i+1), "", "", lat, lng,
					fmt.Sprintf("Package arrived at distribution center %d", i+1))
			}

		case entity.StatusOutForDelivery:
			target := due.Add(time.Duration(startHour)*time.Hour + time.Duration(rng.Intn(90))*time.Minute)
			emit(target, entity.EventStatusChange, entity.StatusOutForDelivery,
				placeLabel(d.DestinationCity, d.DestinationState), d.DestinationCity, d.DestinationState,
				d.DestinationLat, d.DestinationLng, "Package out for delivery")

		case entity.StatusDelivered:
			target := cursor.Add(time.Duration(90+rng.Intn(120)) * time.Minute)
			emit(target, entity.EventStatusChange, entity.StatusDelivered,
				placeLabel(d.DestinationCity, d.DestinationState), d.DestinationCity, d.DestinationState,
				d.DestinationLat, d.DestinationLng, "Package delivered to recipient")
		}
	}

	return drafts, nil
}

// snapIntoWindow moves t forward to the nearest instant inside the
// [startHour, endHour) window of its day, never backward. Timestamps landing
// before the window open on the window start of the same day; timestamps at
// or past the close move to the next day's opening with a small jitter.
func snapIntoWindow(t time.Time, startHour, endHour int, rng *rand.Rand) time.Time {
	dayStart := time.Date(t.Year(), t.Month(), t.Day(), startHour, 0, 0, 0, t.Location())
	if t.Before(dayStart) {
		return dayStart.Add(time.Duration(rng.Intn(45)) * time.Minute)
	}
	dayEnd := time.Date(t.Year(), t.Month(), t.Day(), endHour, 0, 0, 0, t.Location())
	if t.Before(dayEnd) {
		return t
	}
	return dayStart.AddDate(0, 0, 1).Add(time.Duration(rng.Intn(45)) * time.Minute)
}

func regionOf(state string) string {
	return stateRegion[state]
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func placeLabel(city, state string) string {
	switch {
	case city != "" && state != "":
		return city + " - " + state
	case city != "":
		return city
	default:
		return state
	}
}

// interpolate walks coordinates linearly between origin and destination for
// synthetic hub positions. Zero coordinates on either side disable it.
func interpolate(fromLat, fromLng, toLat, toLng, frac float64) (float64, float64) {
	if (fromLat == 0 && fromLng == 0) || (toLat == 0 && toLng == 0) {
		return 0, 0
	}
	return fromLat + (toLat-fromLat)*frac, fromLng + (toLng-fromLng)*frac
}
