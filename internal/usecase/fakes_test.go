package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"parceltrack-service/internal/domain/entity"
)

// In-memory repository fakes shared by the service and executor tests.

type fakeDeliveryRepo struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*entity.Delivery
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{nextID: 1, items: make(map[uint]*entity.Delivery)}
}

func (r *fakeDeliveryRepo) Create(_ context.Context, d *entity.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = r.nextID
	r.nextID++
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

func (r *fakeDeliveryRepo) FindByID(_ context.Context, id uint) (*entity.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDeliveryRepo) FindByTrackingCode(_ context.Context, code string) (*entity.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.TrackingCode == code {
			cp := *d
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (r *fakeDeliveryRepo) List(_ context.Context, limit, offset int) ([]*entity.Delivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	out := make([]*entity.Delivery, 0, limit)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		cp := *r.items[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDeliveryRepo) Update(_ context.Context, d *entity.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return entity.ErrNotFound
	}
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []*entity.DeliveryHistory
}

func (r *fakeHistoryRepo) Append(_ context.Context, e *entity.DeliveryHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	cp.ID = uint(len(r.entries) + 1)
	r.entries = append(r.entries, &cp)
	return nil
}

func (r *fakeHistoryRepo) ListByDelivery(_ context.Context, deliveryID uint) ([]*entity.DeliveryHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.DeliveryHistory
	for _, e := range r.entries {
		if e.DeliveryID == deliveryID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	nextID uint
	events []*entity.ScheduledEvent
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{nextID: 1}
}

func (r *fakeEventRepo) ReplaceUnexecuted(_ context.Context, deliveryID uint, drafts []entity.ScheduledEventDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.events[:0]
	for _, ev := range r.events {
		if ev.DeliveryID != deliveryID || ev.Executed {
			kept = append(kept, ev)
		}
	}
	r.events = kept
	for _, d := range drafts {
		r.events = append(r.events, &entity.ScheduledEvent{
			ID:           r.nextID,
			DeliveryID:   d.DeliveryID,
			ScheduledFor: d.ScheduledFor,
			EventType:    d.EventType,
			NewStatus:    d.NewStatus,
			Location:     d.Location,
			City:         d.City,
			State:        d.State,
			Lat:          d.Lat,
			Lng:          d.Lng,
			Description:  d.Description,
		})
		r.nextID++
	}
	return nil
}

func (r *fakeEventRepo) DeleteUnexecuted(_ context.Context, deliveryID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.events[:0]
	for _, ev := range r.events {
		if ev.DeliveryID != deliveryID || ev.Executed {
			kept = append(kept, ev)
		}
	}
	r.events = kept
	return nil
}

func (r *fakeEventRepo) ListUnexecuted(_ context.Context, deliveryID uint) ([]*entity.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ScheduledEvent
	for _, ev := range r.events {
		if ev.DeliveryID == deliveryID && !ev.Executed {
			cp := *ev
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	return out, nil
}

func (r *fakeEventRepo) FindDue(_ context.Context, now time.Time, limit int) ([]*entity.ScheduledEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.ScheduledEvent
	for _, ev := range r.events {
		if !ev.Executed && !ev.ScheduledFor.After(now) {
			cp := *ev
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeEventRepo) MarkExecuted(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.ID == id {
			ev.Executed = true
			return nil
		}
	}
	return entity.ErrNotFound
}

type fakeConfigRepo struct {
	cfg entity.SimulationConfig
	err error
}

func (r *fakeConfigRepo) Get(_ context.Context) (entity.SimulationConfig, error) {
	return r.cfg, r.err
}

func (r *fakeConfigRepo) Save(_ context.Context, cfg *entity.SimulationConfig) error {
	r.cfg = *cfg
	return nil
}

type fakeWhatsappRepo struct {
	mu   sync.Mutex
	sent []*entity.Notification
}

func (r *fakeWhatsappRepo) SendNotification(_ context.Context, n *entity.Notification) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *n
	r.sent = append(r.sent, &cp)
	return "task-1", nil
}

func (r *fakeWhatsappRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}
