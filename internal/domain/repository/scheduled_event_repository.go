package repository

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/entity"
)

// ScheduledEventRepository defines the interface for scheduled event storage.
//
// ReplaceUnexecuted deletes a delivery's unexecuted events and inserts the
// new plan inside a single transaction, so concurrent regenerations of the
// same delivery never leave a mixed plan behind.
type ScheduledEventRepository interface {
	ReplaceUnexecuted(ctx context.Context, deliveryID uint, drafts []entity.ScheduledEventDraft) error
	DeleteUnexecuted(ctx context.Context, deliveryID uint) error
	ListUnexecuted(ctx context.Context, deliveryID uint) ([]*entity.ScheduledEvent, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.ScheduledEvent, error)
	MarkExecuted(ctx context.Context, id uint) error
}
