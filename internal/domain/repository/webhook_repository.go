package repository

import (
	"context"
	"time"

	"parceltrack-service/internal/domain/entity"
)

// WebhookRepository defines the interface for the raw webhook payload
// archive.
//
// Claim atomically moves a claimable archive (pending, failed, or never
// marked) into PROCESSING and reports whether this caller won the claim.
// Exactly one of several overlapping workers can win; the losers must not
// process the archive.
type WebhookRepository interface {
	Save(ctx context.Context, order *entity.WebhookOrder) error
	FindByEventID(ctx context.Context, eventID string) (*entity.WebhookOrder, error)
	FindUnprocessed(ctx context.Context, limit int) ([]*entity.WebhookOrder, error)
	Claim(ctx context.Context, eventID string) (bool, error)
	ResetStale(ctx context.Context, olderThan time.Time) error
	HasCompletedOrder(ctx context.Context, orderID string) (bool, error)
	MarkProcessed(ctx context.Context, eventID, status, errorDetail, trackingCode string) error
}
