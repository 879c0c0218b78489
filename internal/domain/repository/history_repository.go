package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// HistoryRepository defines the interface for the append-only audit log
type HistoryRepository interface {
	Append(ctx context.Context, entry *entity.DeliveryHistory) error
	ListByDelivery(ctx context.Context, deliveryID uint) ([]*entity.DeliveryHistory, error)
}
