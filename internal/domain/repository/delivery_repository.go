package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// DeliveryRepository defines the interface for delivery storage operations
type DeliveryRepository interface {
	Create(ctx context.Context, delivery *entity.Delivery) error
	FindByID(ctx context.Context, id uint) (*entity.Delivery, error)
	FindByTrackingCode(ctx context.Context, code string) (*entity.Delivery, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Delivery, error)
	Update(ctx context.Context, delivery *entity.Delivery) error
}
