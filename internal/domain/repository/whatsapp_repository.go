package repository

import (
	"context"

	"parceltrack-service/internal/domain/entity"
)

// WhatsappRepository defines the interface for outbound WhatsApp dispatch
type WhatsappRepository interface {
	SendNotification(ctx context.Context, notification *entity.Notification) (string, error)
}
