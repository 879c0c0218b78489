package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/pkg/logger"
)

// WhatsappRepository sends notifications to the WhatsApp gateway service
type WhatsappRepository struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewWhatsappRepository creates a new WhatsApp repository
func NewWhatsappRepository(log logger.Logger, baseURL, bearerToken string) repository.WhatsappRepository {
	return &WhatsappRepository{
		logger:      log,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     struct {
		Text string `json:"text"`
	} `json:"message"`
	ScheduleAt string `json:"scheduleAt"`
	Type       string `json:"type"`
}

// SendNotification sends a notification to the WhatsApp gateway and returns
// the gateway task id
func (r *WhatsappRepository) SendNotification(ctx context.Context, notification *entity.Notification) (string, error) {
	var msg sendMessageRequest
	msg.PhoneNumber = notification.Phone
	msg.Message.Text = notification.Text
	msg.ScheduleAt = notification.ScheduleAt.UTC().Format(time.RFC3339)
	msg.Type = "text"

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/notifications/send-message", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("WhatsApp service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			TaskID string `json:"taskId"`
			Status string `json:"status"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	r.logger.Info("Notification dispatched",
		"taskId", response.Data.TaskID,
		"trackingCode", notification.TrackingCode,
		"status", string(notification.Status))

	return response.Data.TaskID, nil
}
