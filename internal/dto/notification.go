package dto

import (
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
)

// CreateNotificationRequest is the payload for POST /notifications.
type CreateNotificationRequest struct {
	UserID  string `json:"userID" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// SaveFCMTokenRequest is the payload for POST /notifications/fcm-token.
type SaveFCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// NotificationResponse is the wire form of one notification.
type NotificationResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"userID"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToNotificationResponse converts a domain.Notification.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		UserID:    n.UserID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications.
func ToNotificationResponses(ns []domain.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(ns))
	for i := range ns {
		responses[i] = ToNotificationResponse(&ns[i])
	}
	return responses
}
