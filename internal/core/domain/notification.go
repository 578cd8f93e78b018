package domain

import "time"

// Notification is a message delivered to exactly one user. It is always
// persisted to the inbox; live delivery over an open channel is best-effort.
type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"userID"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
