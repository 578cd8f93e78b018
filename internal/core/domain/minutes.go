package domain

import "time"

// Minutes is the written record of a meeting.
type Minutes struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	MeetingDate time.Time `json:"meetingDate"`
	DocumentURL *string   `json:"documentURL,omitempty"`
	AuditFields
}

// MinutesUpdate describes a partial update to meeting minutes.
type MinutesUpdate struct {
	Title       *string
	Content     *string
	MeetingDate *time.Time
	DocumentURL *string
}
