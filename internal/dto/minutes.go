package dto

import (
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
)

// CreateMinutesRequest is the payload for POST /minutes.
type CreateMinutesRequest struct {
	Title       string    `json:"title" binding:"required"`
	Content     string    `json:"content" binding:"required"`
	MeetingDate time.Time `json:"meetingDate" binding:"required"`
	DocumentURL *string   `json:"documentURL"`
}

// UpdateMinutesRequest is the payload for PUT /minutes/{id}.
type UpdateMinutesRequest struct {
	Title       *string    `json:"title"`
	Content     *string    `json:"content"`
	MeetingDate *time.Time `json:"meetingDate"`
	DocumentURL *string    `json:"documentURL"`
}

// ToUpdate converts the request into the domain partial-update struct.
func (r UpdateMinutesRequest) ToUpdate() domain.MinutesUpdate {
	return domain.MinutesUpdate{
		Title:       r.Title,
		Content:     r.Content,
		MeetingDate: r.MeetingDate,
		DocumentURL: r.DocumentURL,
	}
}

// MinutesResponse is the wire form of meeting minutes.
type MinutesResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	MeetingDate time.Time `json:"meetingDate"`
	DocumentURL *string   `json:"documentURL,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToMinutesResponse converts a domain.Minutes.
func ToMinutesResponse(m *domain.Minutes) MinutesResponse {
	return MinutesResponse{
		ID:          m.ID,
		Title:       m.Title,
		Content:     m.Content,
		MeetingDate: m.MeetingDate,
		DocumentURL: m.DocumentURL,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// ToMinutesResponses converts a slice of minutes.
func ToMinutesResponses(ms []domain.Minutes) []MinutesResponse {
	responses := make([]MinutesResponse, len(ms))
	for i := range ms {
		responses[i] = ToMinutesResponse(&ms[i])
	}
	return responses
}
