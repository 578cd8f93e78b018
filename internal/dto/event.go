package dto

import (
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
)

// CreateEventRequest is the payload for POST /events.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	ImageURL    *string   `json:"imageURL"`
}

// UpdateEventRequest is the payload for PUT /events/{id}.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	ImageURL    *string    `json:"imageURL"`
}

// ToUpdate converts the request into the domain partial-update struct.
func (r UpdateEventRequest) ToUpdate() domain.EventUpdate {
	return domain.EventUpdate{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		ImageURL:    r.ImageURL,
	}
}

// MarkAttendanceRequest is the payload for POST /events/{id}/attend.
type MarkAttendanceRequest struct {
	Status domain.AttendanceStatus `json:"status" binding:"required,oneof=Present Absent Excused"`
}

// EventResponse is the wire form of an event.
type EventResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	ImageURL    *string   `json:"imageURL,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToEventResponse converts a domain.Event.
func ToEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		ImageURL:    e.ImageURL,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// ToEventResponses converts a slice of events.
func ToEventResponses(es []domain.Event) []EventResponse {
	responses := make([]EventResponse, len(es))
	for i := range es {
		responses[i] = ToEventResponse(&es[i])
	}
	return responses
}
