package dto

import (
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
)

// CreateNewsRequest is the payload for POST /news.
type CreateNewsRequest struct {
	Title    string  `json:"title" binding:"required"`
	Content  string  `json:"content" binding:"required"`
	ImageURL *string `json:"imageURL"`
}

// UpdateNewsRequest is the payload for PUT /news/{id}.
type UpdateNewsRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"imageURL"`
}

// ToUpdate converts the request into the domain partial-update struct.
func (r UpdateNewsRequest) ToUpdate() domain.NewsUpdate {
	return domain.NewsUpdate{
		Title:    r.Title,
		Content:  r.Content,
		ImageURL: r.ImageURL,
	}
}

// NewsResponse is the wire form of a news item.
type NewsResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageURL,omitempty"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToNewsResponse converts a domain.News.
func ToNewsResponse(n *domain.News) NewsResponse {
	return NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		ImageURL:  n.ImageURL,
		CreatedBy: n.CreatedBy,
		CreatedAt: n.CreatedAt,
	}
}

// ToNewsResponses converts a slice of news items.
func ToNewsResponses(ns []domain.News) []NewsResponse {
	responses := make([]NewsResponse, len(ns))
	for i := range ns {
		responses[i] = ToNewsResponse(&ns[i])
	}
	return responses
}
