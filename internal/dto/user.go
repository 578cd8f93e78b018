package dto

import (
	"time"

	"github.com/orghub/orghub-backend/internal/core/domain"
)

// CreateUserRequest is the payload for member registration.
type CreateUserRequest struct {
	Name     string      `json:"name" binding:"required"`
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	Role     domain.Role `json:"role" binding:"omitempty,oneof=Admin Member"`
	Phone    string      `json:"phone"`
	Position string      `json:"position"`
}

// UpdateUserRequest is the payload for PUT /members/{id}.
// Only provided fields change.
type UpdateUserRequest struct {
	Name     *string      `json:"name"`
	Email    *string      `json:"email" binding:"omitempty,email"`
	Phone    *string      `json:"phone"`
	Position *string      `json:"position"`
	PhotoURL *string      `json:"photoURL"`
	Role     *domain.Role `json:"role" binding:"omitempty,oneof=Admin Member"`
}

// ToUpdate converts the request into the domain partial-update struct.
func (r UpdateUserRequest) ToUpdate() domain.UserUpdate {
	return domain.UserUpdate{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Position: r.Position,
		PhotoURL: r.PhotoURL,
		Role:     r.Role,
	}
}

// UserResponse is the wire form of a member profile.
type UserResponse struct {
	UserID    string      `json:"userID"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Phone     string      `json:"phone"`
	Position  string      `json:"position"`
	PhotoURL  *string     `json:"photoURL,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// ToUserResponse converts a domain.User, omitting credentials.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Position:  u.Position,
		PhotoURL:  u.PhotoURL,
		CreatedAt: u.CreatedAt,
	}
}

// ToUserResponses converts a slice of users.
func ToUserResponses(us []domain.User) []UserResponse {
	responses := make([]UserResponse, len(us))
	for i := range us {
		responses[i] = ToUserResponse(&us[i])
	}
	return responses
}
