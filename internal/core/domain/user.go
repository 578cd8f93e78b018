package domain

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
)

// User represents a member of the organization.
type User struct {
	UserID       string  `json:"userID"` // UUID
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role"`
	Phone        string  `json:"phone"`
	Position     string  `json:"position"`
	PhotoURL     *string `json:"photoURL,omitempty"`
	FCMToken     *string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // soft delete
}

// UserUpdate describes a partial update to a user profile.
// Only non-nil fields are applied.
type UserUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	Position *string
	PhotoURL *string
	Role     *Role
}
