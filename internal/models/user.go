package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the binary permission level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Elevated reports whether the role bypasses authorship and window checks.
func (r Role) Elevated() bool {
	return r == RoleAdmin
}

// User represents a registered platform user.
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Password    string    `json:"-"` // bcrypt hash
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserPublic is the user projection safe to return to clients and to stamp
// onto notifications.
type UserPublic struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	AvatarURL   string    `json:"avatar_url"`
}

// ToPublic strips credentials and contact data.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		AvatarURL:   u.AvatarURL,
	}
}
