// Package models defines server-side data models persisted in the database.
package models

import "time"

// Roles a profile can hold. Admins moderate content and manage the catalog.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	About        string    `json:"about,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	CountryID    *string   `json:"countryId,omitempty"`
	Points       int       `json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IsAdmin reports whether the user may moderate and manage the catalog.
func (u *User) IsAdmin() bool {
	return IsAdminRole(u.Role)
}

func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
