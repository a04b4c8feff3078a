package domain

import "time"

// Role is the authorization level of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the recognised roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

const (
	MaxNameLength     = 100
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// User models an account holder. PasswordHash never leaves the service layer.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	ConsentGiven bool
	ConsentAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SetConsent toggles consent, stamping or clearing ConsentAt.
func (u *User) SetConsent(granted bool, now time.Time) {
	u.ConsentGiven = granted
	if granted {
		at := now
		u.ConsentAt = &at
		return
	}
	u.ConsentAt = nil
}

// UserView is the public projection of a User.
type UserView struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	ConsentGiven bool       `json:"consent_given"`
	ConsentAt    *time.Time `json:"consent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// View returns the public projection of u.
func (u *User) View() UserView {
	return UserView{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		ConsentGiven: u.ConsentGiven,
		ConsentAt:    u.ConsentAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
