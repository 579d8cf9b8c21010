package models

import "time"

// User represents a user account in the system.
type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Username         string     `json:"username"`
	PasswordHash     string     `json:"-"` // Never expose this to the client
	Energy           int        `json:"energy"`
	IsInfiniteEnergy bool       `json:"isInfiniteEnergy"`
	IsAdmin          bool       `json:"isAdmin"`
	CreatedAt        time.Time  `json:"createdAt"`
	LastLogin        *time.Time `json:"lastLogin"` // Nullable until the first login
}

// PublicUser is the view of a user returned by the auth endpoints.
type PublicUser struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Username         string `json:"username"`
	Energy           int    `json:"energy"`
	IsInfiniteEnergy bool   `json:"isInfiniteEnergy"`
	IsAdmin          bool   `json:"isAdmin"`
}

// Public returns the client-safe view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		Username:         u.Username,
		Energy:           u.Energy,
		IsInfiniteEnergy: u.IsInfiniteEnergy,
		IsAdmin:          u.IsAdmin,
	}
}
