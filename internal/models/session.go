package models

import "time"

// Session is an opaque bearer token bound to one user. Sessions are
// never deleted; logging out shortens the expiry to the current time.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}
