package models

import "time"

// EnergyTransaction is one entry in the append-only energy ledger.
// The user's energy column is the source of truth for the current
// balance; this log exists for audit and statistics.
type EnergyTransaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Amount      int       `json:"amount"`
	Type        string    `json:"type"` // e.g. "admin_adjustment"
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
