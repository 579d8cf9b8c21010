package services

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/voltpanel/voltpanel-be/internal/models"
)

// DefaultTransactionType tags ledger entries written by admin
// adjustments when the caller does not supply a type.
const DefaultTransactionType = "admin_adjustment"

// AdminServiceProvider defines the interface for admin panel services.
type AdminServiceProvider interface {
	GetStatistics() (models.Statistics, error)
	GetAllUsers() ([]models.User, error)
	UpdateEnergy(userID string, amount int, transactionType string) (int, error)
	ToggleInfiniteEnergy(userID string) (bool, error)
}

// AdminService provides statistics and energy management for admins.
// Callers must have been authorized beforehand; the service itself
// performs no token checks.
type AdminService struct {
	db *sql.DB
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *sql.DB) *AdminService {
	return &AdminService{db: db}
}

// GetStatistics returns dashboard totals. Energy sums and averages
// cover only users without infinite energy.
func (s *AdminService) GetStatistics() (models.Statistics, error) {
	var stats models.Statistics

	if err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers); err != nil {
		return models.Statistics{}, err
	}

	err := s.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE expires_at > ?", time.Now().UTC()).
		Scan(&stats.ActiveSessions)
	if err != nil {
		return models.Statistics{}, err
	}

	var finiteUsers int
	err = s.db.QueryRow("SELECT COALESCE(SUM(energy), 0), COUNT(*) FROM users WHERE is_infinite_energy = 0").
		Scan(&stats.TotalEnergy, &finiteUsers)
	if err != nil {
		return models.Statistics{}, err
	}
	if finiteUsers > 0 {
		avg := float64(stats.TotalEnergy) / float64(finiteUsers)
		stats.AvgEnergy = math.Round(avg*100) / 100
	}

	rows, err := s.db.Query(
		"SELECT transaction_type, COUNT(*), COALESCE(SUM(amount), 0) FROM energy_transactions GROUP BY transaction_type",
	)
	if err != nil {
		return models.Statistics{}, err
	}
	defer rows.Close()

	stats.Transactions = []models.TransactionSummary{}
	for rows.Next() {
		var t models.TransactionSummary
		if err := rows.Scan(&t.Type, &t.Count, &t.Total); err != nil {
			return models.Statistics{}, err
		}
		stats.Transactions = append(stats.Transactions, t)
	}
	return stats, rows.Err()
}

// GetAllUsers returns every user, newest first.
func (s *AdminService) GetAllUsers() ([]models.User, error) {
	rows, err := s.db.Query(
		`SELECT id, email, username, energy, is_infinite_energy, is_admin, created_at, last_login
		 FROM users ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		var lastLogin sql.NullTime
		err := rows.Scan(&user.ID, &user.Email, &user.Username, &user.Energy,
			&user.IsInfiniteEnergy, &user.IsAdmin, &user.CreatedAt, &lastLogin)
		if err != nil {
			return nil, err
		}
		if lastLogin.Valid {
			t := lastLogin.Time
			user.LastLogin = &t
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UpdateEnergy applies a signed adjustment to a user's balance and
// appends a ledger entry. The balance is clamped at zero. Both writes
// commit together or not at all.
func (s *AdminService) UpdateEnergy(userID string, amount int, transactionType string) (int, error) {
	if userID == "" {
		return 0, Validation("User ID and amount are required")
	}
	if transactionType == "" {
		transactionType = DefaultTransactionType
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var energy int
	var infinite bool
	err = tx.QueryRow("SELECT energy, is_infinite_energy FROM users WHERE id = ?", userID).Scan(&energy, &infinite)
	if err == sql.ErrNoRows {
		return 0, NotFound("User not found")
	}
	if err != nil {
		return 0, err
	}
	if infinite {
		return 0, Conflict("User has infinite energy")
	}

	newEnergy := max(0, energy+amount)
	if _, err := tx.Exec("UPDATE users SET energy = ? WHERE id = ?", newEnergy, userID); err != nil {
		return 0, err
	}

	entry := models.EnergyTransaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		Amount:      amount,
		Type:        transactionType,
		Description: fmt.Sprintf("Admin adjustment: %d", amount),
		CreatedAt:   time.Now().UTC(),
	}
	_, err = tx.Exec(
		"INSERT INTO energy_transactions (id, user_id, amount, transaction_type, description, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		entry.ID, entry.UserID, entry.Amount, entry.Type, entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return newEnergy, nil
}

// ToggleInfiniteEnergy flips the infinite-energy flag. The toggle is
// not written to the ledger; existing clients rely on the ledger
// holding balance adjustments only.
func (s *AdminService) ToggleInfiniteEnergy(userID string) (bool, error) {
	if userID == "" {
		return false, Validation("User ID is required")
	}

	var infinite bool
	err := s.db.QueryRow("SELECT is_infinite_energy FROM users WHERE id = ?", userID).Scan(&infinite)
	if err == sql.ErrNoRows {
		return false, NotFound("User not found")
	}
	if err != nil {
		return false, err
	}

	if _, err := s.db.Exec("UPDATE users SET is_infinite_energy = ? WHERE id = ?", !infinite, userID); err != nil {
		return false, err
	}
	return !infinite, nil
}
