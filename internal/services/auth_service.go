package services

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/voltpanel/voltpanel-be/internal/auth"
	"github.com/voltpanel/voltpanel-be/internal/models"
)

const (
	// sessionTTL is how long a fresh session stays valid. Sessions are
	// never extended, only shortened by logout.
	sessionTTL = 30 * 24 * time.Hour

	minPasswordLength = 6
	startingEnergy    = 100
)

// loginFailedMsg is deliberately the same for unknown emails and wrong
// passwords so the response does not leak which one was wrong.
const loginFailedMsg = "Invalid email or password"

// AuthServiceProvider defines the interface for authentication services.
type AuthServiceProvider interface {
	Register(email, username, password string) (string, models.PublicUser, error)
	Login(email, password string) (string, models.PublicUser, error)
	Logout(token string) error
	Verify(token string) (models.PublicUser, error)
	UpdatePassword(email, oldPassword, newPassword string) error
}

// AuthService provides registration, login and session verification.
type AuthService struct {
	db *sql.DB
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates a new user plus an initial session and returns the
// session token with the public view of the user.
func (s *AuthService) Register(email, username, password string) (string, models.PublicUser, error) {
	email = normalizeEmail(email)
	username = strings.TrimSpace(username)

	if email == "" || username == "" || password == "" {
		return "", models.PublicUser{}, Validation("Email, username and password are required")
	}
	if len(password) < minPasswordLength {
		return "", models.PublicUser{}, Validation("Password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", models.PublicUser{}, err
	}
	defer tx.Rollback()

	// One check covers both uniqueness rules; the UNIQUE constraints
	// below close the race between this check and the insert.
	var existingID string
	err = tx.QueryRow("SELECT id FROM users WHERE email = ? OR username = ?", email, username).Scan(&existingID)
	if err == nil {
		return "", models.PublicUser{}, Conflict("Email or username already exists")
	}
	if err != sql.ErrNoRows {
		return "", models.PublicUser{}, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Energy:       startingEnergy,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = tx.Exec(
		"INSERT INTO users (id, email, username, password_hash, energy, is_infinite_energy, is_admin, created_at) VALUES (?, ?, ?, ?, ?, 0, 0, ?)",
		user.ID, user.Email, user.Username, user.PasswordHash, user.Energy, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", models.PublicUser{}, Conflict("Email or username already exists")
		}
		return "", models.PublicUser{}, err
	}

	token, err := createSession(tx, user.ID)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	if err := tx.Commit(); err != nil {
		return "", models.PublicUser{}, err
	}
	return token, user.Public(), nil
}

// Login verifies credentials and opens a new session. Existing
// sessions stay valid; multiple concurrent sessions are allowed.
func (s *AuthService) Login(email, password string) (string, models.PublicUser, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return "", models.PublicUser{}, Validation("Email and password are required")
	}

	var user models.User
	row := s.db.QueryRow(
		"SELECT id, email, username, password_hash, energy, is_infinite_energy, is_admin FROM users WHERE email = ?",
		email,
	)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Energy, &user.IsInfiniteEnergy, &user.IsAdmin)
	if err == sql.ErrNoRows {
		return "", models.PublicUser{}, Authentication(loginFailedMsg)
	}
	if err != nil {
		return "", models.PublicUser{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", models.PublicUser{}, Authentication(loginFailedMsg)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", models.PublicUser{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE users SET last_login = ? WHERE id = ?", time.Now().UTC(), user.ID); err != nil {
		return "", models.PublicUser{}, err
	}

	token, err := createSession(tx, user.ID)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	if err := tx.Commit(); err != nil {
		return "", models.PublicUser{}, err
	}
	return token, user.Public(), nil
}

// Logout expires the session matching the token. Unknown tokens are
// accepted silently so repeated logouts stay idempotent.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return Validation("Token is required")
	}
	_, err := s.db.Exec("UPDATE sessions SET expires_at = ? WHERE token = ?", time.Now().UTC(), token)
	return err
}

// Verify resolves an active session token to its owner. Every
// authorization check in the system is built on this lookup.
func (s *AuthService) Verify(token string) (models.PublicUser, error) {
	if token == "" {
		return models.PublicUser{}, Validation("Token is required")
	}

	var user models.User
	row := s.db.QueryRow(
		`SELECT u.id, u.email, u.username, u.energy, u.is_infinite_energy, u.is_admin
		 FROM sessions s
		 JOIN users u ON s.user_id = u.id
		 WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().UTC(),
	)
	err := row.Scan(&user.ID, &user.Email, &user.Username, &user.Energy, &user.IsInfiniteEnergy, &user.IsAdmin)
	if err == sql.ErrNoRows {
		return models.PublicUser{}, Authentication("Invalid or expired token")
	}
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdatePassword overwrites the password hash after checking the old
// password. It does not require a session and leaves existing
// sessions valid.
func (s *AuthService) UpdatePassword(email, oldPassword, newPassword string) error {
	email = normalizeEmail(email)

	if email == "" || oldPassword == "" || newPassword == "" {
		return Validation("Email, old password and new password are required")
	}
	if len(newPassword) < minPasswordLength {
		return Validation("New password must be at least 6 characters")
	}

	var userID, hash string
	err := s.db.QueryRow("SELECT id, password_hash FROM users WHERE email = ?", email).Scan(&userID, &hash)
	if err == sql.ErrNoRows {
		return Authentication(loginFailedMsg)
	}
	if err != nil {
		return err
	}
	if !auth.CheckPassword(hash, oldPassword) {
		return Authentication(loginFailedMsg)
	}

	newHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.db.Exec("UPDATE users SET password_hash = ? WHERE id = ?", newHash, userID)
	return err
}

// createSession inserts a session row inside the caller's transaction.
func createSession(tx *sql.Tx, userID string) (string, error) {
	token, err := auth.NewToken()
	if err != nil {
		return "", err
	}

	session := models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}
	_, err = tx.Exec(
		"INSERT INTO sessions (id, user_id, token, expires_at) VALUES (?, ?, ?, ?)",
		session.ID, session.UserID, session.Token, session.ExpiresAt,
	)
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
