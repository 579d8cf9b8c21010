package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/voltpanel/voltpanel-be/internal/database"
)

// assertKind checks that err carries the expected classification.
func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, kind, svcErr.Kind)
}

type AuthServiceSuite struct {
	suite.Suite
	db  *sql.DB
	svc *AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	db, err := database.New(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	require.NoError(s.T(), database.Migrate(db))
	s.db = db
	s.svc = NewAuthService(db)
}

func (s *AuthServiceSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) userCount() int {
	var n int
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func (s *AuthServiceSuite) TestRegisterRequiresAllFields() {
	cases := []struct{ email, username, password string }{
		{"", "alice", "secret1"},
		{"a@x.com", "", "secret1"},
		{"a@x.com", "alice", ""},
		{"   ", "alice", "secret1"},
	}
	for _, c := range cases {
		_, _, err := s.svc.Register(c.email, c.username, c.password)
		assertKind(s.T(), err, KindValidation)
	}
	assert.Equal(s.T(), 0, s.userCount())
}

func (s *AuthServiceSuite) TestRegisterShortPasswordCreatesNoUser() {
	_, _, err := s.svc.Register("a@x.com", "alice", "abc")
	assertKind(s.T(), err, KindValidation)
	assert.Equal(s.T(), 0, s.userCount())
}

func (s *AuthServiceSuite) TestRegisterDuplicateEmail() {
	_, _, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)

	_, _, err = s.svc.Register("a@x.com", "bob", "secret2")
	assertKind(s.T(), err, KindConflict)

	// Email comparison is case-insensitive after normalization
	_, _, err = s.svc.Register("  A@X.COM ", "carol", "secret3")
	assertKind(s.T(), err, KindConflict)
	assert.Equal(s.T(), 1, s.userCount())
}

func (s *AuthServiceSuite) TestRegisterDuplicateUsername() {
	_, _, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)

	_, _, err = s.svc.Register("b@x.com", "alice", "secret2")
	assertKind(s.T(), err, KindConflict)
	assert.Equal(s.T(), 1, s.userCount())
}

func (s *AuthServiceSuite) TestRegisterCreatesUserAndActiveSession() {
	token, user, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), token)

	assert.Equal(s.T(), "a@x.com", user.Email)
	assert.Equal(s.T(), "alice", user.Username)
	assert.Equal(s.T(), 100, user.Energy)
	assert.False(s.T(), user.IsInfiniteEnergy)
	assert.False(s.T(), user.IsAdmin)

	// The returned token authenticates immediately
	verified, err := s.svc.Verify(token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, verified.ID)

	// Session expiry is 30 days out
	var expiresAt time.Time
	require.NoError(s.T(), s.db.QueryRow("SELECT expires_at FROM sessions WHERE token = ?", token).Scan(&expiresAt))
	assert.WithinDuration(s.T(), time.Now().Add(30*24*time.Hour), expiresAt, time.Minute)
}

func (s *AuthServiceSuite) TestLoginFailuresAreIndistinguishable() {
	_, _, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)

	_, _, wrongPassword := s.svc.Login("a@x.com", "nope123")
	_, _, unknownEmail := s.svc.Login("ghost@x.com", "secret1")

	assertKind(s.T(), wrongPassword, KindAuthentication)
	assertKind(s.T(), unknownEmail, KindAuthentication)
	assert.Equal(s.T(), wrongPassword.Error(), unknownEmail.Error())
}

func (s *AuthServiceSuite) TestLoginAllowsConcurrentSessions() {
	registerToken, user, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)

	loginToken, loginUser, err := s.svc.Login(" A@x.com ", "secret1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user.ID, loginUser.ID)
	assert.NotEqual(s.T(), registerToken, loginToken)

	// The earlier session is not invalidated
	_, err = s.svc.Verify(registerToken)
	assert.NoError(s.T(), err)
	_, err = s.svc.Verify(loginToken)
	assert.NoError(s.T(), err)

	// last_login is recorded
	var lastLogin sql.NullTime
	require.NoError(s.T(), s.db.QueryRow("SELECT last_login FROM users WHERE id = ?", user.ID).Scan(&lastLogin))
	assert.True(s.T(), lastLogin.Valid)
}

func (s *AuthServiceSuite) TestLoginRequiresFields() {
	_, _, err := s.svc.Login("", "secret1")
	assertKind(s.T(), err, KindValidation)
	_, _, err = s.svc.Login("a@x.com", "")
	assertKind(s.T(), err, KindValidation)
}

func (s *AuthServiceSuite) TestLogoutExpiresSession() {
	token, _, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.svc.Logout(token))

	_, err = s.svc.Verify(token)
	assertKind(s.T(), err, KindAuthentication)

	// The row is kept, only expired
	var n int
	require.NoError(s.T(), s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n))
	assert.Equal(s.T(), 1, n)
}

func (s *AuthServiceSuite) TestLogoutUnknownTokenSucceeds() {
	assert.NoError(s.T(), s.svc.Logout("no-such-token"))
}

func (s *AuthServiceSuite) TestLogoutEmptyToken() {
	assertKind(s.T(), s.svc.Logout(""), KindValidation)
}

func (s *AuthServiceSuite) TestVerifyRejectsEmptyAndUnknownTokens() {
	_, err := s.svc.Verify("")
	assertKind(s.T(), err, KindValidation)

	_, err = s.svc.Verify("no-such-token")
	assertKind(s.T(), err, KindAuthentication)
}

func (s *AuthServiceSuite) TestUpdatePassword() {
	token, _, err := s.svc.Register("a@x.com", "alice", "secret1")
	require.NoError(s.T(), err)

	// Wrong old password
	err = s.svc.UpdatePassword("a@x.com", "wrong99", "newsecret")
	assertKind(s.T(), err, KindAuthentication)

	// New password too short
	err = s.svc.UpdatePassword("a@x.com", "secret1", "abc")
	assertKind(s.T(), err, KindValidation)

	// Success
	require.NoError(s.T(), s.svc.UpdatePassword("a@x.com", "secret1", "newsecret"))

	_, _, err = s.svc.Login("a@x.com", "secret1")
	assertKind(s.T(), err, KindAuthentication)
	_, _, err = s.svc.Login("a@x.com", "newsecret")
	assert.NoError(s.T(), err)

	// Existing sessions survive a password change
	_, err = s.svc.Verify(token)
	assert.NoError(s.T(), err)
}
