package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestUniqueConstraints(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, Migrate(db))

	insert := "INSERT INTO users (id, email, username, password_hash) VALUES (?, ?, ?, ?)"
	_, err = db.Exec(insert, "u1", "a@x.com", "alice", "hash")
	require.NoError(t, err)

	_, err = db.Exec(insert, "u2", "a@x.com", "bob", "hash")
	assert.ErrorContains(t, err, "UNIQUE constraint failed")

	_, err = db.Exec(insert, "u3", "b@x.com", "alice", "hash")
	assert.ErrorContains(t, err, "UNIQUE constraint failed")
}
