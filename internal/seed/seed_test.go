package seed_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gridwell/snftrack/internal/auth"
	"github.com/gridwell/snftrack/internal/model"
	"github.com/gridwell/snftrack/internal/seed"
	"github.com/gridwell/snftrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureDefaultUsers_CreatesBothAccounts(t *testing.T) {
	repo := store.NewMemoryStore()

	err := seed.EnsureDefaultUsers(repo, seed.Options{
		AdminUsername:  "admin",
		AdminPassword:  "admin-pass",
		ClientUsername: "facility",
		ClientPassword: "client-pass",
	}, discardLogger())
	require.NoError(t, err)

	admin, err := repo.GetUserByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.True(t, auth.VerifyPassword("admin-pass", admin.Password))

	client, err := repo.GetUserByUsername("facility")
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, client.Role)
	assert.True(t, auth.VerifyPassword("client-pass", client.Password))
}

func TestEnsureDefaultUsers_Idempotent(t *testing.T) {
	repo := store.NewMemoryStore()
	opts := seed.Options{
		AdminUsername:  "admin",
		AdminPassword:  "admin-pass",
		ClientUsername: "facility",
		ClientPassword: "client-pass",
	}

	require.NoError(t, seed.EnsureDefaultUsers(repo, opts, discardLogger()))
	require.NoError(t, seed.EnsureDefaultUsers(repo, opts, discardLogger()))

	users, err := repo.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestEnsureDefaultUsers_GeneratesPasswordWhenEmpty(t *testing.T) {
	repo := store.NewMemoryStore()

	err := seed.EnsureDefaultUsers(repo, seed.Options{
		AdminUsername:  "admin",
		ClientUsername: "facility",
	}, discardLogger())
	require.NoError(t, err)

	admin, err := repo.GetUserByUsername("admin")
	require.NoError(t, err)
	assert.NotEmpty(t, admin.Password)
	// The stored value is a hash, never a plain password.
	assert.Contains(t, admin.Password, ".")
}

func TestEnsureDefaultUsers_EmptyUsername(t *testing.T) {
	repo := store.NewMemoryStore()
	err := seed.EnsureDefaultUsers(repo, seed.Options{ClientUsername: "facility"}, discardLogger())
	require.Error(t, err)
}
