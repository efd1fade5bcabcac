package auth_test

import (
	"strings"
	"testing"

	"github.com/gridwell/snftrack/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.Contains(t, encoded, ".")

	assert.True(t, auth.VerifyPassword("correct horse battery staple", encoded))
	assert.False(t, auth.VerifyPassword("wrong password", encoded))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := auth.HashPassword("same password")
	require.NoError(t, err)
	b, err := auth.HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	assert.True(t, auth.VerifyPassword("same password", a))
	assert.True(t, auth.VerifyPassword("same password", b))
}

func TestVerifyPassword_MalformedStoredValue(t *testing.T) {
	// A corrupted stored hash must fail login, never panic or error.
	cases := []string{
		"",
		".",
		"no-separator",
		"nothex.deadbeef",
		"deadbeef.nothex",
		strings.Repeat("ab", 64), // valid hex but no salt part
	}
	for _, encoded := range cases {
		assert.False(t, auth.VerifyPassword("anything", encoded), "encoded=%q", encoded)
	}
}
