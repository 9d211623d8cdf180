package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredential_Status(t *testing.T) {
	assert.True(t, Credential{Status: "Active"}.IsActive())
	assert.False(t, Credential{Status: "active"}.IsActive())
	assert.True(t, Credential{Status: "Expired"}.IsExpired())
	assert.False(t, Credential{Status: "Pending"}.IsExpired())
}

func TestParseDate(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		d, err := ParseDate("2025-03-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("timestamp truncated to date", func(t *testing.T) {
		d, err := ParseDate("2025-03-01T13:45:00")
		require.NoError(t, err)
		assert.Equal(t, 2025, d.Year())
		assert.Equal(t, 0, d.Hour())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDate("next tuesday")
		assert.Error(t, err)
	})
}

func TestAccessToken_Valid(t *testing.T) {
	now := time.Now()

	var nilToken *AccessToken
	assert.False(t, nilToken.Valid(now))
	assert.False(t, (&AccessToken{ExpiresAt: now.Add(time.Hour)}).Valid(now))
	assert.True(t, (&AccessToken{Token: "t", ExpiresAt: now.Add(time.Hour)}).Valid(now))
	assert.False(t, (&AccessToken{Token: "t", ExpiresAt: now.Add(-time.Second)}).Valid(now))
}
