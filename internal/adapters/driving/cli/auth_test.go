package cli

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

func sampleHealth() *domain.HealthReport {
	return &domain.HealthReport{
		Authenticated:  true,
		TokenExpiresAt: testTime.Add(55 * time.Minute),
		RequestCount:   3,
		ReadOnly:       true,
		BaseURL:        "https://example.justgo.com",
		APIVersion:     "v2.1",
	}
}

func TestAuthCheck_Success(t *testing.T) {
	env := withServices(t)
	env.health.report = sampleHealth()

	out, err := runCLI(t, "auth", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "https://example.justgo.com")
	assert.Contains(t, out, "read-only")
	assert.Contains(t, out, "Authenticated")
}

func TestAuthCheck_Failure(t *testing.T) {
	env := withServices(t)
	report := sampleHealth()
	report.Authenticated = false
	report.TokenExpiresAt = testTime.Add(-1)
	env.health.report = report
	env.health.err = errors.New("justgo: authentication failed: No API secret provided")

	out, err := runCLI(t, "auth", "check")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "No API secret provided")
	assert.Contains(t, out, "Authentication failed")
}

func TestAuthCheck_JSON(t *testing.T) {
	env := withServices(t)
	env.health.report = sampleHealth()

	out, err := runCLI(t, "auth", "check", "--json")

	require.NoError(t, err)
	var got domain.HealthReport
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Authenticated)
	assert.Equal(t, int64(3), got.RequestCount)
}
