package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot_BuildsServicesFromFactory(t *testing.T) {
	oldServices, oldFactory := services, factory
	defer func() { services, factory = oldServices, oldFactory }()
	services = nil

	closed := false
	var gotPath string
	SetFactory(func(_ context.Context, path string) (*Services, error) {
		gotPath = path
		return &Services{
			Health: &fakeHealth{report: sampleHealth()},
			Close:  func() error { closed = true; return nil },
		}, nil
	})

	_, err := runCLI(t, "--config", "/tmp/justgo-test.toml", "auth", "check")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/justgo-test.toml", gotPath)
	assert.True(t, closed)
	assert.Nil(t, services, "services are released after the command")
}

func TestRoot_FactoryError(t *testing.T) {
	oldServices, oldFactory := services, factory
	defer func() { services, factory = oldServices, oldFactory }()
	services = nil
	SetFactory(func(context.Context, string) (*Services, error) {
		return nil, errors.New("justgo: base URL is required")
	})

	_, err := runCLI(t, "member", "journey", "M1001")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "base URL is required")
}

func TestRoot_NotConfigured(t *testing.T) {
	oldServices, oldFactory := services, factory
	defer func() { services, factory = oldServices, oldFactory }()
	services, factory = nil, nil

	_, err := runCLI(t, "report", "membership", "guid-1")

	assert.ErrorIs(t, err, errNotConfigured)
}
