package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := runCLI(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "justgo version test-version-1.0.0")
}

func TestVersionCmd_SkipsServiceFactory(t *testing.T) {
	oldServices, oldFactory := services, factory
	services = nil
	called := false
	SetFactory(func(_ context.Context, _ string) (*Services, error) {
		called = true
		return nil, errors.New("should not be built")
	})
	defer func() { services, factory = oldServices, oldFactory }()

	_, err := runCLI(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
}

func TestSetVersion_IgnoresEmpty(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	version = "1.2.3"
	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}
