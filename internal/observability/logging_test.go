package observability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/lootforge/internal/config"
	"github.com/cory-johannsen/lootforge/internal/observability"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := observability.NewLogger(config.LoggingConfig{Level: "info", Format: format})
		require.NoError(t, err, "format %s", format)
		require.NotNil(t, logger)
		assert.Equal(t, "lootforge", logger.Name(), "format %s", format)
		logger.Info("logger works")
		_ = logger.Sync() // stderr sync errors are platform noise
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "shouting", Format: "console"})
	assert.ErrorContains(t, err, "shouting")
}

func TestNewLogger_InvalidFormat(t *testing.T) {
	_, err := observability.NewLogger(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "xml")
}
