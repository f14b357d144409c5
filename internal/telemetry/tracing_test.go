package telemetry_test

import (
	"testing"

	"github.com/aaravmahajanofficial/artisan-storefront/internal/config"
	"github.com/aaravmahajanofficial/artisan-storefront/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTracer(t *testing.T) {
	t.Run("Success - No Endpoint", func(t *testing.T) {
		// Act
		shutdown, err := telemetry.SetupTracer(t.Context(), "test", config.OtelConfig{ServiceName: "artisan-storefront"})

		// Assert
		require.NoError(t, err)
		assert.NoError(t, shutdown(t.Context()))
	})

	t.Run("Success - Endpoint URL", func(t *testing.T) {
		shutdown, err := telemetry.SetupTracer(t.Context(), "test", config.OtelConfig{
			ServiceName:      "artisan-storefront",
			ExporterEndpoint: "http://127.0.0.1:1/v1/traces",
			SamplerRatio:     1,
		})

		require.NoError(t, err)
		assert.NotNil(t, shutdown)
	})
}
