package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"kasir/internal/app"
	"kasir/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerHealthCheck(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("STORAGE_DRIVER", config.DriverMemory)
	v.Set("REPORT_CRON", "")
	v.Set("LOW_STOCK_CRON", "")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)

	application := app.NewApplication(cfg)
	require.NoError(t, application.Init())
	t.Cleanup(func() { _ = application.Close() })

	server := newServer(application)

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "memory", body["storage"])
		assert.Equal(t, "disabled", body["rabbitMQ"])
	})

	t.Run("UnauthenticatedAccess", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
