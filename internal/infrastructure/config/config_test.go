package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("NoFile_ShouldUseDefaults", func(t *testing.T) {
		// Act
		cfg, err := Load("")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 7, cfg.Planner.DefaultDurationDays)
		assert.Equal(t, 400.0, cfg.Planner.CalorieBand)
		assert.Equal(t, "RCP001", cfg.Planner.FallbackRecipeID)
		assert.Equal(t, 30*time.Second, cfg.Planner.LockTTL)
		assert.Equal(t, 120, cfg.RateLimit.RequestsPerMin)
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("File_ShouldOverrideDefaults", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, `
app:
  environment: production
server:
  port: 9090
planner:
  default_duration_days: 14
  calorie_band: 250
`)

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 14, cfg.Planner.DefaultDurationDays)
		assert.Equal(t, 250.0, cfg.Planner.CalorieBand)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("Environment_ShouldOverrideFile", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, "server:\n  port: 9090\n")
		t.Setenv("DIETPLANNER_SERVER_PORT", "7070")

		// Act
		cfg, err := Load(path)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("UnknownDriver_ShouldFail", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, "database:\n  driver: mysql\n")

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("MaxBelowDefaultDuration_ShouldFail", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, "planner:\n  default_duration_days: 30\n  max_duration_days: 10\n")

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_duration_days")
	})

	t.Run("SeveralInvalidSettings_ShouldReportAll", func(t *testing.T) {
		// Arrange
		path := writeConfig(t, "app:\n  log_format: xml\nserver:\n  port: 0\nmonitoring:\n  sampling_rate: 2\n")

		// Act
		_, err := Load(path)

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.log_format")
		assert.Contains(t, err.Error(), "server.port")
		assert.Contains(t, err.Error(), "monitoring.sampling_rate")
	})
}

func TestDatabaseConfig_DSNForHost(t *testing.T) {
	// Arrange
	cfg := DatabaseConfig{Port: 5432, Username: "diet", Password: "secret", Database: "plans", SSLMode: "disable"}

	// Act
	dsn := cfg.DSNForHost("replica-1")

	// Assert
	assert.Equal(t, "host=replica-1 port=5432 user=diet password=secret dbname=plans sslmode=disable", dsn)
}
