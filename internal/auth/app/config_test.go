package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "auth.db", cfg.DatabaseFile)
	require.Equal(t, ".secrets", cfg.SecretsDir)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL())
	require.Equal(t, 120*time.Second, cfg.RefreshThreshold())
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Hour, cfg.HousekeepingInterval)
	require.Equal(t, 90*24*time.Hour, cfg.ActivityRetention)
	require.Equal(t, 5, cfg.RateLimits.Strict.RequestsPerWindow)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("AUTH_PORT", "9090")
	t.Setenv("JWT_EXPIRY_SECONDS", "3600")
	t.Setenv("JWT_REFRESH_THRESHOLD_SECONDS", "300")
	t.Setenv("AUTH_SHUTDOWN_GRACE_PERIOD", "30s")
	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("RATELIMIT_STRICT_REQUESTS", "50")

	cfg, err := LoadConfig(missingEnvFile(t))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, time.Hour, cfg.TokenTTL())
	require.Equal(t, 5*time.Minute, cfg.RefreshThreshold())
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, "from-env", cfg.SecretKey)
	require.Equal(t, 50, cfg.RateLimits.Strict.RequestsPerWindow)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_DATABASE_FILE=cms.db\nJWT_SECRET=from-file\nLOG_LEVEL=debug\n"), 0600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "cms.db", cfg.DatabaseFile)
	require.Equal(t, "from-file", cfg.JWTSecret)
	require.Equal(t, "warn", cfg.LogLevel, "environment wins over the file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port:                    8080,
			DatabaseDriver:          DriverSQLite,
			DatabaseFile:            "auth.db",
			JWTExpirySeconds:        86400,
			RefreshThresholdSeconds: 120,
			ShutdownGracePeriod:     10 * time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port", func(c *Config) { c.Port = 70000 }, "AUTH_PORT"},
		{"driver", func(c *Config) { c.DatabaseDriver = "mysql" }, "AUTH_DATABASE_DRIVER"},
		{"postgres without url", func(c *Config) { c.DatabaseDriver = DriverPostgres }, "AUTH_DATABASE_URL"},
		{"postgres with url", func(c *Config) {
			c.DatabaseDriver = DriverPostgres
			c.DatabaseURL = "postgres://localhost/cms"
		}, ""},
		{"expiry", func(c *Config) { c.JWTExpirySeconds = 0 }, "JWT_EXPIRY_SECONDS"},
		{"threshold zero", func(c *Config) { c.RefreshThresholdSeconds = 0 }, "JWT_REFRESH_THRESHOLD_SECONDS"},
		{"threshold above expiry", func(c *Config) { c.RefreshThresholdSeconds = 90000 }, "JWT_REFRESH_THRESHOLD_SECONDS"},
		{"grace period", func(c *Config) { c.ShutdownGracePeriod = 0 }, "AUTH_SHUTDOWN_GRACE_PERIOD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
