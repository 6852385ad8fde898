package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/cms/pkg/httpx"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port      int    `mapstructure:"AUTH_PORT"`  // HTTP server port (default: 8080)
	Env       string `mapstructure:"ENV"`        // Environment (dev, staging, prod) (default: dev)
	LogLevel  string `mapstructure:"LOG_LEVEL"`  // Log level (debug, info, warn, error) (default: info)
	LogFormat string `mapstructure:"LOG_FORMAT"` // Log format (json, text) (default: text)

	DatabaseDriver string `mapstructure:"AUTH_DATABASE_DRIVER"` // sqlite or postgres (default: sqlite)
	DatabaseFile   string `mapstructure:"AUTH_DATABASE_FILE"`   // SQLite database file (default: ./auth.db)
	DatabaseURL    string `mapstructure:"AUTH_DATABASE_URL"`    // Postgres DSN, required for the postgres driver

	// Process secrets. Any left empty is read from, or generated into, SecretsDir.
	SecretKey        string `mapstructure:"SECRET_KEY"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	RefreshSignature string `mapstructure:"JWT_REFRESH_SIGNATURE"`
	CipherKey        string `mapstructure:"JWT_CIPHER_KEY"`
	Pepper           string `mapstructure:"AUTH_PEPPER"`
	SecretsDir       string `mapstructure:"AUTH_SECRETS_DIR"` // (default: ./.secrets)

	JWTExpirySeconds        int `mapstructure:"JWT_EXPIRY_SECONDS"`            // Access token lifetime (default: 86400)
	RefreshThresholdSeconds int `mapstructure:"JWT_REFRESH_THRESHOLD_SECONDS"` // Remaining lifetime that triggers rotation (default: 120)

	ShutdownGracePeriod  time.Duration `mapstructure:"AUTH_SHUTDOWN_GRACE_PERIOD"` // (default: 10s)
	HousekeepingInterval time.Duration `mapstructure:"AUTH_HOUSEKEEPING_INTERVAL"` // (default: 1h)
	ActivityRetention    time.Duration `mapstructure:"AUTH_ACTIVITY_RETENTION"`    // (default: 90 days)

	RateLimits httpx.RateLimitProfiles `mapstructure:"-"`
}

// LoadConfig reads envFile (".env" when empty) if it exists, then the
// environment, which takes precedence.
func LoadConfig(envFile string) (Config, error) {
	v := viper.New()

	if envFile == "" {
		envFile = ".env"
	}
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	_ = v.ReadInConfig() // a missing file is fine

	v.AutomaticEnv()
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.RateLimits = httpx.ProfilesFromLookup(v.GetString)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("AUTH_PORT", 8080)
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("AUTH_DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("AUTH_DATABASE_FILE", "auth.db")
	v.SetDefault("AUTH_DATABASE_URL", "")

	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_REFRESH_SIGNATURE", "")
	v.SetDefault("JWT_CIPHER_KEY", "")
	v.SetDefault("AUTH_PEPPER", "")
	v.SetDefault("AUTH_SECRETS_DIR", ".secrets")

	v.SetDefault("JWT_EXPIRY_SECONDS", 86400)
	v.SetDefault("JWT_REFRESH_THRESHOLD_SECONDS", 120)

	v.SetDefault("AUTH_SHUTDOWN_GRACE_PERIOD", "10s")
	v.SetDefault("AUTH_HOUSEKEEPING_INTERVAL", "1h")
	v.SetDefault("AUTH_ACTIVITY_RETENTION", "2160h")
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: AUTH_PORT %d is out of range", c.Port)
	}

	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return errors.New("config: AUTH_DATABASE_FILE must be set for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: AUTH_DATABASE_URL must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown AUTH_DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.JWTExpirySeconds <= 0 {
		return errors.New("config: JWT_EXPIRY_SECONDS must be positive")
	}
	if c.RefreshThresholdSeconds <= 0 || c.RefreshThresholdSeconds >= c.JWTExpirySeconds {
		return errors.New("config: JWT_REFRESH_THRESHOLD_SECONDS must be positive and below JWT_EXPIRY_SECONDS")
	}
	if c.ShutdownGracePeriod <= 0 {
		return errors.New("config: AUTH_SHUTDOWN_GRACE_PERIOD must be positive")
	}
	return nil
}

// TokenTTL is the access token lifetime.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirySeconds) * time.Second
}

// RefreshThreshold is the remaining lifetime under which a refresh rotates
// the token.
func (c Config) RefreshThreshold() time.Duration {
	return time.Duration(c.RefreshThresholdSeconds) * time.Second
}
