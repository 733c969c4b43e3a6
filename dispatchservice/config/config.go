package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/caseline/go-dispatch-service/internal/fcm"
)

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// Config defines the *single*, authoritative configuration.
type Config struct {
	ProjectID       string
	SendEndpoint    string
	IIDEndpoint     string
	CredentialsFile string
	BroadcastTopic  string
	SubscriptionID  string

	Redis RedisConfig
}

// MockMode reports whether the configured send endpoint routes to the mock
// transport.
func (c *Config) MockMode() bool {
	return fcm.IsMockEndpoint(c.SendEndpoint)
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("FCM_ENDPOINT"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_ENDPOINT", "source", "env")
		cfg.SendEndpoint = val
	}
	if val := os.Getenv("IID_ENDPOINT"); val != "" {
		logger.Debug("Overriding config value", "key", "IID_ENDPOINT", "source", "env")
		cfg.IIDEndpoint = val
	}
	if val := os.Getenv("FCM_CREDENTIALS_FILE"); val != "" {
		logger.Debug("Overriding config value", "key", "FCM_CREDENTIALS_FILE", "source", "env")
		cfg.CredentialsFile = val
	}
	if val := os.Getenv("NOTIFY_TOPIC"); val != "" {
		logger.Debug("Overriding config value", "key", "NOTIFY_TOPIC", "source", "env")
		cfg.BroadcastTopic = val
	}
	if val := os.Getenv("SUBSCRIPTION_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "SUBSCRIPTION_ID", "source", "env")
		cfg.SubscriptionID = val
	}

	// Redis Overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		enabled, _ := strconv.ParseBool(val)
		cfg.Redis.Enabled = enabled
	}

	// Final Validation. Mock mode must work with no project and no
	// credentials, so the project check only applies to real endpoints.
	if !cfg.MockMode() && cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required (set via YAML or PROJECT_ID env var)")
	}

	logger.Debug("Configuration finalized and validated successfully")
	return cfg, nil
}
