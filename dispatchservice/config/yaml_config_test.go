package config_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseline/go-dispatch-service/dispatchservice/config"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewConfigFromYaml(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success - maps all fields correctly", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID:       "yaml-project",
			SendEndpoint:    "https://fcm.googleapis.com",
			IIDEndpoint:     "https://iid.googleapis.com",
			CredentialsFile: "/var/secrets/firebase_credentials.json",
			BroadcastTopic:  "teachers",
			SubscriptionID:  "yaml-subscription",
			RedisConfig: config.YamlRedisConfig{
				Addr:    "redis:6379",
				DB:      2,
				Enabled: true,
			},
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "yaml-project", cfg.ProjectID)
		assert.Equal(t, "https://fcm.googleapis.com", cfg.SendEndpoint)
		assert.Equal(t, "https://iid.googleapis.com", cfg.IIDEndpoint)
		assert.Equal(t, "/var/secrets/firebase_credentials.json", cfg.CredentialsFile)
		assert.Equal(t, "teachers", cfg.BroadcastTopic)
		assert.Equal(t, "yaml-subscription", cfg.SubscriptionID)
		assert.Equal(t, "redis:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
		assert.True(t, cfg.Redis.Enabled)
		assert.False(t, cfg.MockMode())
	})

	t.Run("Success - handles missing optional fields gracefully", func(t *testing.T) {
		yamlCfg := &config.YamlConfig{
			ProjectID: "minimal-project",
		}

		cfg, err := config.NewConfigFromYaml(yamlCfg, logger)

		require.NoError(t, err)
		assert.Equal(t, "minimal-project", cfg.ProjectID)
		assert.Empty(t, cfg.SendEndpoint)
		assert.Empty(t, cfg.BroadcastTopic)
		assert.False(t, cfg.Redis.Enabled)
	})
}
