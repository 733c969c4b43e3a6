package config

import (
	"log/slog"
)

type YamlRedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	ProjectID       string          `yaml:"project_id"`
	SendEndpoint    string          `yaml:"send_endpoint"`
	IIDEndpoint     string          `yaml:"iid_endpoint"`
	CredentialsFile string          `yaml:"credentials_file"`
	BroadcastTopic  string          `yaml:"broadcast_topic"`
	SubscriptionID  string          `yaml:"subscription_id"`
	RedisConfig     YamlRedisConfig `yaml:"redis"`
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		ProjectID:       baseCfg.ProjectID,
		SendEndpoint:    baseCfg.SendEndpoint,
		IIDEndpoint:     baseCfg.IIDEndpoint,
		CredentialsFile: baseCfg.CredentialsFile,
		BroadcastTopic:  baseCfg.BroadcastTopic,
		SubscriptionID:  baseCfg.SubscriptionID,
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
		},
	}

	logger.Debug("YAML config mapping complete",
		"project_id", cfg.ProjectID,
		"send_endpoint", cfg.SendEndpoint,
		"subscription_id", cfg.SubscriptionID,
	)

	return cfg, nil
}
