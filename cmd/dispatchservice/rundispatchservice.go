package main

import (
	"context"
	_ "embed"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"gopkg.in/yaml.v3"

	"github.com/caseline/go-dispatch-service/dispatchservice"
	"github.com/caseline/go-dispatch-service/dispatchservice/config"
	"github.com/caseline/go-dispatch-service/internal/fcm"
	"github.com/caseline/go-dispatch-service/internal/storage/cache"
)

//go:embed local.yaml
var configFile []byte

func main() {
	var logLevel slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		logLevel = slog.LevelDebug
	case "info", "INFO":
		logLevel = slog.LevelInfo
	case "warn", "WARN":
		logLevel = slog.LevelWarn
	case "error", "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})).With("service", "go-dispatch-service")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Config Loading ---
	var yamlCfg config.YamlConfig
	if err := yaml.Unmarshal(configFile, &yamlCfg); err != nil {
		logger.Error("Failed to unmarshal embedded yaml config", "err", err)
		os.Exit(1)
	}
	baseCfg, _ := config.NewConfigFromYaml(&yamlCfg, logger)
	cfg, err := config.UpdateConfigWithEnvOverrides(baseCfg, logger)
	if err != nil {
		logger.Error("Config failed", "err", err)
		os.Exit(1)
	}

	// --- Token Source (Decorated) ---
	var tokens fcm.TokenSource = fcm.NewTokenProvider(&http.Client{Timeout: 15 * time.Second}, logger)
	if cfg.Redis.Enabled {
		logger.Info("Initializing Redis token cache...", "addr", cfg.Redis.Addr)
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("Failed to connect to Redis", "err", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		tokens = cache.NewCachedTokenSource(tokens, redisClient, logger)
		logger.Info("TokenSource upgraded", "type", "redis_cached")
	}

	// --- Dispatch Client ---
	credentials := fcm.NewCredentialStore(cfg.CredentialsFile, logger)
	client := fcm.NewClient(fcm.ClientConfig{
		ProjectID:    cfg.ProjectID,
		SendEndpoint: cfg.SendEndpoint,
		IIDEndpoint:  cfg.IIDEndpoint,
	}, credentials, tokens, logger)
	if cfg.MockMode() {
		logger.Warn("Send endpoint is mock-flagged; deliveries will not leave this process", "endpoint", cfg.SendEndpoint)
	}

	// --- Consumer & Service ---
	psClient, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		logger.Error("PubSub client failed", "err", err)
		os.Exit(1)
	}
	defer psClient.Close()
	consumer := dispatchservice.NewPubsubConsumer(psClient, cfg.SubscriptionID, logger)

	service, err := dispatchservice.New(cfg, consumer, client, logger)
	if err != nil {
		logger.Error("Service creation failed", "err", err)
		os.Exit(1)
	}

	logger.Info("Starting service...")
	if err := service.Start(ctx); err != nil {
		logger.Error("Service failed to start", "err", err)
		os.Exit(1)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := service.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown with error", "err", err)
		os.Exit(1)
	}
}
