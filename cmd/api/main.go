// Package main is the entrypoint for the iam-admin API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/iamadmin/iamadmin/internal/auth"
	"github.com/iamadmin/iamadmin/internal/cache"
	"github.com/iamadmin/iamadmin/internal/config"
	"github.com/iamadmin/iamadmin/internal/handler"
	"github.com/iamadmin/iamadmin/internal/metrics"
	"github.com/iamadmin/iamadmin/internal/notify"
	"github.com/iamadmin/iamadmin/internal/repository"
	"github.com/iamadmin/iamadmin/internal/server"
	"github.com/iamadmin/iamadmin/internal/service"
)

const version = "0.1.0"

// startupTimeout bounds the initial database and Redis handshakes.
const startupTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.Options{
		MaxConns:       cfg.DBMaxConns,
		MinConns:       cfg.DBMinConns,
		AcquireTimeout: cfg.DBAcquireTimeout,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return err
	}
	logger.Info("connected to database", slog.Int("max_conns", int(cfg.DBMaxConns)))

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.Options{
		PoolSize:    cfg.RedisPoolSize,
		PoolTimeout: cfg.RedisPoolTimeout,
	})
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		return err
	}
	logger.Info("connected to Redis", slog.Int("pool_size", cfg.RedisPoolSize))

	// Initialize notifier
	notifier, err := notify.New(cfg.Delivery, logger)
	if err != nil {
		repo.Close()
		_ = cacheClient.Close()
		logger.Error("failed to configure invitation delivery", slog.String("error", err.Error()))
		return err
	}
	if cfg.Delivery.Driver == config.MailDriverLog && cfg.IsProduction() {
		logger.Warn("invitation delivery uses the log driver in production")
	}

	// Initialize services
	metricsRecorder := metrics.NewNoop()
	directoryService := service.NewDirectoryService(repo, logger, metricsRecorder)
	invitationService := service.NewInvitationService(cacheClient, notifier, logger, metricsRecorder)

	// Setup router
	router := handler.NewRouter(handler.RouterConfig{
		Prefix:        strings.Trim(cfg.ServicePrefix, "/"),
		IsDevelopment: cfg.IsDevelopment(),
		MaxBodySize:   cfg.MaxRequestBodySize,
		Logger:        logger,
		Verifier:      auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer),
		Handler:       handler.New(cfg.ServicePrefix, version),
		Health:        handler.NewHealthHandler(repo, cacheClient, logger),
		Directory:     handler.NewDirectoryHandler(directoryService, logger),
		Invitation:    handler.NewInvitationHandler(invitationService, logger),
	})

	srv := server.New(router, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"prefix", cfg.ServicePrefix,
		"env", cfg.AppEnv,
		"mail_driver", cfg.Delivery.Driver,
	)

	return srv.Run(context.Background())
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With(slog.String("service", cfg.ServicePrefix))
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s&]+`)

// redactURL strips the password from a connection URL.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	q := parsed.Query()
	if q.Has("password") {
		q.Set("password", "redacted")
		parsed.RawQuery = q.Encode()
	}

	return parsed.String()
}

// sanitizeError removes connection secrets from an error message.
func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
