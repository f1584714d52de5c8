package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/payshare/backend/internal/auth"
	"github.com/payshare/backend/internal/cache"
	"github.com/payshare/backend/internal/config"
	"github.com/payshare/backend/internal/metrics"
	"github.com/payshare/backend/internal/server"
	"github.com/payshare/backend/internal/storage/sqlite"
	"github.com/payshare/backend/pkg/logging"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, root, map[string]string{
				"server.port": "port",
				"db.path":     "db",
				"redis.addr":  "redis",
			})
			if err != nil {
				return err
			}
			if err := cfg.ValidateServe(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := logging.Setup(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().Int("port", 8080, "listen port")
	cmd.Flags().String("db", "./data/payshare.db", "SQLite database path")
	cmd.Flags().String("redis", "", "Redis address for the summary cache (disabled when empty)")

	return cmd
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DB.Path)

	var summaryCache cache.Cache = cache.Noop{}
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.TTL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		summaryCache = redisCache
		logger.Info("Summary cache enabled", "redis", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}
	defer summaryCache.Close()

	jwtManager := auth.NewJWTManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	handler := server.NewHandler(server.Deps{
		Store:         store,
		Cache:         summaryCache,
		Metrics:       metrics.New(),
		JWT:           jwtManager,
		Authenticator: auth.NewPasswordAuthenticator(store),
		Logger:        logger,
	})

	return server.Run(ctx, cfg.Addr(), handler, logger)
}
