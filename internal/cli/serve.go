package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/upiqr"
	"github.com/dmitrymomot/upiqr/core/config"
	"github.com/dmitrymomot/upiqr/core/logger"
	"github.com/dmitrymomot/upiqr/core/server"
	"github.com/dmitrymomot/upiqr/core/storage"
	"github.com/dmitrymomot/upiqr/integration/database/redis"
	"github.com/dmitrymomot/upiqr/integration/storage/s3"
	"github.com/dmitrymomot/upiqr/internal/httpapi"
	"github.com/dmitrymomot/upiqr/middleware"
	"github.com/dmitrymomot/upiqr/pkg/qrcode"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. Configuration comes from the environment and an
optional .env file: SERVER_ADDR, STORAGE_DRIVER (memory, redis or s3),
STORAGE_TTL, QR_BOX_SIZE, QR_BORDER, QR_ERROR_CORRECTION and others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}

func newLogger(cfg Config) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, cfg.ServiceName),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "":
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	case "text":
		opts = append(opts, logger.WithTextFormatter())
	default:
		return nil, fmt.Errorf("unknown LOG_FORMAT %q", cfg.LogFormat)
	}
	return logger.New(opts...), nil
}

func serve(ctx context.Context, cfg Config) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	render, err := cfg.QR.Validate()
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	apiOpts := []httpapi.Option{
		httpapi.WithLogger(log),
		httpapi.WithRenderDefaults(render),
		httpapi.WithMaxUploadBytes(cfg.UploadMaxBytes),
	}

	switch strings.ToLower(cfg.StorageDriver) {
	case driverMemory, "":
		store := storage.NewMemoryStore(
			storage.WithTTL(cfg.StorageTTL),
			storage.WithCleanupInterval(cfg.StorageCleanup),
			storage.WithLogger(log),
		)
		g.Go(store.Run(ctx))
		apiOpts = append(apiOpts, httpapi.WithStore(store), httpapi.WithHealthcheck("storage", store.Healthcheck))

	case driverRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		apiOpts = append(apiOpts,
			httpapi.WithStore(redis.NewStore(client, cfg.Redis.KeyPrefix, cfg.StorageTTL)),
			httpapi.WithHealthcheck("redis", redis.Healthcheck(client)),
		)

	case driverS3:
		store, err := s3.New(ctx, cfg.S3, s3.WithTTL(cfg.StorageTTL))
		if err != nil {
			return err
		}
		apiOpts = append(apiOpts, httpapi.WithStore(store), httpapi.WithHealthcheck("s3", store.Healthcheck))

	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	decOpts := []qrcode.DecoderOption{qrcode.WithDecoderLogger(log)}
	if cfg.StrictDecoding {
		decOpts = append(decOpts, qrcode.WithStrictDecoding())
	}
	svc := upiqr.New(upiqr.WithLogger(log), upiqr.WithDecoder(qrcode.NewDecoder(decOpts...)))

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}
	g.Go(srv.Run(ctx, httpapi.New(svc, apiOpts...).Router()))

	log.InfoContext(ctx, "upiqr started",
		slog.String("addr", cfg.Server.Addr),
		slog.String("storage", cfg.StorageDriver),
	)
	return g.Wait()
}
