package laneservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/memorylane/lane-server/internal/api"
	"github.com/memorylane/lane-server/internal/auth"
	"github.com/memorylane/lane-server/internal/blob"
	"github.com/memorylane/lane-server/internal/config"
	"github.com/memorylane/lane-server/internal/logger"
	"github.com/memorylane/lane-server/internal/services"
	"github.com/memorylane/lane-server/internal/store"
	"github.com/memorylane/lane-server/internal/store/postgres"
	"github.com/memorylane/lane-server/internal/store/sqlite"
)

// Run starts the lane service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("lane-service", "info")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	log = logger.New("lane-service", cfg.LogLevel)

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("blob_endpoint", cfg.BlobEndpoint).
		Str("blob_bucket", cfg.BlobBucket).
		Int("token_ttl_seconds", cfg.TokenTTLSeconds).
		Msg("Lane service starting")

	// Cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, blobs, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}

	router := buildRouter(st, blobs, cfg, log)

	server := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the two backing stores, failing fast when
// either is unreachable.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, blob.Store, error) {
	var st store.Store
	switch cfg.DBDriver {
	case "postgres":
		bootCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := postgres.Bootstrap(bootCtx, cfg.PostgresDSN); err != nil {
			log.Error().Stack().Err(err).Msg("Postgres unavailable")
			return nil, nil, err
		}
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			log.Error().Stack().Err(err).Msg("Postgres open failed")
			return nil, nil, err
		}
		st = postgres.NewWithDB(db)
	case "sqlite":
		s, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			log.Error().Stack().Err(err).Msg("SQLite unavailable")
			return nil, nil, err
		}
		st = s
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}

	blobs, err := blob.NewMinio(ctx, blob.MinioConfig{
		Endpoint:      cfg.BlobEndpoint,
		AccessKey:     cfg.BlobAccessKey,
		SecretKey:     cfg.BlobSecretKey,
		Bucket:        cfg.BlobBucket,
		UseSSL:        cfg.BlobUseSSL,
		PublicBaseURL: cfg.BlobPublicBaseURL,
	})
	if err != nil {
		log.Error().Stack().Err(err).Msg("Blob store unavailable")
		return nil, nil, err
	}
	return st, blobs, nil
}

// buildRouter wires services and handlers.
func buildRouter(st store.Store, blobs blob.Store, cfg *config.Config, log zerolog.Logger) http.Handler {
	codec := auth.NewTokenCodec(cfg.SessionSecret, cfg.TokenTTL())
	sessions := auth.NewSessionManager(codec, cfg.AdminPassword, cfg.AuthCookieName, cfg.TokenTTL(), cfg.CookieSecure, log)

	deps := api.RouterDeps{
		Log:      log,
		Sessions: sessions,
		Lanes:    services.NewLaneService(st, blobs, log),
		Memories: services.NewMemoryService(st, blobs, log),
		Images:   services.NewImageService(st, blobs, log),
		Uploads:  services.NewUploadService(blobs, cfg.UploadURLTTL()),
	}
	if p, ok := st.(api.Pinger); ok {
		deps.StoreHealth = p
	}
	if p, ok := blobs.(api.Pinger); ok {
		deps.BlobHealth = p
	}
	return api.NewRouter(deps)
}
