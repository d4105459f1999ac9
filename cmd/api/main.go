package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/storefront-admin/api/controllers"
	"github.com/angelmondragon/storefront-admin/api/routes"
	"github.com/angelmondragon/storefront-admin/internal/auth"
	"github.com/angelmondragon/storefront-admin/internal/dashboard"
	"github.com/angelmondragon/storefront-admin/internal/resource"
	"github.com/angelmondragon/storefront-admin/internal/storefront"
	"github.com/angelmondragon/storefront-admin/internal/uploads"
	"github.com/angelmondragon/storefront-admin/pkg/auth/session"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/logger"
	"github.com/angelmondragon/storefront-admin/pkg/metrics"
	"github.com/angelmondragon/storefront-admin/pkg/migrate"
	"github.com/angelmondragon/storefront-admin/pkg/redis"
	"github.com/angelmondragon/storefront-admin/pkg/security"
	"github.com/angelmondragon/storefront-admin/pkg/storage"
	"github.com/angelmondragon/storefront-admin/pkg/storage/gcs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	files, local, pingers, err := buildStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to create file storage", err)
		os.Exit(1)
	}
	files = storage.Instrument(files, metrics.NewStorageMetrics(registry))
	pingers["db"] = dbClient
	pingers["redis"] = redisClient

	hasher := security.NewHasher(cfg.Password)
	deps := resource.Deps{
		DB:         dbClient,
		Pagination: cfg.Pagination,
		Files:      files,
		Logger:     logg,
	}
	admin, products, err := buildAdmin(deps, hasher, files, cfg.Storage.MaxUploadBytes(), logg)
	if err != nil {
		logg.Error(ctx, "failed to create admin services", err)
		os.Exit(1)
	}

	var google auth.GoogleVerifier
	if strings.TrimSpace(cfg.Google.ClientID) != "" {
		if google, err = auth.NewGoogleVerifier(cfg.Google.ClientID); err != nil {
			logg.Error(ctx, "failed to create google verifier", err)
			os.Exit(1)
		}
	}
	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		SessionManager: sessionManager,
		Hasher:         hasher,
		JWTConfig:      cfg.JWT,
		Google:         google,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	uploadService, err := uploads.NewService(files)
	if err != nil {
		logg.Error(ctx, "failed to create upload service", err)
		os.Exit(1)
	}
	dashboardService, err := dashboard.NewService(dbClient.DB())
	if err != nil {
		logg.Error(ctx, "failed to create dashboard service", err)
		os.Exit(1)
	}
	storefrontService, err := storefront.NewService(dbClient.DB(), products, files)
	if err != nil {
		logg.Error(ctx, "failed to create storefront service", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
		Ready:       pingers,
		Sessions:    sessionManager,
		Limiter:     redisClient,
		Idempotency: redisClient,
		Files:       files,
		LocalFiles:  local,
		Auth:        authService,
		Uploads:     uploadService,
		Dashboard:   dashboardService,
		Storefront:  storefrontService,
		Admin:       admin,
	})

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"storage": cfg.Storage.Driver,
	})
	logg.Info(srvCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(srvCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(srvCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(srvCtx, "graceful shutdown failed", err)
		}
	}
}

// buildStorage picks the file backend. The local store is also returned so
// the router can serve it.
func buildStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Store, *storage.LocalStore, map[string]controllers.Pinger, error) {
	pingers := map[string]controllers.Pinger{}
	switch cfg.Storage.Driver {
	case config.StorageDriverGCS:
		store, err := gcs.NewStore(ctx, cfg.Storage, logg)
		if err != nil {
			return nil, nil, nil, err
		}
		pingers["gcs"] = store
		return store, nil, pingers, nil
	default:
		base := strings.TrimRight(cfg.App.PublicURL, "/") + "/" + strings.Trim(cfg.Storage.PublicPath, "/")
		store, err := storage.NewLocalStore(cfg.Storage.LocalRoot, base)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store, pingers, nil
	}
}
