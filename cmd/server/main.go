package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"palette-wardrobe/stylist/internal/api"
	"palette-wardrobe/stylist/internal/common"
	"palette-wardrobe/stylist/internal/config"
	"palette-wardrobe/stylist/internal/constants"
	"palette-wardrobe/stylist/internal/db"
	"palette-wardrobe/stylist/internal/logging"
	"palette-wardrobe/stylist/internal/metrics"
	"palette-wardrobe/stylist/internal/routes"
	"palette-wardrobe/stylist/internal/storage"
	"palette-wardrobe/stylist/internal/workers"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// Initialize structured logging
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("Stylist starting up",
		"environment", cfg.AppEnv,
		"db_driver", cfg.DBDriver,
		"cache_backend", cfg.CacheBackend,
		"storage_backend", cfg.StorageBackend,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orm, err := db.InitORM(cfg)
	if err != nil {
		logging.Fatal("Failed to open database (GORM)", "error", err)
	}
	if err := db.AutoMigrate(orm); err != nil {
		logging.Fatal("Failed to migrate database", "error", err)
	}

	sqlDB, err := db.InitSQLX(cfg, orm)
	if err != nil {
		logging.Fatal("Failed to open database (sqlx)", "error", err)
	}
	logging.Info("Database ready")

	cache := initCache(cfg)
	defer cache.Close()

	images, err := storage.NewImageStore(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to initialize image storage", "error", err)
	}

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)
	deps := api.InitDependencies(cfg, orm, sqlDB, cache, images, metricsReg)

	if cfg.AdminJWTSecret == "" {
		logging.Warn("ADMIN_JWT_SECRET is not set; admin routes will reject every request")
	}

	go workers.NewPaletteWarmer(deps.Services.Palette).Start(ctx, warmInterval(cfg.PaletteCacheTTL))

	router := routes.RegisterRoutes(deps)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "port", cfg.Port, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err)
	}
	if err := sqlDB.Close(); err != nil {
		logging.Warn("Failed to close database", "error", err)
	}
}

func initCache(cfg *config.Config) common.CacheInterface {
	switch cfg.CacheBackend {
	case "redis":
		client := common.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
		return common.NewRedisCacheService(client, string(constants.CachePrefixStylist))
	default:
		return common.NewCacheService(cfg.PaletteCacheTTL, 10*time.Minute)
	}
}

// warmInterval refreshes well before the cached snapshot expires.
func warmInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 30 * time.Minute
	}
	if half := ttl / 2; half > time.Second {
		return half
	}
	return time.Second
}
