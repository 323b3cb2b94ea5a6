package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volume-uploader/backend/internal/api"
	"github.com/volume-uploader/backend/internal/config"
	"github.com/volume-uploader/backend/internal/logging"
	"github.com/volume-uploader/backend/internal/metrics"
	"github.com/volume-uploader/backend/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "path to uploader.yaml (default: next to the executable)")
	flag.Parse()

	if *configPath == "" {
		exePath, err := os.Executable()
		if err != nil {
			fmt.Printf("Failed to get executable path: %v\n", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(filepath.Dir(exePath), "uploader.yaml")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("failed to create directories", zap.Error(err))
	}

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.Check(ctx); err != nil {
		// Not fatal: /health reports degraded and uploads fail with a clear error.
		logger.Warn("upload volume not accessible", zap.String("location", store.Location()), zap.Error(err))
	}

	m := metrics.New()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareOptions{
		Logger:         logger,
		RequestLogging: cfg.Logging.RequestLogging,
		EnableCORS:     cfg.Server.EnableCORS,
		AllowOrigins:   cfg.Server.AllowOrigins,
	})

	handlers := api.NewHandlers(&api.Dependencies{
		Store:             store,
		AllowedExtensions: cfg.GetAllowedExtensions(),
		MaxUploadBytes:    cfg.GetMaxUploadBytes(),
		Metrics:           m,
		Logger:            logger,
	})
	if err := api.RegisterRoutes(e, handlers, cfg.GetMaxUploadBytes()); err != nil {
		logger.Fatal("failed to register routes", zap.Error(err))
	}
	if cfg.Metrics.Enabled {
		api.RegisterMetrics(e, m, cfg.Metrics.Path)
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	printBanner(*configPath, cfg, store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newStore(cfg *config.AppConfig) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMinio:
		mc := cfg.Storage.Minio
		return storage.NewMinioStore(storage.MinioOptions{
			Endpoint:  mc.Endpoint,
			AccessKey: mc.AccessKey,
			SecretKey: mc.SecretKey,
			Bucket:    mc.Bucket,
			Region:    mc.Region,
			UseSSL:    mc.UseSSL,
		})
	default:
		return storage.NewLocalStore(cfg.GetVolumePath())
	}
}

func printBanner(configPath string, cfg *config.AppConfig, store storage.Store) {
	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Volume Uploader Server                          ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Backend:    %-45s║\n", cfg.Storage.Backend)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Volume:    %-46s║\n", store.Location())
	fmt.Printf("║  Max Size:  %-46s║\n", cfg.Storage.MaxUploadSize)
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")
}
