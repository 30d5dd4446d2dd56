package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/api"
	"github.com/lalith-99/eventboard/internal/config"
	"github.com/lalith-99/eventboard/internal/db"
	"github.com/lalith-99/eventboard/internal/importer"
	"github.com/lalith-99/eventboard/internal/live"
	"github.com/lalith-99/eventboard/internal/observ"
	"github.com/lalith-99/eventboard/internal/planner"
	"github.com/lalith-99/eventboard/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger and tracer
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observ.SetupTracing(ctx, cfg.OTLPAddr, cfg.ServiceName, logger)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", zap.Error(err))
		}
	}()

	// ---------------------------------------------------------------
	// 3. Open the state store
	//
	// Every mutation funnels through one Serializer so concurrent
	// requests cannot overwrite each other's read-modify-write.
	// ---------------------------------------------------------------
	store, err := db.OpenStore(ctx, cfg.StoreURL, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	state := repository.NewSerializer(store)
	defer state.Close()

	// ---------------------------------------------------------------
	// 4. Live updates
	//
	// Without REDIS_URL changes go straight to this process's hub.
	// ---------------------------------------------------------------
	hub := live.NewHub(cfg.CORSOrigins, logger)
	defer hub.Close()

	var publisher planner.Publisher = hub
	if cfg.RedisURL != "" {
		client, err := live.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()

		bridge := live.NewRedisBridge(client, hub, logger)
		go func() {
			if err := bridge.Run(ctx); err != nil {
				logger.Error("redis relay stopped", zap.Error(err))
			}
		}()
		publisher = bridge
	}

	// ---------------------------------------------------------------
	// 5. Services and handlers
	// ---------------------------------------------------------------
	svc := planner.New(state, publisher, logger, planner.Options{
		CascadeTableDelete: cfg.CascadeTableDelete,
	})
	im := importer.New(svc, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	routerCfg := api.RouterConfig{
		ServiceName: cfg.ServiceName,
		CORSOrigins: cfg.CORSOrigins,
		ShareSecret: cfg.ShareSecret,
	}
	if hc, ok := store.(db.HealthChecker); ok {
		routerCfg.Health = hc.Health
	}
	router := api.NewRouter(routerCfg, api.Handlers{
		Guests:    api.NewGuestHandler(svc, logger),
		Tables:    api.NewTableHandler(svc, logger),
		Reminders: api.NewReminderHandler(svc, logger),
		Import:    api.NewImportHandler(im, logger),
		Share: api.NewShareHandler(svc, api.ShareConfig{
			Secret:    cfg.ShareSecret,
			TTL:       cfg.ShareTTL,
			PublicURL: cfg.PublicURL,
		}, logger),
		Live: hub,
	}, logger)

	// ---------------------------------------------------------------
	// 6. Serve until interrupted
	// ---------------------------------------------------------------
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting eventboard",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.Bool("sharing", cfg.ShareSecret != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
