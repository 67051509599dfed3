package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/omprakashthakur/contenthub/internal/api"
	"github.com/omprakashthakur/contenthub/internal/cache"
	"github.com/omprakashthakur/contenthub/internal/config"
	"github.com/omprakashthakur/contenthub/internal/normalize"
	"github.com/omprakashthakur/contenthub/internal/publisher"
	"github.com/omprakashthakur/contenthub/internal/service"
	"github.com/omprakashthakur/contenthub/internal/source/pexels"
	"github.com/omprakashthakur/contenthub/internal/source/youtube"
	"github.com/omprakashthakur/contenthub/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rmq, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rmq.Close()
		pub = rmq
	}

	vlogCache, err := cache.New(cache.Config{
		Dir:      cfg.Cache.Dir,
		InMemory: cfg.Cache.InMemory,
		TTL:      cfg.Cache.TTL,
	}, logger)
	if err != nil {
		logger.Error("failed to open vlog cache", "error", err)
		os.Exit(1)
	}
	defer vlogCache.Close()

	contentStore := postgres.NewContentStore(db)
	syncStateStore := postgres.NewSyncStateStore(db)
	txManager := postgres.NewTransactionManager(db)

	normalizer := normalize.New(normalize.WithCategoryRules(normalize.RulesFromMap(cfg.Sync.Categories)))

	syncs := make(map[string]api.SyncRunner)
	if cfg.Providers.Pexels.Enabled {
		src := pexels.New(pexels.Config{
			APIKey:       cfg.Providers.Pexels.APIKey,
			CollectionID: cfg.Providers.Pexels.CollectionID,
			Timeout:      cfg.Providers.Pexels.Timeout,
		}, logger)
		syncs[src.ID()] = service.NewSyncService(src, contentStore, syncStateStore, pub, normalizer, logger, cfg.Sync.MaxItems)
	}
	if cfg.Providers.YouTube.Enabled {
		src := youtube.New(youtube.Config{
			APIKey:     cfg.Providers.YouTube.APIKey,
			ChannelID:  cfg.Providers.YouTube.ChannelID,
			PlaylistID: cfg.Providers.YouTube.PlaylistID,
			Timeout:    cfg.Providers.YouTube.Timeout,
		}, logger)
		syncs[src.ID()] = service.NewSyncService(src, contentStore, syncStateStore, pub, normalizer, logger, cfg.Sync.MaxItems)
	}

	contentService := service.NewContentService(contentStore, txManager, pub, vlogCache, logger, cfg.Cache.ReadTimeout)

	handler := api.NewHandler(contentService, syncs, logger)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:   cfg.Server.CORSOrigins,
		SyncRateLimit: cfg.Server.SyncRateLimit,
	}, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting content server",
		"addr", cfg.Server.Addr,
		"providers", len(syncs),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
