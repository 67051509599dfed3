package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/omprakashthakur/contenthub/internal/config"
	"github.com/omprakashthakur/contenthub/internal/normalize"
	"github.com/omprakashthakur/contenthub/internal/publisher"
	"github.com/omprakashthakur/contenthub/internal/scheduler"
	"github.com/omprakashthakur/contenthub/internal/service"
	"github.com/omprakashthakur/contenthub/internal/source/pexels"
	"github.com/omprakashthakur/contenthub/internal/source/youtube"
	"github.com/omprakashthakur/contenthub/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run every sync once and exit")
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

	contentStore := postgres.NewContentStore(db)
	syncStateStore := postgres.NewSyncStateStore(db)

	normalizer := normalize.New(normalize.WithCategoryRules(normalize.RulesFromMap(cfg.Sync.Categories)))

	var runners []scheduler.Runner
	if cfg.Providers.Pexels.Enabled {
		src := pexels.New(pexels.Config{
			APIKey:       cfg.Providers.Pexels.APIKey,
			CollectionID: cfg.Providers.Pexels.CollectionID,
			Timeout:      cfg.Providers.Pexels.Timeout,
		}, logger)
		runners = append(runners, scheduler.Runner{
			Name:   src.ID(),
			Syncer: service.NewSyncService(src, contentStore, syncStateStore, pub, normalizer, logger, cfg.Sync.MaxItems),
		})
	}
	if cfg.Providers.YouTube.Enabled {
		src := youtube.New(youtube.Config{
			APIKey:     cfg.Providers.YouTube.APIKey,
			ChannelID:  cfg.Providers.YouTube.ChannelID,
			PlaylistID: cfg.Providers.YouTube.PlaylistID,
			Timeout:    cfg.Providers.YouTube.Timeout,
		}, logger)
		runners = append(runners, scheduler.Runner{
			Name:   src.ID(),
			Syncer: service.NewSyncService(src, contentStore, syncStateStore, pub, normalizer, logger, cfg.Sync.MaxItems),
		})
	}

	if len(runners) == 0 {
		logger.Error("no providers enabled, nothing to sync")
		os.Exit(1)
	}

	sched := scheduler.NewScheduler(runners, cfg.Sync.Interval, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting content syncer",
		"jobs", len(runners),
		"interval", cfg.Sync.Interval,
		"max_items", cfg.Sync.MaxItems,
		"once", *once,
	)

	if *once {
		sched.RunAll(ctx)
		return
	}

	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
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
