package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ticket-flow/internal/api/http"
	"github.com/spec-kit/ticket-flow/internal/api/http/handlers"
	"github.com/spec-kit/ticket-flow/internal/config"
	"github.com/spec-kit/ticket-flow/internal/events"
	"github.com/spec-kit/ticket-flow/internal/observability"
	"github.com/spec-kit/ticket-flow/internal/persistence"
	"github.com/spec-kit/ticket-flow/internal/search"
	"github.com/spec-kit/ticket-flow/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	snapshots := persistence.NewSnapshotStore(cfg.Redis, cfg.Snapshot, logger)
	defer snapshots.Close()

	archive := persistence.NewActivityLogArchive(pg.PoolHandle())

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	tickets := store.NewTicketStore(dispatcher, archive)
	registries := store.Registries{
		Tickets:     tickets,
		Categories:  store.NewCategoryStore(dispatcher),
		Priorities:  store.NewPriorityStore(dispatcher),
		Users:       store.NewUserStore(dispatcher),
		Permissions: store.NewPermissionStore(dispatcher),
	}

	history := search.NewHistory(cfg.Search.HistorySize)
	engine := search.NewEngine(tickets, history)

	persister := persistence.NewPersister(snapshots, registries, history, logger)
	persister.RestoreAll(ctx)
	persister.Watch(dispatcher)

	store.SeedReferenceData(ctx, registries)
	if cfg.Seed.SampleTickets {
		store.SeedSampleTickets(ctx, tickets)
	}
	tickets.RecordSystemEvent(ctx, "service started")

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	timeout := time.Duration(cfg.App.RequestTimeoutSeconds) * time.Second
	httptransport.RegisterMiddlewares(app, logger, metrics, timeout)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:      handlers.NewHealthHandler(snapshots, pg),
		Tickets:     handlers.NewTicketsHandler(tickets),
		Board:       handlers.NewBoardHandler(tickets),
		Search:      handlers.NewSearchHandler(engine, tickets),
		Categories:  handlers.NewCategoriesHandler(registries.Categories),
		Priorities:  handlers.NewPrioritiesHandler(registries.Priorities),
		Users:       handlers.NewUsersHandler(registries.Users),
		Permissions: handlers.NewPermissionsHandler(registries.Permissions, registries.Users),
		Logs:        handlers.NewLogsHandler(tickets, archive),
		Metrics:     metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	persister.SaveAll(context.Background())
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
