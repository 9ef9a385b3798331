package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hr-triage-service/internal/api/http"
	"github.com/spec-kit/hr-triage-service/internal/api/http/handlers"
	"github.com/spec-kit/hr-triage-service/internal/auth"
	"github.com/spec-kit/hr-triage-service/internal/classifier"
	"github.com/spec-kit/hr-triage-service/internal/config"
	"github.com/spec-kit/hr-triage-service/internal/events"
	"github.com/spec-kit/hr-triage-service/internal/notifier"
	"github.com/spec-kit/hr-triage-service/internal/observability"
	"github.com/spec-kit/hr-triage-service/internal/persistence"
	"github.com/spec-kit/hr-triage-service/internal/repository"
	"github.com/spec-kit/hr-triage-service/internal/service"
	"github.com/spec-kit/hr-triage-service/internal/worker"
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

	metrics := observability.NewMetrics()
	var checks []handlers.DependencyCheck

	var redis *persistence.Redis
	if cfg.Storage.Lock == config.StorageLockRedis {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		checks = append(checks, handlers.DependencyCheck{Name: "redis", Ping: redis.Ping})
	}

	var ticketRepo repository.TicketRepository
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		ticketRepo = repository.NewPostgresTicketRepository(pg.PoolHandle())
		checks = append(checks, handlers.DependencyCheck{Name: "postgres", Ping: pg.Ping})
	default:
		var locker persistence.Locker = persistence.NewMutexLocker()
		if redis != nil {
			locker = persistence.NewRedisLocker(redis, cfg.Redis.LockKey, cfg.Storage.LockTTL(), logger)
		}
		file := persistence.NewJSONFile(cfg.Storage.TicketsFile)
		ticketRepo = repository.NewJSONTicketRepository(file, locker)
		logger.Info("using json ticket store", zap.String("path", file.Path()), zap.String("lock", cfg.Storage.Lock))
	}
	checks = append([]handlers.DependencyCheck{{Name: "storage", Ping: ticketRepo.Ping}}, checks...)

	dispatcher := events.NewInMemoryDispatcher()
	classifierClient := classifier.NewClient(cfg.Classifier, logger, metrics)
	webhook := notifier.NewWebhook(cfg.Notification, logger, metrics)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	triageService := service.NewTriageService(service.TriageDependencies{
		TicketRepo: ticketRepo,
		Classifier: classifierClient,
		Notifier:   webhook,
		Logger:     logger,
	})

	pool := worker.NewPool(cfg.Worker.PoolSize, cfg.Worker.QueueSize, logger, metrics)
	worker.StartClassificationWorker(dispatcher, pool, triageService, logger)
	worker.StartAuditWorker(dispatcher, logger)

	var tokens *auth.TokenManager
	if cfg.Auth.JWTSecret != "" {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	}
	authMiddleware := auth.NewAuthMiddleware(cfg.Auth, tokens)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, webhook.URL(), classifierClient, checks...),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	if webhook.URL() == "" {
		logger.Warn("N8N_WEBHOOK_URL not set; tickets will not be forwarded")
	}
	if cfg.Classifier.APIToken == "" {
		logger.Warn("HUGGINGFACE_API_TOKEN not set; classification requests may be rejected")
	}

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.Worker.ShutdownGrace())
	defer drainCancel()
	if err := pool.Shutdown(drainCtx); err != nil {
		logger.Warn("background jobs abandoned", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
