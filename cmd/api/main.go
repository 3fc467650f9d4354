package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/user-account-service/internal/api/http"
	"github.com/spec-kit/user-account-service/internal/api/http/handlers"
	"github.com/spec-kit/user-account-service/internal/auth"
	"github.com/spec-kit/user-account-service/internal/config"
	"github.com/spec-kit/user-account-service/internal/events"
	"github.com/spec-kit/user-account-service/internal/observability"
	"github.com/spec-kit/user-account-service/internal/persistence"
	"github.com/spec-kit/user-account-service/internal/repository"
	"github.com/spec-kit/user-account-service/internal/service"
	"github.com/spec-kit/user-account-service/internal/worker"
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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)

	if err := service.SeedDefaultUsers(ctx, userRepo, cfg.Seed, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to seed default users", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	auditService := service.NewAuditService(dispatcher, auditRepo, logger)
	worker.StartAuditWorker(auditService)

	throttle := auth.NewLoginThrottle(redis.Client, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginAttemptWindow(), logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
		Throttle:   throttle,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo, dispatcher, logger)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, logger)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.CORS, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService, metrics)
	usersHandler := handlers.NewUsersHandler(userService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Users:          usersHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	auditService.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
