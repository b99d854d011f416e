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

	httptransport "github.com/pawhaven/adoption-service/internal/api/http"
	"github.com/pawhaven/adoption-service/internal/api/http/handlers"
	"github.com/pawhaven/adoption-service/internal/auth"
	"github.com/pawhaven/adoption-service/internal/cache"
	"github.com/pawhaven/adoption-service/internal/config"
	"github.com/pawhaven/adoption-service/internal/events"
	"github.com/pawhaven/adoption-service/internal/observability"
	"github.com/pawhaven/adoption-service/internal/persistence"
	"github.com/pawhaven/adoption-service/internal/repository"
	"github.com/pawhaven/adoption-service/internal/service"
	"github.com/pawhaven/adoption-service/internal/storage"
	"github.com/pawhaven/adoption-service/internal/worker"
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
	petRepo := repository.NewPetRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)

	fileStore := storage.NewDiskStore(cfg.Uploads.RootDir, cfg.Uploads.MaxFileBytes)
	listingCache := cache.NewListingCache(redis.Client, 30*time.Second, logger)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	userService := service.NewUserService(userRepo, petRepo)
	petService := service.NewPetService(service.PetDependencies{
		PetRepo:    petRepo,
		UserRepo:   userRepo,
		FileStore:  fileStore,
		Listings:   listingCache,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	applicationService := service.NewApplicationService(applicationRepo, petRepo, dispatcher, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Uploads.MaxFileBytes) * 12,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(pg, redis),
		Users:          handlers.NewUsersHandler(authService, userService, fileStore),
		Pets:           handlers.NewPetsHandler(petService, fileStore),
		Applications:   handlers.NewApplicationsHandler(applicationService),
		AuthMiddleware: authMiddleware,
		UploadsDir:     cfg.Uploads.RootDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
