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

	httptransport "github.com/spec-kit/task-manager/internal/api/http"
	"github.com/spec-kit/task-manager/internal/api/http/handlers"
	"github.com/spec-kit/task-manager/internal/auth"
	"github.com/spec-kit/task-manager/internal/config"
	"github.com/spec-kit/task-manager/internal/events"
	"github.com/spec-kit/task-manager/internal/lock"
	"github.com/spec-kit/task-manager/internal/observability"
	"github.com/spec-kit/task-manager/internal/persistence"
	"github.com/spec-kit/task-manager/internal/repository"
	"github.com/spec-kit/task-manager/internal/service"
	"github.com/spec-kit/task-manager/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.RunMigrations {
		migrator, err := persistence.NewMigrator(cfg.Postgres.DSN, logger)
		if err != nil {
			logger.Fatal("failed to configure migrations", zap.Error(err))
		}
		if err := migrator.Up(ctx); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	readiness := map[string]handlers.Pinger{"postgres": pg}

	var locker lock.Locker
	switch cfg.Reassign.LockBackend {
	case config.LockBackendMemory:
		locker = lock.NewMemoryLocker()
	default:
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		readiness["redis"] = redis
		locker = lock.NewRedisLocker(redis.Client, cfg.Reassign.LockTTL(), logger)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(func(event events.Event, err error) {
		logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	})

	notifications := worker.NewNotificationWorker(
		service.NewNotificationService(logger, cfg.Notification),
		logger,
		0,
	)
	notifications.Subscribe(dispatcher)
	notifications.Start(ctx)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	activityRepo := repository.NewActivityLogRepository(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{UserRepo: userRepo})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	teamService := service.NewTeamService(service.TeamDependencies{TeamRepo: teamRepo, Logger: logger})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: projectRepo,
		TeamRepo:    teamRepo,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:    taskRepo,
		ProjectRepo: projectRepo,
		TeamRepo:    teamRepo,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	reassignService := service.NewReassignmentService(service.ReassignmentDependencies{
		ProjectRepo: projectRepo,
		TeamRepo:    teamRepo,
		TaskRepo:    taskRepo,
		Locker:      locker,
		Dispatcher:  dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	activityService := service.NewActivityService(service.ActivityDependencies{
		ActivityRepo: activityRepo,
		ProjectRepo:  projectRepo,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		ProjectRepo:  projectRepo,
		TaskRepo:     taskRepo,
		TeamRepo:     teamRepo,
		ActivityRepo: activityRepo,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:      cfg.App.RequestTimeout(),
		AllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Tasks:          handlers.NewTasksHandler(taskService, reassignService),
		Activity:       handlers.NewActivityHandler(activityService, dashboardService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	notifications.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
