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

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/imagehost"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// repositories groups the storage backends chosen at startup.
type repositories struct {
	tickets     repository.TicketRepository
	users       repository.UserRepository
	assignments repository.AssignmentRepository
	ratings     repository.RatingRepository
	sessions    repository.SessionStore
}

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildRepositories(cfg, pg, redis)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:     repos.users,
		SessionStore: repos.sessions,
		Logger:       logger,
	})
	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:     repos.tickets,
		AssignmentRepo: repos.assignments,
		RatingRepo:     repos.ratings,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	profileService := service.NewProfileService(service.ProfileDependencies{
		UserRepo:       repos.users,
		TicketRepo:     repos.tickets,
		AssignmentRepo: repos.assignments,
		AuthService:    authService,
		Uploader:       imagehost.NewClient(cfg.ImageHost, logger),
		MaxUploadBytes: cfg.ImageHost.MaxUploadBytes,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		TicketRepo:     repos.tickets,
		UserRepo:       repos.users,
		AssignmentRepo: repos.assignments,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})
	ratingService := service.NewRatingService(repos.tickets, repos.ratings, dispatcher, logger)
	dashboardService := service.NewDashboardService(lifecycleService, logger)

	reminder := worker.NewClosureReminder(repos.tickets, dispatcher, logger, cfg.Reminder.Schedule)
	if err := reminder.Start(); err != nil {
		logger.Fatal("failed to start closure reminder", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.ImageHost.MaxUploadBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Users:          handlers.NewUsersHandler(authService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Tickets:        handlers.NewTicketsHandler(lifecycleService, ratingService),
		Profile:        handlers.NewProfileHandler(profileService, cfg.ImageHost.MaxUploadBytes),
		Staff:          handlers.NewStaffTicketsHandler(lifecycleService),
		Admin:          handlers.NewAdminHandler(assignmentService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), authService.SessionStore()),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	reminder.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

// buildRepositories uses Postgres and Redis when configured and the in-memory
// store for whichever is missing.
func buildRepositories(cfg *config.Config, pg *persistence.Postgres, redis *persistence.Redis) repositories {
	store := memory.NewStore()
	repos := repositories{
		tickets:     store.Tickets(),
		users:       store.Users(),
		assignments: store.Assignments(),
		ratings:     store.Ratings(),
		sessions:    store.Sessions(),
	}
	if pg.Configured() {
		pool := pg.PoolHandle()
		repos.tickets = repository.NewTicketRepository(pool)
		repos.users = repository.NewUserRepository(pool)
		repos.assignments = repository.NewAssignmentRepository(pool)
		repos.ratings = repository.NewRatingRepository(pool)
	}
	if redis.Configured() {
		repos.sessions = repository.NewRedisSessionStore(redis.Client, cfg.Redis.SessionPrefix)
	}
	return repos
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
