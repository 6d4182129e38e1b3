package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/lesson-planner-api/api/swagger"
	"github.com/noah-isme/lesson-planner-api/internal/handler"
	"github.com/noah-isme/lesson-planner-api/internal/models"
	"github.com/noah-isme/lesson-planner-api/internal/repository"
	"github.com/noah-isme/lesson-planner-api/internal/server"
	"github.com/noah-isme/lesson-planner-api/internal/service"
	"github.com/noah-isme/lesson-planner-api/pkg/cache"
	"github.com/noah-isme/lesson-planner-api/pkg/config"
	"github.com/noah-isme/lesson-planner-api/pkg/database"
	"github.com/noah-isme/lesson-planner-api/pkg/logger"
	"github.com/noah-isme/lesson-planner-api/pkg/storage"
)

// @title Lesson Planner API
// @version 1.0.0
// @description Single-session lesson planner: classes, periods, lesson plans and a week/month calendar.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	weekStart, err := models.ParseWeekStart(cfg.Calendar.WeekStart)
	if err != nil {
		return err
	}
	defaultView, err := models.ParseViewMode(cfg.Calendar.DefaultView)
	if err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Snapshot.Backend == config.SnapshotBackendRedis || cfg.Dashboard.CacheEnabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	snapshots, closeSnapshots, err := openSnapshots(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeSnapshots()

	metrics := service.NewMetricsService()
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)

	workspaceOpts := []service.WorkspaceOption{
		service.WithWorkspaceCache(cacheSvc),
		service.WithWorkspaceMetrics(metrics),
	}
	var backups *service.BackupService
	if cfg.Backup.Dir != "" {
		local, err := storage.NewLocalStorage(cfg.Backup.Dir)
		if err != nil {
			return err
		}
		backups = service.NewBackupService(local, service.BackupServiceConfig{
			Retain:     cfg.Backup.Retain,
			MaxRetries: cfg.Backup.MaxRetries,
			RetryDelay: cfg.Backup.RetryDelay,
		}, logr)
		backups.Start(ctx)
		defer backups.Stop()
		workspaceOpts = append(workspaceOpts, service.WithWorkspaceBackups(backups))
	}

	workspace := service.NewWorkspaceService(repository.NewPlannerStore(), snapshots, cfg.Snapshot.Key, logr, workspaceOpts...)
	if err := workspace.Load(ctx); err != nil {
		return err
	}

	validate := validator.New()
	queries := service.NewQueryService(workspace.Store())
	classes := service.NewClassService(workspace, validate, logr)
	periods := service.NewPeriodService(workspace, queries, validate, logr)
	lessons := service.NewLessonService(workspace, queries, validate, logr)
	calendar := service.NewCalendarService(queries, service.CalendarServiceConfig{WeekStart: weekStart, DefaultView: defaultView}, logr)
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Workspace: workspace,
		Queries:   queries,
		Cache:     cacheSvc,
		Logger:    logr,
		Config:    service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL, WeekStart: weekStart},
	})
	exports := service.NewExportService(workspace, lessons, queries, logr)
	auth, err := service.NewAuthService(validate, logr, service.AuthConfig{
		Password:          cfg.Gate.Password,
		AccessTokenSecret: cfg.Gate.JWTSecret,
		AccessTokenExpiry: cfg.Gate.Expiration,
	})
	if err != nil {
		return err
	}

	router := server.NewRouter(server.RouterConfig{
		Env:            cfg.Env,
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logr, metrics, auth, server.Handlers{
		Auth:      handler.NewAuthHandler(auth),
		Classes:   handler.NewClassHandler(classes),
		Periods:   handler.NewPeriodHandler(periods),
		Lessons:   handler.NewLessonHandler(lessons),
		Calendar:  handler.NewCalendarHandler(calendar),
		Dashboard: handler.NewDashboardHandler(dashboard),
		Export:    handler.NewExportHandler(exports),
		Backups:   backupHandler(backups, exports, storage.NewLinkSigner(cfg.Gate.JWTSecret, cfg.Backup.LinkTTL)),
		Metrics:   handler.NewMetricsHandler(metrics, workspace.Store()),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("snapshot_backend", cfg.Snapshot.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// backupHandler keeps a nil *BackupService out of the handler's interface field.
func backupHandler(backups *service.BackupService, exports *service.ExportService, links *storage.LinkSigner) *handler.BackupHandler {
	if backups == nil {
		return handler.NewBackupHandler(nil, exports)
	}
	return handler.NewBackupHandler(backups, exports).WithDownloadLinks(links)
}

// openSnapshots selects the snapshot backend. The returned func releases it.
func openSnapshots(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (service.SnapshotRepository, func(), error) {
	noop := func() {}
	switch cfg.Snapshot.Backend {
	case "", config.SnapshotBackendMemory:
		return repository.NewMemorySnapshotRepository(), noop, nil
	case config.SnapshotBackendFile:
		local, err := storage.NewLocalStorage(cfg.Snapshot.Dir)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewFileSnapshotRepository(local), noop, nil
	case config.SnapshotBackendRedis:
		return repository.NewRedisSnapshotRepository(redisClient), noop, nil
	case config.SnapshotBackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewPostgresSnapshotRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	}
	return nil, noop, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
}
