// @title           Sprint Board API
// @version         1.0
// @description     스프린트 보드 관리 API (work item, epic, sprint 라이프사이클)
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.wealist.co.kr/support
// @contact.email  support@wealist.co.kr

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	_ "sprint-board-api/docs" // Swagger docs import

	"sprint-board-api/internal/client"
	"sprint-board-api/internal/config"
	"sprint-board-api/internal/database"
	"sprint-board-api/internal/job"
	"sprint-board-api/internal/metrics"
	"sprint-board-api/internal/notify"
	"sprint-board-api/internal/persistence"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/router"
	"sprint-board-api/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Sprint Board API",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("db_driver", cfg.Database.Driver),
	)

	m := metrics.NewWithLogger(logger)

	db := openDatabase(cfg, logger)
	database.RegisterMetricsCallbacks(db, m)
	if cfg.Database.AutoMigrate {
		if err := database.SafeAutoMigrate(db, logger); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = database.NewRedis(cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis unavailable, realtime events and shared spotlight disabled", zap.Error(err))
			redisClient = nil
		}
	}

	// Change notification sinks
	var dispatchers notify.MultiDispatcher
	if redisClient != nil {
		dispatchers = append(dispatchers, notify.NewRedisPublisher(redisClient, cfg.Notification.Channel, logger, m))
	}
	var serviceDispatcher *notify.ServiceDispatcher
	if cfg.Notification.ServiceURL != "" {
		notificationClient := client.NewNotificationClient(
			cfg.Notification.ServiceURL,
			cfg.Notification.InternalAPIKey,
			cfg.Notification.Timeout,
			logger,
			m,
		)
		serviceDispatcher = notify.NewServiceDispatcher(notificationClient, cfg.Notification.CoalesceWindow, cfg.Notification.Timeout, logger, m)
		dispatchers = append(dispatchers, serviceDispatcher)
		logger.Info("Notification service dispatcher enabled",
			zap.String("url", cfg.Notification.ServiceURL),
			zap.Duration("coalesce_window", cfg.Notification.CoalesceWindow),
		)
	}

	snapshotStore := newSnapshotStore(cfg, db, logger)

	loc := cfg.Scheduler.Location()
	clock := service.Clock(func() time.Time { return time.Now().In(loc) })

	r := router.Setup(router.Config{
		DB:            db,
		Logger:        logger,
		JWTSecret:     cfg.JWT.Secret,
		BasePath:      cfg.Server.BasePath,
		Metrics:       m,
		Redis:         redisClient,
		Dispatcher:    dispatchers,
		SnapshotStore: snapshotStore,
		Clock:         clock,
		WIPLimit:      cfg.Workflow.WIPLimit,
		UndoWindow:    cfg.Workflow.UndoWindow,
		ReauthWindow:  cfg.Auth.ReauthWindow,
	})

	collector := metrics.NewBusinessMetricsCollector(db, m, logger, time.Minute)
	collector.Start()

	var scheduler *job.Scheduler
	if cfg.Scheduler.Enabled {
		sprintService := service.NewSprintService(
			repository.NewRepositories(db),
			repository.NewTransactor(db),
			cfg.Workflow.UndoWindow,
			clock,
			m,
			logger,
		)
		tickJob := job.NewSprintTickJob(sprintService, 30*time.Second, logger)
		scheduler = job.NewScheduler(loc, logger)
		if err := scheduler.Add("sprint-tick", cfg.Scheduler.TickSpec, tickJob); err != nil {
			logger.Fatal("Failed to schedule sprint tick", zap.Error(err))
		}
		// catch up on anything that came due while the service was down
		go tickJob.Run()
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("Sprint Board API started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(ctx)
	}
	collector.Stop()
	if serviceDispatcher != nil {
		serviceDispatcher.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := database.Close(db); err != nil {
		logger.Warn("Failed to close database", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func openDatabase(cfg *config.Config, logger *zap.Logger) *gorm.DB {
	dbConfig := database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err == nil {
		logger.Info("Database connected successfully")
		return db
	}

	logger.Warn("Failed to connect to database on startup, retrying", zap.Error(err))
	db, err = database.NewWithRetry(context.Background(), dbConfig, 12, 5*time.Second, logger)
	if err != nil {
		logger.Fatal("Database unavailable", zap.Error(err))
	}
	return db
}

// newSnapshotStore keeps snapshots in the database and mirrors them to S3
// when a bucket is configured
func newSnapshotStore(cfg *config.Config, db *gorm.DB, logger *zap.Logger) persistence.Store {
	primary := persistence.NewGormStore(db)
	if !cfg.S3.Enabled() {
		return primary
	}

	s3Client, err := client.NewS3Client(&cfg.S3)
	if err != nil {
		logger.Warn("Failed to initialize S3 client, snapshots stay in the database only", zap.Error(err))
		return primary
	}
	logger.Info("S3 snapshot mirror enabled",
		zap.String("bucket", cfg.S3.Bucket),
		zap.String("region", cfg.S3.Region),
	)
	return persistence.MirrorStore{
		Primary:   primary,
		Secondary: persistence.NewS3Store(s3Client),
		Logger:    logger,
	}
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
