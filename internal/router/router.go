package router

import (
	"net/http"
	"time"

	commonmw "github.com/OrangesCloud/wealist-advanced-go-pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sprint-board-api/internal/domain"
	"sprint-board-api/internal/handler"
	"sprint-board-api/internal/metrics"
	"sprint-board-api/internal/middleware"
	"sprint-board-api/internal/notify"
	"sprint-board-api/internal/persistence"
	"sprint-board-api/internal/repository"
	"sprint-board-api/internal/service"
)

const spotlightTTL = 24 * time.Hour

// Config holds router configuration
type Config struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	JWTSecret string
	BasePath  string
	Metrics   *metrics.Metrics
	// Gatherer backs /metrics; nil means the default registry
	Gatherer prometheus.Gatherer

	Redis         *redis.Client
	Dispatcher    notify.Dispatcher
	SnapshotStore persistence.Store
	Clock         service.Clock

	WIPLimit     int
	UndoWindow   time.Duration
	ReauthWindow time.Duration
}

// Setup sets up the router with all routes
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(commonmw.Logger(cfg.Logger))
	r.Use(commonmw.DefaultCORS())
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "sprint-board-api"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if cfg.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": "sprint-board-api"})
			return
		}
		sqlDB, err := cfg.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "service": "sprint-board-api"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": "sprint-board-api"})
	})

	// Initialize repositories
	repos := repository.NewRepositories(cfg.DB)
	tx := repository.NewTransactor(cfg.DB)

	var spotlights service.SpotlightStore
	if cfg.Redis != nil {
		spotlights = service.NewRedisSpotlightStore(cfg.Redis, spotlightTTL)
	}
	store := cfg.SnapshotStore
	if store == nil {
		store = persistence.NewGormStore(cfg.DB)
	}

	// Initialize services
	boardService := service.NewBoardService(repos, cfg.Metrics, cfg.Logger)
	workItemService := service.NewWorkItemService(repos, spotlights, cfg.Dispatcher, cfg.Clock, cfg.Metrics, cfg.Logger)
	epicService := service.NewEpicService(repos, tx, cfg.UndoWindow, cfg.Clock, cfg.Metrics, cfg.Logger)
	sprintService := service.NewSprintService(repos, tx, cfg.UndoWindow, cfg.Clock, cfg.Metrics, cfg.Logger)
	reportService := service.NewReportService(repos, cfg.WIPLimit, cfg.Logger)
	snapshotService := service.NewSnapshotService(repos, tx, store, cfg.Clock, cfg.Logger)

	// Initialize handlers
	boardHandler := handler.NewBoardHandler(boardService)
	workItemHandler := handler.NewWorkItemHandler(workItemService)
	epicHandler := handler.NewEpicHandler(epicService)
	sprintHandler := handler.NewSprintHandler(sprintService)
	reportHandler := handler.NewReportHandler(reportService)
	snapshotHandler := handler.NewSnapshotHandler(snapshotService)

	api := r.Group(cfg.BasePath)
	api.Use(middleware.Auth(cfg.JWTSecret))

	reauth := middleware.RequireRecentAuth(cfg.ReauthWindow, nil)
	can := func(permission, resource, param string) gin.HandlerFunc {
		return middleware.RequirePermission(boardService, permission, resource, param)
	}

	// ============================================================
	// Board routes
	// ============================================================
	api.POST("/boards", boardHandler.CreateBoard)
	boards := api.Group("/boards/:boardId")
	{
		view := can(domain.PermissionBoardView, service.ResourceBoard, "boardId")
		edit := can(domain.PermissionItemEdit, service.ResourceBoard, "boardId")
		manageEpics := can(domain.PermissionEpicManage, service.ResourceBoard, "boardId")
		manageSprints := can(domain.PermissionSprintManage, service.ResourceBoard, "boardId")

		boards.GET("", view, boardHandler.GetBoard)
		boards.POST("/members", manageSprints, boardHandler.AddMember)

		boards.GET("/work-items", view, workItemHandler.ListWorkItems)
		boards.POST("/work-items", edit, workItemHandler.CreateWorkItem)
		boards.GET("/spotlight", view, workItemHandler.GetSpotlight)

		boards.GET("/epics", view, epicHandler.ListEpics)
		boards.POST("/epics", manageEpics, epicHandler.CreateEpic)

		boards.GET("/sprints", view, sprintHandler.ListSprints)
		boards.POST("/sprints", manageSprints, sprintHandler.CreateSprint)

		boards.GET("/reports/velocity", view, reportHandler.GetVelocity)
		boards.GET("/reports/workload", view, reportHandler.GetWorkload)
		boards.GET("/reports/epics", view, reportHandler.GetEpicProgress)

		boards.POST("/snapshot", manageSprints, snapshotHandler.ExportSnapshot)
		boards.POST("/snapshot/import", manageSprints, reauth, snapshotHandler.ImportSnapshot)
	}

	// ============================================================
	// Work item routes
	// ============================================================
	workItems := api.Group("/work-items/:id")
	{
		workItems.GET("", can(domain.PermissionBoardView, service.ResourceWorkItem, "id"), workItemHandler.GetWorkItem)
		edit := can(domain.PermissionItemEdit, service.ResourceWorkItem, "id")
		workItems.PUT("", edit, workItemHandler.UpdateWorkItem)
		workItems.PATCH("/status", edit, workItemHandler.ChangeStatus)
		workItems.POST("/comments", can(domain.PermissionBoardView, service.ResourceWorkItem, "id"), workItemHandler.AddComment)
	}

	// ============================================================
	// Epic routes
	// ============================================================
	epics := api.Group("/epics/:id")
	epics.Use(can(domain.PermissionEpicManage, service.ResourceEpic, "id"))
	{
		epics.PUT("", epicHandler.UpdateEpic)
		epics.PATCH("/status", middleware.MarkRecentAuth(cfg.ReauthWindow, nil), epicHandler.UpdateEpicStatus)
		epics.DELETE("", reauth, epicHandler.DeleteEpic)
		epics.POST("/restore", reauth, epicHandler.RestoreEpic)
	}

	// ============================================================
	// Sprint routes
	// ============================================================
	sprints := api.Group("/sprints/:id")
	{
		sprints.GET("/burndown", can(domain.PermissionBoardView, service.ResourceSprint, "id"), reportHandler.GetBurndown)
		manage := can(domain.PermissionSprintManage, service.ResourceSprint, "id")
		sprints.PUT("", manage, sprintHandler.UpdateSprint)
		sprints.DELETE("", manage, reauth, sprintHandler.DeleteSprint)
		sprints.POST("/restore", manage, reauth, sprintHandler.RestoreSprint)
	}

	return r
}
