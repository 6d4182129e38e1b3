package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/lesson-planner-api/internal/handler"
	"github.com/noah-isme/lesson-planner-api/internal/middleware"
	"github.com/noah-isme/lesson-planner-api/pkg/config"
	"github.com/noah-isme/lesson-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/lesson-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/lesson-planner-api/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Classes   *handler.ClassHandler
	Periods   *handler.PeriodHandler
	Lessons   *handler.LessonHandler
	Calendar  *handler.CalendarHandler
	Dashboard *handler.DashboardHandler
	Export    *handler.ExportHandler
	Backups   *handler.BackupHandler
	Metrics   *handler.MetricsHandler
}

// RouterConfig carries the settings the router needs from the app config.
type RouterConfig struct {
	Env            string
	APIPrefix      string
	AllowedOrigins []string
}

// NewRouter builds the gin engine. Every planner route sits behind the session gate;
// login, probes, metrics and docs do not.
func NewRouter(cfg RouterConfig, logr *zap.Logger, observer middleware.RequestObserver, gate middleware.TokenValidator, h Handlers) *gin.Engine {
	if logr == nil {
		logr = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(middleware.Metrics(observer))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found", "status": http.StatusNotFound}})
	})

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = "/api/v1"
	}
	api := r.Group(prefix)
	api.Use(middleware.ResponseMeta())
	api.POST("/auth/login", h.Auth.Login)
	if h.Backups.LinksEnabled() {
		api.GET("/backups/download", h.Backups.Download)
	}

	planner := api.Group("")
	planner.Use(middleware.JWT(gate))
	{
		planner.GET("/auth/session", h.Auth.Session)

		planner.GET("/classes", h.Classes.List)
		planner.POST("/classes", h.Classes.Create)
		planner.GET("/classes/:id", h.Classes.Get)
		planner.PATCH("/classes/:id", h.Classes.Update)
		planner.DELETE("/classes/:id", h.Classes.Delete)

		planner.GET("/periods", h.Periods.List)
		planner.POST("/periods", h.Periods.Create)
		planner.GET("/periods/:id", h.Periods.Get)
		planner.PATCH("/periods/:id", h.Periods.Update)
		planner.DELETE("/periods/:id", h.Periods.Delete)

		planner.GET("/lessons", h.Lessons.List)
		planner.POST("/lessons", h.Lessons.Create)
		planner.GET("/lessons/recent", h.Lessons.Recent)
		planner.GET("/lessons/:id", h.Lessons.Get)
		planner.PATCH("/lessons/:id", h.Lessons.Update)
		planner.DELETE("/lessons/:id", h.Lessons.Delete)
		planner.POST("/lessons/:id/duplicate", h.Lessons.Duplicate)

		planner.GET("/calendar", h.Calendar.Get)
		planner.POST("/calendar/navigate", h.Calendar.Navigate)
		planner.POST("/calendar/today", h.Calendar.Today)
		planner.PUT("/calendar/view", h.Calendar.SetView)
		planner.POST("/calendar/select", h.Calendar.Select)

		planner.GET("/dashboard", h.Dashboard.Summary)

		planner.GET("/export", h.Export.Export)
		planner.POST("/import", h.Export.Import)

		if h.Backups != nil {
			planner.GET("/backups", h.Backups.List)
			planner.POST("/backups/:name/restore", h.Backups.Restore)
			if h.Backups.LinksEnabled() {
				planner.POST("/backups/:name/link", h.Backups.Link)
			}
		}
	}
	return r
}
