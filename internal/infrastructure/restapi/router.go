package restapi

import (
	"net/http"

	"yolodash/internal/app/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RouterOptions configures SetupRouter.
type RouterOptions struct {
	AllowOrigins []string
	// StaticDir is served under /static when set.
	StaticDir string
	// MetricsPath exposes Prometheus metrics when set.
	MetricsPath string
	// ActionLimiter rate-limits action endpoints when set.
	ActionLimiter *rate.Limiter
}

// SetupRouter builds the gin engine serving the dashboard.
func SetupRouter(handler *DashboardHandler, opts RouterOptions, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ZapLoggerMiddleware(logger.Named("http")))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = opts.AllowOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	router.SetHTMLTemplate(PageTemplate)

	router.GET("/", handler.GetPageHandler)
	router.GET("/fragment", handler.GetFragmentHandler)
	router.GET("/events", handler.GetEventsHandler)
	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := router.Group("/api/v1")
	{
		v1.GET("/state", handler.GetStateHandler)
	}

	actions := router.Group("/actions")
	if opts.ActionLimiter != nil {
		actions.Use(RateLimitMiddleware(opts.ActionLimiter))
	}
	{
		for _, action := range view.Actions {
			actions.POST("/"+string(action), handler.PostActionHandler(action))
		}
		actions.POST("/section", handler.PostSectionHandler)
		actions.POST("/refresh-all", handler.PostRefreshAllHandler)
	}

	if opts.StaticDir != "" {
		router.Static("/static", opts.StaticDir)
	}
	if opts.MetricsPath != "" {
		router.GET(opts.MetricsPath, gin.WrapH(promhttp.Handler()))
	}
	return router
}
