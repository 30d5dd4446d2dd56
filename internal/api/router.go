package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/lalith-99/eventboard/internal/middleware"
)

type RouterConfig struct {
	ServiceName string
	CORSOrigins []string
	ShareSecret string
	// Health, when set, is consulted by GET /health.
	Health func(ctx context.Context) error
}

type Handlers struct {
	Guests    *GuestHandler
	Tables    *TableHandler
	Reminders *ReminderHandler
	Import    *ImportHandler
	Share     *ShareHandler
	// Live serves the websocket change feed. Nil leaves /api/live unrouted.
	Live http.Handler
}

func NewRouter(cfg RouterConfig, h Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(logger),
		gin.Recovery(),
		otelgin.Middleware(cfg.ServiceName),
		corsMiddleware(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		guests := api.Group("/guests")
		guests.POST("/import", h.Import.Import)
		guests.GET("/export", h.Guests.Export)
		guests.GET("", h.Guests.List)
		guests.GET("/:id", h.Guests.Get)
		guests.POST("", h.Guests.Create)
		guests.PATCH("/:id", h.Guests.Update)
		guests.DELETE("/:id", h.Guests.Delete)

		tables := api.Group("/tables")
		tables.GET("", h.Tables.List)
		tables.GET("/:id", h.Tables.Get)
		tables.POST("", h.Tables.Create)
		tables.PATCH("/:id", h.Tables.Update)
		tables.DELETE("/:id", h.Tables.Delete)

		reminders := api.Group("/reminders")
		reminders.GET("", h.Reminders.List)
		reminders.POST("", h.Reminders.Create)
		reminders.DELETE("/:id", h.Reminders.Delete)

		api.POST("/share", h.Share.Create)

		shared := api.Group("/shared")
		shared.Use(middleware.ShareToken(cfg.ShareSecret))
		shared.GET("/overview", h.Share.Overview)

		if h.Live != nil {
			api.GET("/live", gin.WrapH(h.Live))
		}
	}

	return r
}

// corsMiddleware allows the listed origins. A "*" entry, or no entry at
// all, allows any origin without credentials.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			break
		}
	}
	if !cfg.AllowAllOrigins {
		if len(origins) == 0 {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
		} else {
			cfg.AllowOrigins = origins
		}
	}
	return cors.New(cfg)
}
