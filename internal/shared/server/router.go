package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aquabov-backend/internal/chat"
	"aquabov-backend/internal/predictions"
	"aquabov-backend/internal/services/health"
	"aquabov-backend/internal/shared/config"
	"aquabov-backend/internal/shared/metrics"
	"aquabov-backend/internal/shared/server/middleware"
	"aquabov-backend/internal/shared/server/respond"
)

// RouterDeps holds the handlers mounted by NewRouter.
type RouterDeps struct {
	Config            config.Config
	Health            *health.Service
	PredictionHandler *predictions.Handler
	ChatHandler       *chat.Handler
	RateLimiter       *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = 16 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    middleware.DefaultRules(),
			GroupFor: middleware.GroupForRoute,
			Limiter:  deps.RateLimiter,
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})
	api.GET("/metrics", metrics.Handler())
	if deps.PredictionHandler != nil {
		deps.PredictionHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
