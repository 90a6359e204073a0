package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gobez-backend/internal/aicontent"
	"gobez-backend/internal/chat"
	"gobez-backend/internal/shared/config"
	"gobez-backend/internal/shared/metrics"
	"gobez-backend/internal/shared/server/middleware"
	"gobez-backend/internal/shared/server/respond"
	"gobez-backend/internal/uploads"
)

// Rate limit groups. Status polling runs hotter than everything else.
const (
	rateGroupDefault = "DEFAULT"
	rateGroupPolling = "POLLING"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	UploadsHandler  *uploads.Handler
	ContentsHandler *aicontent.Handler
	ChatHandler     *chat.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Registered before the middleware chain so scrapes skip auth.
	r.GET("/metrics", metrics.Handler())

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
	)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: rateGroupDefault,
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/uploads/:id" {
				return rateGroupPolling
			}
			return rateGroupDefault
		},
		Limiter: middleware.NewRateLimiter(time.Now),
		Rules: map[string]middleware.RateLimitRule{
			rateGroupDefault: {Rate: 5, Burst: 20},
			rateGroupPolling: {Rate: 20, Burst: 60},
		},
	}))

	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	if deps.UploadsHandler != nil {
		deps.UploadsHandler.RegisterRoutes(api)
	}
	if deps.ContentsHandler != nil {
		deps.ContentsHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}

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
