package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	userhandler "user_backend/internal/feature/user/transport/handler"
	"user_backend/internal/platform/config"
	"user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/http/middleware"
	"user_backend/internal/platform/ratelimit"
)

// Options holds the cross-cutting settings applied to the router.
type Options struct {
	// AllowedOrigins lists CORS origins. "*" allows any origin without credentials.
	// Empty means config.DefaultAllowedOrigins.
	AllowedOrigins []string
	// RateLimiter is applied to the /api/v1 group. Nil disables it.
	RateLimiter *ratelimit.Limiter
}

func NewRouter(users *userhandler.UserHandler, status *handler.StatusHandler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), cors.New(corsConfig(opts.AllowedOrigins)))

	// Health, readiness and service information
	r.GET("/", status.Info)
	r.GET("/status", status.Status)
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	r.OPTIONS("/healthz", handler.Health)
	r.GET("/readyz", status.Readiness)

	v1 := r.Group("/api/v1")
	if opts.RateLimiter != nil {
		v1.Use(opts.RateLimiter.Middleware())
	}
	{
		v1.GET("/health", users.Health)

		v1.POST("/users", users.CreateUser)
		v1.GET("/users", users.ListUsers)
		v1.GET("/users/:id", users.GetUser)
		v1.PUT("/users/:id", users.UpdateUser)
		v1.DELETE("/users/:id", users.DeleteUser)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        time.Hour,
	}
	if len(origins) == 0 {
		origins = config.DefaultAllowedOrigins
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
