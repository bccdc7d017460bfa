// Package handler provides the HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health handles /healthz. It answers every GET/HEAD/OPTIONS request and
// never consults dependencies; use Readiness for that.
func Health(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// CheckFunc checks one dependency. A nil error means it is ready.
type CheckFunc func(ctx context.Context) error

// ServiceInfo describes the running service for the / and /status endpoints.
type ServiceInfo struct {
	Name        string
	Version     string
	Description string
}

// StatusHandler serves the informational and readiness endpoints.
type StatusHandler struct {
	info         ServiceInfo
	checks       map[string]CheckFunc
	checkTimeout time.Duration
	now          func() time.Time
}

// NewStatusHandler creates a StatusHandler. checks are run by Readiness; nil entries are skipped.
func NewStatusHandler(info ServiceInfo, checks map[string]CheckFunc) *StatusHandler {
	return &StatusHandler{
		info:         info,
		checks:       checks,
		checkTimeout: 2 * time.Second,
		now:          time.Now,
	}
}

// Info handles GET / with basic API information.
func (h *StatusHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        h.info.Name,
		"version":     h.info.Version,
		"description": h.info.Description,
		"endpoints": gin.H{
			"users":  "/api/v1/users",
			"health": "/api/v1/health",
			"status": "/status",
			"ready":  "/readyz",
		},
		"status": "running",
	})
}

// Status handles GET /status.
func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "UP",
		"service":   h.info.Name,
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
}

// Readiness handles /readyz. It returns 503 when any dependency check fails.
func (h *StatusHandler) Readiness(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.checkTimeout)
	defer cancel()

	results := gin.H{}
	ready := true
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			ready = false
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": results})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": results})
}
