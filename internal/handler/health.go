package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/locallibrary/internal/repository"
)

const readyTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness probes as JSON.
type HealthHandler struct {
	store     repository.Pinger
	driver    string
	startTime time.Time
	version   string
}

func NewHealthHandler(store repository.Pinger, driver string, startTime time.Time, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		driver:    driver,
		startTime: startTime,
		version:   version,
	}
}

func (h *HealthHandler) RegisterRoutes(e *gin.Engine) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.status("ok"))
}

// Ready reports 503 while the store does not answer a ping.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	store := gin.H{"driver": h.driver, "status": "up"}

	if err := h.store.Ping(ctx); err != nil {
		store["status"] = "down"
		store["error"] = err.Error()

		body := h.status("unhealthy")
		body["store"] = store
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	body := h.status("ready")
	body["store"] = store
	c.JSON(http.StatusOK, body)
}

func (h *HealthHandler) status(s string) gin.H {
	return gin.H{
		"status":  s,
		"version": h.version,
		"uptime":  int64(time.Since(h.startTime).Seconds()),
	}
}
