package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Checker is one dependency's health probe.
type Checker struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version  string
	startAt  time.Time
	checkers []Checker
}

// NewHealthHandler builds the probe handler over the given dependency
// checks.
func NewHealthHandler(version string, checkers ...Checker) *HealthHandler {
	return &HealthHandler{version: version, startAt: time.Now(), checkers: checkers}
}

// Liveness always succeeds while the process runs.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startAt).Round(time.Second).String(),
	})
}

// Readiness fails when any dependency check fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := gin.H{}
	ready := true
	for _, chk := range h.checkers {
		started := time.Now()
		if err := chk.Check(ctx); err != nil {
			ready = false
			components[chk.Name] = gin.H{"status": "down", "error": err.Error()}
			continue
		}
		components[chk.Name] = gin.H{
			"status":  "up",
			"latency": time.Since(started).Round(time.Millisecond).String(),
		}
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "components": components})
}
