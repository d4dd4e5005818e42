package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// InvocationSource reports the most recent processor invocation.
type InvocationSource interface {
	LastInvocation() (outcome string, at time.Time)
}

// HealthHandler reports the server's own liveness and how the last weather
// invocation ended. A failed last invocation marks the pipeline degraded but
// the server itself still answers 200.
type HealthHandler struct {
	version     string
	startTime   time.Time
	invocations InvocationSource
}

func NewHealthHandler(version string, invocations InvocationSource) *HealthHandler {
	return &HealthHandler{
		version:     version,
		startTime:   time.Now(),
		invocations: invocations,
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.invocations != nil {
		if outcome, at := h.invocations.LastInvocation(); outcome != "" {
			resp.LastOutcome = outcome
			resp.LastInvocation = at.UTC().Format(time.RFC3339)
			if outcome != "success" {
				resp.Status = "degraded"
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
