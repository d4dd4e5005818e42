package handlers

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-processor/internal/server/middlewares"
)

// HTTPMetricsSource provides the request metrics collected by the middleware.
type HTTPMetricsSource interface {
	Snapshot() middlewares.HTTPSnapshot
}

// AppMetrics counts processor invocations by outcome.
type AppMetrics struct {
	mutex       sync.RWMutex
	invocations map[string]int64
	lastOutcome string
	lastAt      time.Time
}

type MetricsHandler struct {
	http       HTTPMetricsSource
	appMetrics *AppMetrics
}

func NewMetricsHandler(source HTTPMetricsSource) *MetricsHandler {
	return &MetricsHandler{
		http: source,
		appMetrics: &AppMetrics{
			invocations: make(map[string]int64),
		},
	}
}

// RecordInvocation records one processor invocation
func (h *MetricsHandler) RecordInvocation(ctx context.Context, outcome string) {
	h.appMetrics.mutex.Lock()
	h.appMetrics.invocations[outcome]++
	h.appMetrics.lastOutcome = outcome
	h.appMetrics.lastAt = time.Now()
	h.appMetrics.mutex.Unlock()
}

// LastInvocation returns the outcome and time of the latest invocation, or an
// empty outcome when none has run yet.
func (h *MetricsHandler) LastInvocation() (string, time.Time) {
	h.appMetrics.mutex.RLock()
	defer h.appMetrics.mutex.RUnlock()
	return h.appMetrics.lastOutcome, h.appMetrics.lastAt
}

// ServeMetrics exposes metrics in Prometheus text format
func (h *MetricsHandler) ServeMetrics(c *gin.Context) {
	var b strings.Builder

	if h.http != nil {
		snap := h.http.Snapshot()

		b.WriteString("# HELP http_requests_total Total number of HTTP requests\n")
		b.WriteString("# TYPE http_requests_total counter\n")
		for _, key := range sortedKeys(snap.RequestsTotal) {
			b.WriteString("http_requests_total{route_status=\"" + key + "\"} " + strconv.FormatInt(snap.RequestsTotal[key], 10) + "\n")
		}

		b.WriteString("\n# HELP http_request_duration_seconds_avg Average duration of HTTP requests\n")
		b.WriteString("# TYPE http_request_duration_seconds_avg gauge\n")
		b.WriteString("http_request_duration_seconds_avg " + strconv.FormatFloat(snap.AvgDuration, 'f', 6, 64) + "\n")

		b.WriteString("\n# HELP http_active_requests Number of active HTTP requests\n")
		b.WriteString("# TYPE http_active_requests gauge\n")
		b.WriteString("http_active_requests " + strconv.FormatInt(snap.ActiveRequests, 10) + "\n\n")
	}

	h.appMetrics.mutex.RLock()
	b.WriteString("# HELP processor_invocations_total Processor invocations by outcome\n")
	b.WriteString("# TYPE processor_invocations_total counter\n")
	for _, outcome := range sortedKeys(h.appMetrics.invocations) {
		b.WriteString("processor_invocations_total{outcome=\"" + outcome + "\"} " + strconv.FormatInt(h.appMetrics.invocations[outcome], 10) + "\n")
	}
	h.appMetrics.mutex.RUnlock()

	c.Header("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	c.String(200, b.String())
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
