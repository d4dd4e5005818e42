package middlewares

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-processor/pkg/telemetry"
	"go.uber.org/zap"
)

const maxDurations = 1000

// HTTPMetrics holds only HTTP request metrics
type HTTPMetrics struct {
	mutex            sync.RWMutex
	requestsTotal    map[string]int64
	requestDurations []float64
	activeRequests   int64
}

// HTTPSnapshot is a consistent copy of the HTTP metrics.
type HTTPSnapshot struct {
	RequestsTotal  map[string]int64
	AvgDuration    float64
	ActiveRequests int64
}

type MetricsMiddleware struct {
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics *HTTPMetrics
}

func NewMetricsMiddleware(logger *zap.Logger, tele *telemetry.Telemetry) *MetricsMiddleware {
	return &MetricsMiddleware{
		logger: logger,
		tele:   tele,
		metrics: &HTTPMetrics{
			requestsTotal:    make(map[string]int64),
			requestDurations: make([]float64, 0),
		},
	}
}

func (m *MetricsMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.metrics.mutex.Lock()
		m.metrics.activeRequests++
		m.metrics.mutex.Unlock()

		c.Next()

		duration := time.Since(start).Seconds()

		statusCode := strconv.Itoa(c.Writer.Status())
		route := c.FullPath()
		method := c.Request.Method
		key := method + " " + route + "_" + statusCode

		m.metrics.mutex.Lock()
		m.metrics.requestsTotal[key]++
		m.metrics.requestDurations = append(m.metrics.requestDurations, duration)
		m.metrics.activeRequests--

		if len(m.metrics.requestDurations) > maxDurations {
			m.metrics.requestDurations = m.metrics.requestDurations[len(m.metrics.requestDurations)-maxDurations:]
		}
		m.metrics.mutex.Unlock()

		if m.tele.IsEnabled() {
			m.logger.Debug("HTTP metrics recorded",
				zap.String("method", method),
				zap.String("route", route),
				zap.Int("status", c.Writer.Status()),
				zap.Float64("duration", duration))
		}
	}
}

// Snapshot copies the current HTTP metrics.
func (m *MetricsMiddleware) Snapshot() HTTPSnapshot {
	m.metrics.mutex.RLock()
	defer m.metrics.mutex.RUnlock()

	snap := HTTPSnapshot{
		RequestsTotal:  make(map[string]int64, len(m.metrics.requestsTotal)),
		ActiveRequests: m.metrics.activeRequests,
	}
	for k, v := range m.metrics.requestsTotal {
		snap.RequestsTotal[k] = v
	}

	if n := len(m.metrics.requestDurations); n > 0 {
		sum := 0.0
		for _, d := range m.metrics.requestDurations {
			sum += d
		}
		snap.AvgDuration = sum / float64(n)
	}

	return snap
}
