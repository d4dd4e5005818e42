package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/forecast"
	"github.com/vzahanych/weather-processor/internal/processor"
	"github.com/vzahanych/weather-processor/internal/server/handlers"
	"github.com/vzahanych/weather-processor/internal/server/middlewares"
	"github.com/vzahanych/weather-processor/internal/store"
	"github.com/vzahanych/weather-processor/pkg/telemetry"
	"go.uber.org/zap/zaptest"
)

func newTestServer(t *testing.T, apiStatus int) (*Server, *store.MemoryClient) {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(apiStatus)
		fmt.Fprint(w, `{"elevation":34.0,"hourly":{"temperature_2m":[22.5],"time":["2025-03-22T12:00"]}}`)
	}))
	t.Cleanup(api.Close)

	logger := zaptest.NewLogger(t)
	tele := &telemetry.Telemetry{}
	client := store.NewMemoryClient()

	proc := processor.New(
		forecast.NewFetcher(api.URL, api.Client(), logger),
		store.NewRecordWriter(client, "Weather", logger),
		logger,
		tele,
	)

	return NewServer(config.ServerConfig{Host: "127.0.0.1", Port: 0}, "test", proc, logger, tele), client
}

func serve(s *Server, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestWeatherRoute(t *testing.T) {
	s, client := newTestServer(t, http.StatusOK)

	w := serve(s, http.MethodGet, "/weather")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get(middlewares.RequestIDHeader))

	var body processor.SuccessBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, processor.SuccessMessage, body.Message)

	rec, ok := client.Get("Weather", body.ID)
	require.True(t, ok)
	require.Len(t, rec.Forecast.Hourly.Temperature2m, 1)
	assert.Equal(t, 22.5, *rec.Forecast.Hourly.Temperature2m[0])
}

func TestWeatherRouteRejectsPost(t *testing.T) {
	s, client := newTestServer(t, http.StatusOK)

	w := serve(s, http.MethodPost, "/weather")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "httpMethod must be GET")
	assert.Zero(t, client.Len("Weather"))
}

func TestWeatherRouteUpstreamFailure(t *testing.T) {
	s, client := newTestServer(t, http.StatusBadGateway)

	w := serve(s, http.MethodGet, "/weather")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body processor.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "failed to fetch weather forecast")
	assert.Zero(t, client.Len("Weather"))
}

func TestHelloRoute(t *testing.T) {
	s, _ := newTestServer(t, http.StatusOK)

	w := serve(s, http.MethodGet, "/hello")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Hello, World!"}`, w.Body.String())
}

func TestHealthRoutes(t *testing.T) {
	s, _ := newTestServer(t, http.StatusOK)

	for _, path := range []string{"/health", "/health/live"} {
		w := serve(s, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestHealthReportsLastInvocation(t *testing.T) {
	s, _ := newTestServer(t, http.StatusOK)

	var health handlers.HealthResponse
	w := serve(s, http.MethodGet, "/health")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.Empty(t, health.LastOutcome)

	serve(s, http.MethodPost, "/weather")
	w = serve(s, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "validation_error", health.LastOutcome)
	assert.NotEmpty(t, health.LastInvocation)

	serve(s, http.MethodGet, "/weather")
	w = serve(s, http.MethodGet, "/health")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "success", health.LastOutcome)
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t, http.StatusOK)

	tests := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "absent", header: "", keep: false},
		{name: "token", header: "req-42.a_b", keep: true},
		{name: "too long", header: strings.Repeat("a", 65), keep: false},
		{name: "spaces", header: "two words", keep: false},
		{name: "control characters", header: "id\x07", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/hello", nil)
			if tt.header != "" {
				req.Header.Set(middlewares.RequestIDHeader, tt.header)
			}
			s.Handler().ServeHTTP(w, req)

			got := w.Header().Get(middlewares.RequestIDHeader)
			if tt.keep {
				assert.Equal(t, tt.header, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err, got)
		})
	}
}

func TestMetricsRoute(t *testing.T) {
	s, _ := newTestServer(t, http.StatusOK)

	serve(s, http.MethodGet, "/weather")
	serve(s, http.MethodGet, "/weather")
	serve(s, http.MethodPut, "/weather")

	w := serve(s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.True(t, strings.Contains(body, `processor_invocations_total{outcome="success"} 2`), body)
	assert.True(t, strings.Contains(body, `processor_invocations_total{outcome="validation_error"} 1`), body)
	assert.Contains(t, body, `http_requests_total{route_status="GET /weather_200"} 2`)
}
