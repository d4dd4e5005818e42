package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/processor"
	"github.com/vzahanych/weather-processor/internal/server/handlers"
	"github.com/vzahanych/weather-processor/internal/server/middlewares"
	"github.com/vzahanych/weather-processor/pkg/telemetry"
	"go.uber.org/zap"
)

// Server is a local HTTP trigger for the functions.
type Server struct {
	cfg     config.ServerConfig
	version string
	engine  *gin.Engine
	server  *http.Server
	proc    *processor.Processor
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics *handlers.MetricsHandler
}

func NewServer(cfg config.ServerConfig, version string, proc *processor.Processor, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	httpMetrics := middlewares.NewMetricsMiddleware(logger, tele)

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	engine.Use(httpMetrics.Handler())

	s := &Server{
		cfg:     cfg,
		version: version,
		engine:  engine,
		proc:    proc,
		logger:  logger,
		tele:    tele,
		metrics: handlers.NewMetricsHandler(httpMetrics),
	}

	proc.SetMetricsRecorder(s.metrics)
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Function triggers. Every method reaches the processor, which rejects
	// anything but GET itself.
	s.engine.Any("/weather", handlers.NewInvokeHandler(s.proc.Handle, s.logger).Invoke)
	s.engine.GET("/hello", handlers.NewInvokeHandler(processor.Hello(s.logger), s.logger).Invoke)

	health := handlers.NewHealthHandler(s.version, s.metrics)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)

	s.engine.GET("/metrics", s.metrics.ServeMetrics)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
