package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/server"
	"go.uber.org/zap"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the local HTTP trigger",
		Long:  `Start an HTTP server that turns requests into function invocations, with health and metrics endpoints.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	log.Info("Starting weather processor server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	proc, err := newProcessor(cfg)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg.Server, cfg.Version, proc, log, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		log.Info("Shutting down server")

		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		log.Info("Server shutdown complete")
		return nil
	}
}
