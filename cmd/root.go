package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/forecast"
	"github.com/vzahanych/weather-processor/internal/processor"
	"github.com/vzahanych/weather-processor/internal/store"
	"github.com/vzahanych/weather-processor/pkg/logger"
	"github.com/vzahanych/weather-processor/pkg/telemetry"
	"go.uber.org/zap"
)

var (
	configPath string
	log        *zap.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather-processor",
		Short: "Weather forecast ingestion function",
		Long:  `Fetches the Open-Meteo forecast, normalizes it and appends it as a uniquely identified record to a DynamoDB table.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(lambdaCmd())
	cmd.AddCommand(invokeCmd())
	cmd.AddCommand(serverCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		if log != nil {
			log.Info("Received shutdown signal", zap.String("signal", sig.String()))
		}
		cancel()
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Set config
	config.SetConfig(cfg)

	// 3. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 4. Telemetry is optional; a broken collector must not stop ingestion
	tele, err = telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
		tele = &telemetry.Telemetry{}
	}

	return nil
}

func shutdownServices() error {
	if tele != nil {
		if err := tele.Shutdown(context.Background()); err != nil && log != nil {
			log.Warn("Failed to shutdown telemetry", zap.Error(err))
		}
	}
	if log != nil {
		_ = log.Sync()
	}
	return nil
}

// newProcessor wires the pipeline from the loaded configuration. The store
// client is built lazily on the first write and then reused.
func newProcessor(cfg *config.Config) (*processor.Processor, error) {
	client, err := store.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}

	fetcher := forecast.NewFetcher(cfg.Forecast.Endpoint, nil, log)
	writer := store.NewRecordWriter(client, cfg.Storage.TableName, log)

	log.Info("Processor configured",
		zap.String("endpoint", fetcher.Endpoint()),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("table", writer.Table()))

	return processor.New(fetcher, writer, log, tele), nil
}
