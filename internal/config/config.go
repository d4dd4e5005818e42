package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	if cfg == nil {
		return NewDefaultConfig()
	}
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string          `mapstructure:"version"`
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Forecast    ForecastConfig  `mapstructure:"forecast"`
	Storage     StorageConfig   `mapstructure:"storage"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// ForecastConfig points the fetcher at the forecast API. The endpoint is only
// overridden for local runs against a stub.
type ForecastConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	TableName string `mapstructure:"table_name"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

const (
	StorageDriverDynamoDB = "dynamodb"
	StorageDriverMemory   = "memory"

	DefaultTableName = "Weather"
	DefaultEndpoint  = "https://api.open-meteo.com/v1/forecast?latitude=52.52&longitude=13.41&current=temperature_2m,wind_speed_10m&hourly=temperature_2m,relative_humidity_2m,wind_speed_10m"
)

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Forecast: ForecastConfig{
			Endpoint: DefaultEndpoint,
		},
		Storage: StorageConfig{
			Driver:    StorageDriverDynamoDB,
			TableName: DefaultTableName,
			Region:    "",
			Endpoint:  "",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}
