package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/vzahanych/weather-processor/internal/config"
	"github.com/vzahanych/weather-processor/internal/forecast"
)

// Lazy builds its underlying client on first use and keeps it for the life of
// the process. A failed build is retried by the next call.
type Lazy struct {
	mu     sync.Mutex
	build  func(ctx context.Context) (Client, error)
	client Client
}

func NewLazy(build func(ctx context.Context) (Client, error)) *Lazy {
	return &Lazy{build: build}
}

// Get returns the client, building it if needed.
func (l *Lazy) Get(ctx context.Context) (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}

	client, err := l.build(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing store client: %w", err)
	}
	l.client = client

	return client, nil
}

func (l *Lazy) PutRecord(ctx context.Context, table string, record forecast.WeatherRecord) (Ack, error) {
	client, err := l.Get(ctx)
	if err != nil {
		return Ack{}, err
	}
	return client.PutRecord(ctx, table, record)
}

// NewClient returns a lazily built client for the configured driver.
func NewClient(cfg config.StorageConfig) (Client, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return NewMemoryClient(), nil
	case config.StorageDriverDynamoDB:
		return NewLazy(func(ctx context.Context) (Client, error) {
			return NewDynamoClient(ctx, cfg)
		}), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
