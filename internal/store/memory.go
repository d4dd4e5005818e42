package store

import (
	"context"
	"net/http"
	"sync"

	"github.com/vzahanych/weather-processor/internal/forecast"
)

// MemoryClient is a concurrency-safe in-memory store, used for local
// invocations and tests.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string]map[string]forecast.WeatherRecord
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{
		tables: make(map[string]map[string]forecast.WeatherRecord),
	}
}

func (m *MemoryClient) PutRecord(ctx context.Context, table string, record forecast.WeatherRecord) (Ack, error) {
	if err := ctx.Err(); err != nil {
		return Ack{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items, ok := m.tables[table]
	if !ok {
		items = make(map[string]forecast.WeatherRecord)
		m.tables[table] = items
	}
	items[record.ID] = record

	return Ack{StatusCode: http.StatusOK}, nil
}

// Get returns the record stored under id.
func (m *MemoryClient) Get(table, id string) (forecast.WeatherRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.tables[table][id]
	return rec, ok
}

// Len returns the number of records in table.
func (m *MemoryClient) Len(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.tables[table])
}
