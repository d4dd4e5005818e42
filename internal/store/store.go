package store

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vzahanych/weather-processor/internal/forecast"
)

// Ack is the store's acknowledgment of a put.
type Ack struct {
	StatusCode int
	RequestID  string
}

// OK reports a 2xx acknowledgment.
func (a Ack) OK() bool {
	return a.StatusCode >= http.StatusOK && a.StatusCode < http.StatusMultipleChoices
}

// Client is the key-value store surface the writer depends on.
type Client interface {
	PutRecord(ctx context.Context, table string, record forecast.WeatherRecord) (Ack, error)
}

// WriteError reports a put that failed or was not acknowledged as successful.
type WriteError struct {
	ID         string
	Table      string
	StatusCode int
	Err        error
}

func (e *WriteError) Error() string {
	msg := "failed to store weather record"
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Table != "" {
		msg += " in table " + e.Table
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s: store acknowledged with status %d", msg, e.StatusCode)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
