package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/vzahanych/weather-processor/internal/forecast"
	"go.uber.org/zap"
)

type WriteResult struct {
	ID  string
	Ack Ack
}

// RecordWriter appends weather records to a single table.
type RecordWriter struct {
	client Client
	table  string
	logger *zap.Logger
	newID  func() string
}

func NewRecordWriter(client Client, table string, logger *zap.Logger) *RecordWriter {
	return &RecordWriter{
		client: client,
		table:  table,
		logger: logger,
		newID:  uuid.NewString,
	}
}

func (w *RecordWriter) Table() string {
	return w.table
}

// Write assigns the record a fresh id and puts it once. There is no condition
// on the put: writing the same forecast twice yields two records.
func (w *RecordWriter) Write(ctx context.Context, record forecast.WeatherRecord) (WriteResult, error) {
	record.ID = w.newID()

	logger := w.logger.With(zap.String("id", record.ID), zap.String("table", w.table))

	ack, err := w.client.PutRecord(ctx, w.table, record)
	if err != nil {
		return WriteResult{ID: record.ID, Ack: ack}, &WriteError{ID: record.ID, Table: w.table, StatusCode: ack.StatusCode, Err: err}
	}

	if !ack.OK() {
		logger.Warn("Store rejected weather record", zap.Int("status", ack.StatusCode), zap.String("aws_request_id", ack.RequestID))
		return WriteResult{ID: record.ID, Ack: ack}, &WriteError{ID: record.ID, Table: w.table, StatusCode: ack.StatusCode}
	}

	logger.Info("Weather data stored", zap.Int("status", ack.StatusCode))

	return WriteResult{ID: record.ID, Ack: ack}, nil
}
