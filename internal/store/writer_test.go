package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/weather-processor/internal/forecast"
	"go.uber.org/zap/zaptest"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) PutRecord(ctx context.Context, table string, record forecast.WeatherRecord) (Ack, error) {
	args := m.Called(ctx, table, record)
	return args.Get(0).(Ack), args.Error(1)
}

func sampleRecord() forecast.WeatherRecord {
	reading := 22.5
	return forecast.WeatherRecord{
		Forecast: forecast.Forecast{
			Elevation: 34,
			Hourly: forecast.Hourly{
				Temperature2m: []*float64{&reading},
				Time:          []string{"2025-03-22T12:00"},
			},
		},
	}
}

func TestWriteAssignsFreshID(t *testing.T) {
	client := &mockClient{}
	client.On("PutRecord", mock.Anything, "Weather", mock.MatchedBy(func(r forecast.WeatherRecord) bool {
		_, err := uuid.Parse(r.ID)
		return err == nil && r.Forecast.Elevation == 34
	})).Return(Ack{StatusCode: http.StatusOK}, nil).Twice()

	w := NewRecordWriter(client, "Weather", zaptest.NewLogger(t))

	first, err := w.Write(context.Background(), sampleRecord())
	require.NoError(t, err)
	second, err := w.Write(context.Background(), sampleRecord())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	parsed, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	client.AssertNumberOfCalls(t, "PutRecord", 2)
}

func TestWriteIgnoresIncomingID(t *testing.T) {
	client := &mockClient{}
	client.On("PutRecord", mock.Anything, "Weather", mock.Anything).Return(Ack{StatusCode: http.StatusOK}, nil)

	w := NewRecordWriter(client, "Weather", zaptest.NewLogger(t))
	w.newID = func() string { return "generated" }

	rec := sampleRecord()
	rec.ID = "from-input"
	res, err := w.Write(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, "generated", res.ID)
	stored := client.Calls[0].Arguments.Get(2).(forecast.WeatherRecord)
	assert.Equal(t, "generated", stored.ID)
}

func TestWriteRejectedAcknowledgment(t *testing.T) {
	client := &mockClient{}
	client.On("PutRecord", mock.Anything, "Weather", mock.Anything).
		Return(Ack{StatusCode: http.StatusBadRequest, RequestID: "req-1"}, nil).Once()

	w := NewRecordWriter(client, "Weather", zaptest.NewLogger(t))
	res, err := w.Write(context.Background(), sampleRecord())

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, http.StatusBadRequest, writeErr.StatusCode)
	assert.Equal(t, res.ID, writeErr.ID)
	assert.Contains(t, err.Error(), "status 400")
	client.AssertExpectations(t)
}

func TestWriteClientError(t *testing.T) {
	cause := errors.New("connection reset")
	client := &mockClient{}
	client.On("PutRecord", mock.Anything, "Weather", mock.Anything).Return(Ack{}, cause).Once()

	w := NewRecordWriter(client, "Weather", zaptest.NewLogger(t))
	_, err := w.Write(context.Background(), sampleRecord())

	var writeErr *WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestAckOK(t *testing.T) {
	assert.True(t, Ack{StatusCode: 200}.OK())
	assert.True(t, Ack{StatusCode: 204}.OK())
	assert.False(t, Ack{StatusCode: 0}.OK())
	assert.False(t, Ack{StatusCode: 500}.OK())
	assert.False(t, Ack{StatusCode: 302}.OK())
}
