package forecast

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSuccess(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "52.52", r.URL.Query().Get("latitude"))
		fmt.Fprint(w, berlinPayload)
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/v1/forecast?latitude=52.52&longitude=13.41", srv.Client(), zaptest.NewLogger(t))
	raw, err := f.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), requests.Load())
	assert.Equal(t, 34.0, raw.GetElevation())
	assert.Equal(t, readings(22.5, 23.1), raw.GetTemperatures())
	assert.Equal(t, "CET", raw.GetTimezoneAbbreviation())
}

func TestFetchMissingSectionsIsNotAnError(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"latitude": 52.52}`)

	raw, err := NewFetcher(srv.URL, nil, zaptest.NewLogger(t)).Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw.Hourly)
	assert.Nil(t, raw.HourlyUnits)
	assert.Equal(t, []string{}, raw.GetTimes())
}

func TestFetchToleratesMistypedNumerics(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		elevation float64
		offset    int
	}{
		{name: "float offset", body: `{"elevation": 34, "utc_offset_seconds": 3600.0}`, elevation: 34, offset: 3600},
		{name: "string elevation", body: `{"elevation": "34", "utc_offset_seconds": 3600}`, elevation: 0, offset: 3600},
		{name: "string offset", body: `{"elevation": 34, "utc_offset_seconds": "+01:00"}`, elevation: 34, offset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, http.StatusOK, tt.body)

			raw, err := NewFetcher(srv.URL, nil, zaptest.NewLogger(t)).Fetch(context.Background())
			require.NoError(t, err)

			rec := Transform(raw)
			assert.Equal(t, tt.elevation, rec.Forecast.Elevation)
			assert.Equal(t, tt.offset, rec.Forecast.UTCOffsetSeconds)
		})
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error": true}`, message: "status: 500"},
		{name: "not found", status: http.StatusNotFound, body: ``, message: "status: 404"},
		{name: "not json", status: http.StatusOK, body: `<html>oops</html>`, message: "not a JSON object"},
		{name: "json array", status: http.StatusOK, body: `[1, 2]`, message: "not a JSON object"},
		{name: "json null", status: http.StatusOK, body: `null`, message: "not a JSON object"},
		{name: "truncated", status: http.StatusOK, body: `{"elevation": 3`, message: "decoding response body"},
		{name: "empty", status: http.StatusOK, body: ``, message: "not a JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body)

			raw, err := NewFetcher(srv.URL, nil, zaptest.NewLogger(t)).Fetch(context.Background())
			assert.Nil(t, raw)

			var fetchErr *FetchError
			require.True(t, errors.As(err, &fetchErr), "expected FetchError, got %T", err)
			assert.Contains(t, err.Error(), "failed to fetch weather forecast")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewFetcher(url, nil, zaptest.NewLogger(t)).Fetch(context.Background())

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestFetchWarnsOnUnpairedSeries(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"hourly": {"temperature_2m": [1, 2, 3], "time": ["a"]}}`)

	core, logs := observer.New(zap.WarnLevel)
	raw, err := NewFetcher(srv.URL, nil, zap.New(core)).Fetch(context.Background())
	require.NoError(t, err)

	assert.False(t, raw.SeriesPaired())
	assert.Equal(t, 1, logs.FilterMessage("Hourly series are not paired").Len())
}
