package forecast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// FetchError covers every way of failing to obtain a forecast: transport
// errors, non-2xx statuses and unusable bodies.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return "failed to fetch weather forecast: " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Fetcher struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewFetcher returns a fetcher for endpoint. A nil client means a default
// http.Client; no timeout is set beyond what ctx carries.
func NewFetcher(endpoint string, client *http.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{
		endpoint: endpoint,
		client:   client,
		logger:   logger,
	}
}

func (f *Fetcher) Endpoint() string {
	return f.endpoint
}

// Fetch performs a single GET against the forecast endpoint.
func (f *Fetcher) Fetch(ctx context.Context) (*RawForecast, error) {
	raw, err := f.fetch(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	if !raw.SeriesPaired() {
		f.logger.Warn("Hourly series are not paired",
			zap.Int("temperatures", len(raw.Hourly.Temperature2m)),
			zap.Int("times", len(raw.Hourly.Time)))
	}

	return raw, nil
}

func (f *Fetcher) fetch(ctx context.Context) (*RawForecast, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, err
	}

	f.logger.Info("Fetching weather data", zap.String("endpoint", f.endpoint))

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, errors.New("response body is not a JSON object")
	}

	var raw RawForecast
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return &raw, nil
}
