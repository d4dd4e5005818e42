package processor

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/vzahanych/weather-processor/internal/forecast"
	"github.com/vzahanych/weather-processor/internal/store"
	"github.com/vzahanych/weather-processor/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SegmentName names the trace segment wrapping each invocation.
const SegmentName = "WeatherLambdaFunction"

type Fetcher interface {
	Fetch(ctx context.Context) (*forecast.RawForecast, error)
}

type Writer interface {
	Write(ctx context.Context, record forecast.WeatherRecord) (store.WriteResult, error)
}

// MetricsRecorder receives one call per invocation.
type MetricsRecorder interface {
	RecordInvocation(ctx context.Context, outcome string)
}

// Processor fetches the forecast, normalizes it and appends it to the store.
type Processor struct {
	fetcher Fetcher
	writer  Writer
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func New(fetcher Fetcher, writer Writer, logger *zap.Logger, tele *telemetry.Telemetry) *Processor {
	return &Processor{
		fetcher: fetcher,
		writer:  writer,
		logger:  logger,
		tele:    tele,
	}
}

// SetMetricsRecorder sets the metrics recorder for the processor
func (p *Processor) SetMetricsRecorder(metrics MetricsRecorder) {
	p.metrics = metrics
}

// Handle is the function entry point. It never returns an error: failures
// are reported through the envelope.
func (p *Processor) Handle(ctx context.Context, payload json.RawMessage) (Envelope, error) {
	ctx, seg := p.tele.StartSegment(ctx, SegmentName)
	defer seg.End()

	outcome := p.run(ctx, payload)

	seg.SetAttributes(attribute.String("outcome", outcome.Kind.String()))
	if outcome.Err != nil {
		seg.Fail(outcome.Err)
		p.logger.Error("Error processing request",
			zap.Stringer("outcome", outcome.Kind),
			zap.String("id", outcome.ID),
			zap.Error(outcome.Err))
	}

	if p.metrics != nil {
		p.metrics.RecordInvocation(ctx, outcome.Kind.String())
	}

	return NewEnvelope(outcome), nil
}

func (p *Processor) run(ctx context.Context, payload json.RawMessage) Outcome {
	event, err := ParseEvent(payload)
	if err != nil {
		return Outcome{Kind: OutcomeValidation, Err: err}
	}

	if event.Source != "" {
		p.logger.Debug("Triggered by event", zap.String("source", event.Source), zap.String("detail_type", event.DetailType))
	}

	return p.Process(ctx)
}

// Process runs fetch, transform and write once.
func (p *Processor) Process(ctx context.Context) Outcome {
	raw, err := p.fetcher.Fetch(ctx)
	if err != nil {
		var fetchErr *forecast.FetchError
		if !errors.As(err, &fetchErr) {
			err = &forecast.FetchError{Err: err}
		}
		return Outcome{Kind: OutcomeFetch, Err: err}
	}

	record := forecast.Transform(raw)

	res, err := p.writer.Write(ctx, record)
	if err != nil {
		var writeErr *store.WriteError
		if !errors.As(err, &writeErr) {
			err = &store.WriteError{ID: res.ID, Err: err}
		}
		return Outcome{Kind: OutcomeWrite, ID: res.ID, Err: err}
	}

	p.logger.Info("Weather data stored successfully", zap.String("id", res.ID))

	return Outcome{Kind: OutcomeSuccess, ID: res.ID}
}
