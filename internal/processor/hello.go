package processor

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Hello is the companion greeting function deployed next to the processor.
func Hello(logger *zap.Logger) func(ctx context.Context, event json.RawMessage) (Envelope, error) {
	return func(ctx context.Context, event json.RawMessage) (Envelope, error) {
		logger.Info("Handling hello request", zap.ByteString("event", event))
		return jsonEnvelope(http.StatusOK, map[string]string{"message": "Hello, World!"}), nil
	}
}
