package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/vzahanych/weather-processor/internal/processor"
	"github.com/vzahanych/weather-processor/internal/server/utils"
	"go.uber.org/zap"
)

// InvokeFunc is a function entry point with the Lambda handler signature.
type InvokeFunc func(ctx context.Context, event json.RawMessage) (processor.Envelope, error)

// InvokeHandler exposes a function over HTTP the way an API Gateway proxy
// integration would: the request becomes the event, the envelope becomes the
// response.
type InvokeHandler struct {
	fn     InvokeFunc
	logger *zap.Logger
}

func NewInvokeHandler(fn InvokeFunc, logger *zap.Logger) *InvokeHandler {
	return &InvokeHandler{
		fn:     fn,
		logger: logger,
	}
}

func (h *InvokeHandler) Invoke(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	requestID := utils.GetRequestIDFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", requestID))

	event, err := proxyEvent(c, requestID)
	if err != nil {
		reqLogger.Warn("Failed to build invocation event", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	env, err := h.fn(ctx, event)
	if err != nil {
		reqLogger.Error("Function returned an error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	reqLogger.Debug("Function invoked", zap.Int("status", env.StatusCode))
	c.Data(env.StatusCode, "application/json", []byte(env.Body))
}

func proxyEvent(c *gin.Context, requestID string) (json.RawMessage, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}

	query := make(map[string]string)
	for key := range c.Request.URL.Query() {
		query[key] = c.Query(key)
	}

	req := events.APIGatewayProxyRequest{
		Resource:              c.FullPath(),
		Path:                  c.Request.URL.Path,
		HTTPMethod:            c.Request.Method,
		Headers:               headers,
		QueryStringParameters: query,
		Body:                  string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  requestID,
			HTTPMethod: c.Request.Method,
			Path:       c.Request.URL.Path,
			Stage:      "local",
		},
	}

	return json.Marshal(req)
}
