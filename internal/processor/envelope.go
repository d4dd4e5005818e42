package processor

import (
	"encoding/json"
	"net/http"
)

const SuccessMessage = "Weather data stored successfully!"

// Envelope is the response every invocation returns.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type SuccessBody struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type ErrorBody struct {
	Error string `json:"error"`
}

// NewEnvelope maps an outcome onto the response envelope.
func NewEnvelope(o Outcome) Envelope {
	if o.Kind == OutcomeSuccess {
		return jsonEnvelope(http.StatusOK, SuccessBody{Message: SuccessMessage, ID: o.ID})
	}

	msg := "unknown error"
	if o.Err != nil {
		msg = o.Err.Error()
	}
	return jsonEnvelope(http.StatusInternalServerError, ErrorBody{Error: msg})
}

func jsonEnvelope(status int, body interface{}) Envelope {
	data, err := json.Marshal(body)
	if err != nil {
		return Envelope{StatusCode: http.StatusInternalServerError, Body: `{"error":"failed to encode response"}`}
	}
	return Envelope{StatusCode: status, Body: string(data)}
}
