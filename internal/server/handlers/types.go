package handlers

// ErrorResponse is the body of errors raised by the server itself rather than
// by an invoked function.
type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version,omitempty"`
	Uptime         string `json:"uptime"`
	Timestamp      string `json:"timestamp,omitempty"`
	LastOutcome    string `json:"last_outcome,omitempty"`
	LastInvocation string `json:"last_invocation,omitempty"`
}
