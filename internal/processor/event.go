package processor

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Event holds the parts of the trigger payload the processor looks at. HTTP
// triggers carry httpMethod; scheduled triggers carry source and detail-type.
type Event struct {
	HTTPMethod string `json:"httpMethod" validate:"omitempty,eq=GET"`
	Path       string `json:"path"`
	Source     string `json:"source"`
	DetailType string `json:"detail-type"`
}

// ValidationError reports a trigger event the processor refuses to act on.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "invalid event: " + e.Message
	}
	return fmt.Sprintf("invalid event: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseEvent decodes and validates a raw trigger payload. Only object payloads
// carry fields; anything else (empty, null, a scalar or a list) is an empty event.
func ParseEvent(payload json.RawMessage) (Event, error) {
	var event Event

	trimmed := strings.TrimSpace(string(payload))
	if !strings.HasPrefix(trimmed, "{") {
		return event, nil
	}

	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, &ValidationError{Err: err}
	}

	if err := validate.Struct(event); err != nil {
		return Event{}, toValidationError(err)
	}

	return event, nil
}

func toValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return &ValidationError{Err: err}
	}

	fe := validationErrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Message: getErrorMessage(fe),
		Err:     err,
	}
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "eq":
		return fmt.Sprintf("%s must be %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
