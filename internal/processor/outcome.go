package processor

// OutcomeKind tags how an invocation ended.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeValidation
	OutcomeFetch
	OutcomeWrite
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidation:
		return "validation_error"
	case OutcomeFetch:
		return "fetch_error"
	case OutcomeWrite:
		return "write_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one pipeline run. ID is set on success and, for
// write failures, names the record that was attempted.
type Outcome struct {
	Kind OutcomeKind
	ID   string
	Err  error
}
