package rework

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a model call or pipeline stage failed.
type FailureKind int

const (
	ConnectionError   FailureKind = iota + 1 // The remote service could not be reached.
	BackendError                             // The service answered with a non-2xx status.
	MalformedResponse                        // 2xx, but the body did not match the expected schema.
	ParseError                               // Brainstorm produced no extractable candidates.
)

func (k FailureKind) String() string {
	switch k {
	case ConnectionError:
		return "connection_error"
	case BackendError:
		return "backend_error"
	case MalformedResponse:
		return "malformed_response"
	case ParseError:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Failure is the error type returned by every Gateway implementation and by
// the pipeline when brainstorm output cannot be parsed. Diagnostic detail is
// kept verbatim so it can be shown to the user.
type Failure struct {
	Kind FailureKind
	// Status is the HTTP status for BackendError.
	Status int
	// Body is the remote body for BackendError and MalformedResponse, and the
	// raw model text for ParseError.
	Body string
	// Message describes a ConnectionError.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case ConnectionError:
		return fmt.Sprintf("connection error: %s", f.Message)
	case BackendError:
		return fmt.Sprintf("backend error: HTTP %d: %s", f.Status, f.Body)
	case MalformedResponse:
		return fmt.Sprintf("malformed response: %s", f.Body)
	case ParseError:
		return fmt.Sprintf("no candidates found in model response: %q", f.Body)
	default:
		return "unknown failure"
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// NewConnectionError wraps a transport-level error.
func NewConnectionError(err error) *Failure {
	return &Failure{Kind: ConnectionError, Message: err.Error(), Err: err}
}

// NewBackendError records a non-2xx answer with its body.
func NewBackendError(status int, body string) *Failure {
	return &Failure{Kind: BackendError, Status: status, Body: body}
}

// NewMalformedResponse records a 2xx body that failed schema validation.
// err may be nil when the body decoded but the expected field was absent.
func NewMalformedResponse(body string, err error) *Failure {
	return &Failure{Kind: MalformedResponse, Body: body, Err: err}
}

// NewParseError records brainstorm output that yielded no candidates.
func NewParseError(raw string) *Failure {
	return &Failure{Kind: ParseError, Body: raw}
}

// KindOf reports the FailureKind of err, if err is or wraps a *Failure.
func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}
