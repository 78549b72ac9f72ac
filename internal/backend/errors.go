package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrResponseTooLarge is wrapped in a *TransportError when a response body
// exceeds the client's read limit.
var ErrResponseTooLarge = errors.New("response too large")

// APIError is a non-2xx HTTP response. Body is the raw response text.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %d: %s", e.Status, e.Body)
}

// PayloadError is a well-formed {"error": "..."} body returned with a 2xx
// status. The message is shown to the user verbatim.
type PayloadError struct {
	Message string
}

func (e *PayloadError) Error() string { return e.Message }

// TransportError wraps failures below HTTP: DNS, refused connections,
// timeouts and undecodable bodies.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is returned before any request is sent when a request
// fails its struct tags.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, ", ")
}

func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &ValidationError{Fields: fields}
}
