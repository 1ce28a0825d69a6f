package predict

import (
	"errors"
	"net/http"
)

// FailedToFetchMessage is the user-visible message for non-success responses.
const FailedToFetchMessage = "Failed to fetch predictions"

// ErrUnknownField is returned when a field name is not one of the six inputs.
var ErrUnknownField = errors.New("predict: unknown field")

// Kind classifies a failed prediction request.
type Kind string

const (
	// KindTransport covers network failures and bodies that could not be read
	// or decoded into a complete Result.
	KindTransport Kind = "transport"
	// KindResponse covers HTTP statuses outside the 2xx range.
	KindResponse Kind = "response"
)

// FetchError is the single error type returned by Client.Predict.
type FetchError struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Kind == KindResponse {
		return FailedToFetchMessage
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return FailedToFetchMessage
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusCode returns the upstream status for response failures and 502 for
// transport failures, for handlers that want to echo an HTTP status.
func (e *FetchError) StatusCode() int {
	if e.Kind == KindResponse && e.Status > 0 {
		return e.Status
	}
	return http.StatusBadGateway
}

// Message returns the text shown to the user for err. Errors that are not
// FetchErrors surface their own message.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Error()
	}
	return err.Error()
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind Kind) bool {
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		return false
	}
	return fetchErr.Kind == kind
}

func transportErr(err error) *FetchError {
	return &FetchError{Kind: KindTransport, Err: err}
}
