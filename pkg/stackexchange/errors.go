package stackexchange

import (
	"errors"
	"fmt"
	"net/http"
)

// throttleViolation is the API error name for remote rate limiting.
const throttleViolation = "throttle_violation"

// APIError is a structured error returned by the remote service. The
// remote message is preserved verbatim for diagnostics.
type APIError struct {
	StatusCode int
	Code       int
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("stack exchange api error %d (%s): %s", e.Code, e.Name, e.Message)
	}
	return fmt.Sprintf("stack exchange api error %d: %s", e.Code, e.Message)
}

// RateLimited reports whether the error signals remote throttling,
// either via HTTP 429 or the API's throttle_violation error name.
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.Name == throttleViolation
}

// TransportError wraps a network or decoding failure that did not
// produce a well-formed API response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stack exchange %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err carries a remote throttling signal.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}
