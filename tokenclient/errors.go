package tokenclient

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports an empty or unusable grant input supplied by the
// caller. No network call is attempted when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// ProviderError reports a failed exchange with Apple's endpoint: either a
// non-2xx response (StatusCode and Body are set) or a transport-level failure
// (Err carries the underlying cause). It is never retried by this package.
type ProviderError struct {
	// StatusCode is the HTTP status of the provider response, or zero when
	// the request never produced one.
	StatusCode int

	// Body is the raw provider response body, useful for diagnostics.
	Body []byte

	// Err is the underlying transport error, if any.
	Err error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tokenclient: token request failed: %v", e.Err)
	}
	return fmt.Sprintf("tokenclient: provider returned status %d: %s", e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// DecodeError reports a provider response body that was received but is not
// valid JSON. It is distinct from ProviderError because it indicates protocol
// drift rather than a provider-reported failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("tokenclient: failed to decode provider response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
