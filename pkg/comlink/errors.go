package comlink

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports a base URL that cannot be normalized.
	ErrInvalidConfiguration = errors.New("comlink: invalid configuration")
	// ErrRequestFailed is matched by every *RequestError.
	ErrRequestFailed = errors.New("comlink: request failed")
	// ErrUseAfterClose is returned by request methods once Close has been called.
	ErrUseAfterClose = errors.New("comlink: client used after close")
	// ErrUnexpectedResponse reports a response missing a field the client needs.
	ErrUnexpectedResponse = errors.New("comlink: unexpected response")
)

// RequestError describes a failed round trip to the Comlink service.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("comlink %s %s (status %d): %v", e.Method, e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("comlink %s %s: %v", e.Method, e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrRequestFailed) match any RequestError.
func (e *RequestError) Is(target error) bool { return target == ErrRequestFailed }
