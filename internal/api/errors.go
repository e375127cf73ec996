package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNetworkUnavailable is returned when the device is offline. No request was sent.
	ErrNetworkUnavailable = errors.New("network unavailable")
	// ErrTimeout is returned when a call exceeds the dispatcher timeout.
	ErrTimeout = errors.New("request timeout")
	// ErrMalformedPayload is matched by every *MalformedPayloadError.
	ErrMalformedPayload = errors.New("invalid server response")
	// ErrAuthExpired accompanies the outcome of a 401 response, after the
	// session has been torn down.
	ErrAuthExpired = errors.New("session expired")
)

// MalformedPayloadError reports a body that is not JSON. Raw is kept for
// diagnostics only and is never shown to the user.
type MalformedPayloadError struct {
	Status      int
	ContentType string
	Raw         string
	Err         error
}

func (e *MalformedPayloadError) Error() string {
	msg := fmt.Sprintf("%s (status %d, content-type %q)", ErrMalformedPayload, e.Status, e.ContentType)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is lets errors.Is match ErrMalformedPayload.
func (e *MalformedPayloadError) Is(target error) bool { return target == ErrMalformedPayload }

func (e *MalformedPayloadError) Unwrap() error { return e.Err }
