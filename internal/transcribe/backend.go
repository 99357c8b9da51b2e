package transcribe

import (
	"context"
	"fmt"
)

// ErrorKind classifies provider failures.
type ErrorKind string

const (
	ErrAuth        ErrorKind = "auth"
	ErrRateLimit   ErrorKind = "rate_limit"
	ErrNetwork     ErrorKind = "network"
	ErrBadResponse ErrorKind = "bad_response"
)

// ProviderError is a typed failure from an external capability call.
type ProviderError struct {
	Kind ErrorKind
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s error: %v", e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Backend is a pluggable speech-to-text provider. Implementations make one
// network round trip per call and perform no retries; retry policy belongs
// to the caller.
type Backend interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// kindFromStatus maps an HTTP status to an error kind.
func kindFromStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return ErrAuth
	case status == 429:
		return ErrRateLimit
	case status >= 500:
		return ErrNetwork
	default:
		return ErrBadResponse
	}
}
