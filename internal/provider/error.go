package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a provider failure for failover policy decisions.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindInvalidResponse   Kind = "invalid_response"
	KindRateLimited       Kind = "rate_limited"
	KindServerError       Kind = "server_error"
	KindNetworkError      Kind = "network_error"
	KindTimeout           Kind = "timeout"
)

// Error is the classified failure contract every Client must honor. The
// orchestrator only ever branches on Kind; the wrapped cause is for logs.
type Error struct {
	Provider string
	Kind     Kind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether failing over to another provider could plausibly
// succeed. Missing credentials and unusable responses are fatal; everything
// else (timeout, rate limit, 5xx, network) is worth one fallback hop.
func (e *Error) Transient() bool {
	switch e.Kind {
	case KindRateLimited, KindServerError, KindNetworkError, KindTimeout:
		return true
	default:
		return false
	}
}

// NewError wraps a cause with provider identity and classification.
func NewError(providerName string, kind Kind, status int, err error) *Error {
	return &Error{Provider: providerName, Kind: kind, Status: status, Err: err}
}

// AsClassified extracts a classified provider error from an error chain.
func AsClassified(err error) (*Error, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// KindForStatus maps an HTTP status code to a failure kind.
func KindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindMissingCredential
	case status == 429:
		return KindRateLimited
	case status >= 500:
		return KindServerError
	default:
		return KindInvalidResponse
	}
}

// KindForTransport classifies non-HTTP failures (dial errors, timeouts).
// Context cancellation is deliberately not classified here: a cancelled
// session must surface ctx.Err() untouched so it is never mistaken for a
// provider failure.
func KindForTransport(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	return KindNetworkError
}
