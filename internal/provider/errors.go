// Package provider holds what every remote generation client shares: the
// typed failure returned from a provider boundary and the HTTP round trip
// that produces it.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies a provider failure.
type Kind string

const (
	KindUnconfigured Kind = "unconfigured"
	KindUnauthorized Kind = "unauthorized"
	KindRateLimited  Kind = "rate_limited"
	KindTimeout      Kind = "timeout"
	KindRejected     Kind = "rejected"
	KindMalformed    Kind = "malformed"
	KindUnavailable  Kind = "unavailable"
)

// ErrNotConfigured is wrapped by errors of kind unconfigured.
var ErrNotConfigured = errors.New("provider credentials not configured")

// Error is a failed call to a remote provider.
type Error struct {
	Provider string
	Op       string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Provider, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Unconfigured reports a client whose credentials are missing. No call is made.
func Unconfigured(provider, op string) *Error {
	return &Error{Provider: provider, Op: op, Kind: KindUnconfigured, Err: ErrNotConfigured}
}

// Malformed reports a response that could not be interpreted.
func Malformed(provider, op string, err error) *Error {
	return &Error{Provider: provider, Op: op, Kind: KindMalformed, Err: err}
}

// FromStatus classifies a non-success HTTP response.
func FromStatus(provider, op string, status int, body []byte) *Error {
	kind := KindUnavailable
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = KindUnauthorized
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = KindTimeout
	case status >= 400 && status < 500:
		kind = KindRejected
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return &Error{
		Provider: provider,
		Op:       op,
		Kind:     kind,
		Err:      fmt.Errorf("status %d: %s", status, msg),
	}
}

// FromTransport classifies an error returned before any response arrived.
func FromTransport(provider, op string, err error) *Error {
	kind := KindUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Provider: provider, Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the provider error in err's chain, or an empty
// Kind when there is none.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}

// IsKind reports whether err carries a provider error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
