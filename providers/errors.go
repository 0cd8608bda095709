// backend/providers/errors.go
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a provider failure so the resolver can decide
// whether falling back to the next provider is worthwhile.
type ErrorKind string

const (
	KindUnreachable ErrorKind = "unreachable"
	KindTimeout     ErrorKind = "timeout"
	KindMalformed   ErrorKind = "malformed"
	KindNotFound    ErrorKind = "not_found"
)

// ProviderError is the typed failure returned by every provider client.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider string, kind ErrorKind, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// classifyTransportError converts a raw HTTP transport failure into a typed
// ProviderError, distinguishing timeouts from other unreachable conditions.
func classifyTransportError(provider string, err error) *ProviderError {
	if errors.Is(err, context.DeadlineExceeded) {
		return newProviderError(provider, KindTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newProviderError(provider, KindTimeout, err)
	}
	return newProviderError(provider, KindUnreachable, err)
}

// ErrorKindOf extracts the kind from a provider failure, or empty string if
// err is not a *ProviderError.
func ErrorKindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
