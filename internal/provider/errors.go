package provider

import "fmt"

// providerError tags a failure with the backend that produced it so the UI
// can render an accurate status. afterFallback marks errors from a failed
// fallback hop; the user sees one combined error, never two.
type providerError struct {
	provider      string
	cause         error
	afterFallback bool
}

func (e providerError) Error() string {
	if e.afterFallback {
		return fmt.Sprintf("%s (after %s fallback): %v", e.provider, OnDevice, e.cause)
	}
	return fmt.Sprintf("%s: %v", e.provider, e.cause)
}

func (e providerError) Unwrap() error { return e.cause }

// ErrProvider tags cause with the provider that produced it.
func ErrProvider(provider string, cause error) error {
	return providerError{provider: provider, cause: cause}
}

// ErrFallbackExhausted tags a failed fallback attempt.
func ErrFallbackExhausted(provider string, cause error) error {
	return providerError{provider: provider, cause: cause, afterFallback: true}
}

// IsProviderError reports whether err carries a provider tag.
func IsProviderError(err error) bool {
	_, ok := err.(providerError)
	return ok
}

// ProviderOf returns the tagged provider name, or "" when err is untagged.
func ProviderOf(err error) string {
	if pe, ok := err.(providerError); ok {
		return pe.provider
	}
	return ""
}

// IsFallbackExhausted reports whether err came from a failed fallback hop.
func IsFallbackExhausted(err error) bool {
	pe, ok := err.(providerError)
	return ok && pe.afterFallback
}
