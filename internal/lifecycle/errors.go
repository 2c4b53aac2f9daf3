package lifecycle

import "fmt"

// initializingError signals that a load attempt is already in flight.
type initializingError struct{}

func (initializingError) Error() string { return "model initialization in progress" }

// ErrInitializing constructs an initializingError.
func ErrInitializing() error { return initializingError{} }

// IsInitializing reports whether err indicates an in-flight load.
func IsInitializing(err error) bool {
	_, ok := err.(initializingError)
	return ok
}

// notReadyError signals the manager holds no usable handle.
type notReadyError struct{ state string }

func (e notReadyError) Error() string { return "model not ready (state: " + e.state + ")" }

// ErrNotReady constructs a notReadyError for the given state name.
func ErrNotReady(state string) error { return notReadyError{state: state} }

// IsNotReady reports whether err indicates the manager has no loaded handle.
func IsNotReady(err error) bool {
	_, ok := err.(notReadyError)
	return ok
}

// loadFailedError wraps a runtime load failure. These are cached in the
// Failed state and re-returned within the retry-delay window.
type loadFailedError struct{ cause error }

func (e loadFailedError) Error() string { return fmt.Sprintf("model load failed: %v", e.cause) }
func (e loadFailedError) Unwrap() error { return e.cause }

// ErrLoadFailed wraps cause as a load failure.
func ErrLoadFailed(cause error) error { return loadFailedError{cause: cause} }

// IsLoadFailed reports whether err is a wrapped load failure.
func IsLoadFailed(err error) bool {
	_, ok := err.(loadFailedError)
	return ok
}
