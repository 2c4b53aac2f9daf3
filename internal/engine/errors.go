package engine

import "fmt"

// generationError wraps an inference failure that happened after a
// successful load. Not cached by the lifecycle manager: each call attempts
// independently.
type generationError struct{ cause error }

func (e generationError) Error() string { return fmt.Sprintf("generation failed: %v", e.cause) }
func (e generationError) Unwrap() error { return e.cause }

// ErrGeneration wraps cause as a generation failure.
func ErrGeneration(cause error) error { return generationError{cause: cause} }

// IsGeneration reports whether err is a wrapped generation failure.
func IsGeneration(err error) bool {
	_, ok := err.(generationError)
	return ok
}
