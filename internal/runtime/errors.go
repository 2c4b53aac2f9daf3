package runtime

import "fmt"

// modelNotFoundError signals a missing model artifact. Non-retryable without
// user action, so the message carries a remediation hint.
type modelNotFoundError struct{ path string }

func (e modelNotFoundError) Error() string {
	return fmt.Sprintf("model file not found at %s (run the model download script to provision it)", e.path)
}

// ErrModelNotFound constructs a modelNotFoundError for path.
func ErrModelNotFound(path string) error { return modelNotFoundError{path: path} }

// IsModelNotFound reports whether err indicates a missing model artifact.
func IsModelNotFound(err error) bool {
	_, ok := err.(modelNotFoundError)
	return ok
}

// modelCorruptedError signals an implausibly small artifact, typically a
// truncated download. Handled the same as not-found: the user must
// re-provision the file.
type modelCorruptedError struct {
	path string
	size int64
}

func (e modelCorruptedError) Error() string {
	return fmt.Sprintf("model file at %s appears corrupted (%d bytes, expected at least %d); re-download it", e.path, e.size, int64(minModelBytes))
}

// ErrModelCorrupted constructs a modelCorruptedError.
func ErrModelCorrupted(path string, size int64) error {
	return modelCorruptedError{path: path, size: size}
}

// IsModelCorrupted reports whether err indicates a truncated/implausible artifact.
func IsModelCorrupted(err error) bool {
	_, ok := err.(modelCorruptedError)
	return ok
}

// dependencyUnavailableError signals a missing runtime capability (e.g., a
// binary built without the llama tag) so callers can surface 503 rather than 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	_, ok := err.(dependencyUnavailableError)
	return ok
}
