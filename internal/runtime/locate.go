package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"marginalia/internal/common/fsutil"
)

// ModelFileName is the fixed artifact name the engine looks for. Provisioning
// the file is handled by a separate download script, not by this package.
const ModelFileName = "qwen2.5-1.5b-instruct-q4_k_m.gguf"

// minModelBytes is a plausibility floor for this model class. A file below
// it is almost certainly a truncated download; rejecting it here avoids a
// slow, confusing failure inside the loader.
const minModelBytes = 100 << 20

// Paths selects the model base directory. Dev and packaged installs keep the
// artifact in different, mutually exclusive locations.
type Paths struct {
	Dir         string // development-mode base directory
	PackagedDir string // packaged-install resources directory
	Packaged    bool
	// FileName overrides ModelFileName; used by tests.
	FileName string
}

func (p Paths) fileName() string {
	if p.FileName != "" {
		return p.FileName
	}
	return ModelFileName
}

func (p Paths) baseDir() string {
	if p.Packaged {
		return p.PackagedDir
	}
	return p.Dir
}

// LocateModel resolves the model artifact path. Returns a not-found error the
// caller can test with IsModelNotFound.
func LocateModel(p Paths) (string, error) {
	base, err := fsutil.ExpandHome(p.baseDir())
	if err != nil {
		return "", err
	}
	path := filepath.Join(base, p.fileName())
	if _, err := fsutil.FileSize(path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrModelNotFound(path)
		}
		return "", fmt.Errorf("stat model: %w", err)
	}
	return path, nil
}

// CheckAvailable reports whether the artifact exists and is plausibly whole,
// without loading it. A present-but-tiny file is reported as corrupted.
func CheckAvailable(p Paths) Availability {
	path, err := LocateModel(p)
	if err != nil {
		return Availability{Available: false, Err: err}
	}
	size, err := fsutil.FileSize(path)
	if err != nil {
		return Availability{Available: false, Err: fmt.Errorf("stat model: %w", err)}
	}
	if size < minModelBytes {
		return Availability{Available: false, Path: path, Err: ErrModelCorrupted(path, size)}
	}
	return Availability{Available: true, Path: path}
}
