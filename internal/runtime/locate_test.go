package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// helper: create a sparse model file of the given size in bytes.
func createModelFile(t *testing.T, dir, name string, size int64) string {
	t.Helper()
	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()
	if err := f.Truncate(size); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return p
}

func TestLocateModelMissing(t *testing.T) {
	p := Paths{Dir: t.TempDir(), FileName: "missing.gguf"}
	_, err := LocateModel(p)
	if err == nil {
		t.Fatalf("expected error for missing model")
	}
	if !IsModelNotFound(err) {
		t.Fatalf("expected model-not-found, got %v", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected message to mention not found, got %q", err.Error())
	}
}

func TestLocateModelUsesPackagedDir(t *testing.T) {
	devDir := t.TempDir()
	pkgDir := t.TempDir()
	createModelFile(t, pkgDir, "m.gguf", 1)
	p := Paths{Dir: devDir, PackagedDir: pkgDir, Packaged: true, FileName: "m.gguf"}
	got, err := LocateModel(p)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}
	if filepath.Dir(got) != pkgDir {
		t.Fatalf("expected packaged dir %s, got %s", pkgDir, got)
	}
}

func TestCheckAvailableMissing(t *testing.T) {
	av := CheckAvailable(Paths{Dir: t.TempDir(), FileName: "absent.gguf"})
	if av.Available {
		t.Fatalf("expected unavailable")
	}
	if av.Err == nil || !strings.Contains(av.Err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", av.Err)
	}
}

func TestCheckAvailableCorrupted(t *testing.T) {
	dir := t.TempDir()
	createModelFile(t, dir, "small.gguf", 50<<20) // 50MB, below the floor
	av := CheckAvailable(Paths{Dir: dir, FileName: "small.gguf"})
	if av.Available {
		t.Fatalf("expected unavailable for undersized file")
	}
	if av.Err == nil || !IsModelCorrupted(av.Err) {
		t.Fatalf("expected corrupted error, got %v", av.Err)
	}
	if !strings.Contains(av.Err.Error(), "corrupted") {
		t.Fatalf("expected message to mention corrupted, got %q", av.Err.Error())
	}
}

func TestCheckAvailableOK(t *testing.T) {
	dir := t.TempDir()
	p := createModelFile(t, dir, "whole.gguf", 150<<20)
	av := CheckAvailable(Paths{Dir: dir, FileName: "whole.gguf"})
	if !av.Available {
		t.Fatalf("expected available, got err=%v", av.Err)
	}
	if av.Path != p {
		t.Fatalf("expected path %s, got %s", p, av.Path)
	}
}
