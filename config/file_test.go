package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	want := writeConfig(t, root, ".sageql.yml", "snapshotDir: schemas\n")

	got, err := FindConfigFile(nested, DefaultFilenames)
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	if got != want {
		t.Errorf("FindConfigFile() = %q, want %q (found in a parent dir)", got, want)
	}
}

func TestFindConfigFile_PrefersClosest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "nested")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create dirs: %v", err)
	}
	writeConfig(t, root, "sageql.yml", "snapshotDir: outer\n")
	want := writeConfig(t, nested, "sageql.yml", "snapshotDir: inner\n")

	got, err := FindConfigFile(nested, DefaultFilenames)
	if err != nil {
		t.Fatalf("FindConfigFile() error = %v", err)
	}
	if got != want {
		t.Errorf("FindConfigFile() = %q, want the closest config %q", got, want)
	}
}

func TestFindConfigFile_NotFound(t *testing.T) {
	t.Parallel()

	if _, err := FindConfigFile(t.TempDir(), DefaultFilenames); err == nil {
		t.Error("FindConfigFile() expected error when no config exists")
	}

	if _, err := FindConfigFile(filepath.Join(t.TempDir(), "missing"), DefaultFilenames); err == nil {
		t.Error("FindConfigFile() expected error for nonexistent start dir")
	}
}
