package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to the target path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRegistry writes a client registry JSON snapshot into the configured
// location and returns its path.
func WriteRegistry(t testing.TB, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "client_registry.json")
	WriteFile(t, path, content)
	return path
}
