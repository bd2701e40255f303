package registry

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistryFile(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write registry file: %v", err)
	}
	return path
}

func TestOpenAndCurrent(t *testing.T) {
	path := writeRegistryFile(t, flatRegistry)

	reg, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reg.Current().Len() != 2 {
		t.Errorf("Current().Len() = %d, want 2", reg.Current().Len())
	}
	if reg.Path() != path {
		t.Errorf("Path() = %q, want %q", reg.Path(), path)
	}
}

func TestReloadSwapsSnapshot(t *testing.T) {
	path := writeRegistryFile(t, flatRegistry)
	reg, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	before := reg.Current()

	if err := os.WriteFile(path, []byte(envelopeRegistry), 0o644); err != nil {
		t.Fatalf("rewrite registry: %v", err)
	}
	if err := reg.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	after := reg.Current()
	if after == before {
		t.Fatal("Reload did not publish a new snapshot")
	}
	if after.Client("CL00010") == nil {
		t.Error("new snapshot missing reloaded client")
	}
	// Old snapshot stays usable for readers that still hold it.
	if before.Client("CL00001") == nil {
		t.Error("old snapshot mutated by reload")
	}
}

func TestReloadFailureKeepsOldSnapshot(t *testing.T) {
	path := writeRegistryFile(t, flatRegistry)
	reg, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("corrupt registry: %v", err)
	}
	if err := reg.Reload(); err == nil {
		t.Fatal("Reload on corrupt file succeeded, want error")
	}
	if reg.Current().Len() != 2 {
		t.Error("failed reload replaced the active snapshot")
	}
}
