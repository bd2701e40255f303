package registry

import (
	"fmt"
	"sync/atomic"
)

// Registry owns the active snapshot for a registry file and publishes it
// atomically. Readers always observe a fully built snapshot; Reload builds
// a replacement off to the side and swaps the pointer when it is complete.
type Registry struct {
	path    string
	current atomic.Pointer[Snapshot]
}

// Open loads the registry file at path and publishes its first snapshot.
func Open(path string) (*Registry, error) {
	snapshot, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	r := &Registry{path: path}
	r.current.Store(snapshot)
	return r, nil
}

// NewFromSnapshot wraps an already built snapshot in a Registry handle.
// Reload is unavailable without a backing file; the handle exists so
// callers that load from other sources still get the atomic-publish
// semantics.
func NewFromSnapshot(snapshot *Snapshot) *Registry {
	r := &Registry{}
	r.current.Store(snapshot)
	return r
}

// Path returns the registry file backing this handle.
func (r *Registry) Path() string {
	return r.path
}

// Current returns the active snapshot. The snapshot is immutable and safe
// to use across goroutines for as long as the caller holds it.
func (r *Registry) Current() *Snapshot {
	return r.current.Load()
}

// Reload builds a fresh snapshot from the backing file and swaps it in.
// On failure the previous snapshot stays active.
func (r *Registry) Reload() error {
	snapshot, err := LoadFile(r.path)
	if err != nil {
		return fmt.Errorf("reload registry: %w", err)
	}
	r.current.Store(snapshot)
	return nil
}
