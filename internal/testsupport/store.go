package testsupport

import (
	"testing"

	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/config"
	"github.com/BLewisDesDev/chsp-transaction-mapper/internal/store"
)

// MustOpenStore opens a run store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}
