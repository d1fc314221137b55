package testsupport

import (
	"testing"

	"boilerstrip/internal/config"
	"boilerstrip/internal/history"
)

// MustOpenHistory opens the config's history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
