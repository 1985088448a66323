package testsupport

import (
	"testing"

	"charscan/internal/config"
	"charscan/internal/journal"
)

// MustOpenJournal opens the scan journal configured in cfg and registers
// cleanup. The config must have been built with WithJournal.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	path := cfg.JournalPath()
	if path == "" {
		t.Fatal("journal disabled in test config; use WithJournal")
	}
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
