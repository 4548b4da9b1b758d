package testsupport

import (
	"context"
	"testing"

	"aircheck/internal/catalog"
	"aircheck/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewStream inserts a stream fixture using the provided store.
func NewStream(t testing.TB, store *catalog.Store, name, sourceURL string) *catalog.Stream {
	t.Helper()

	stream, err := store.AddStream(context.Background(), name, sourceURL)
	if err != nil {
		t.Fatalf("store.AddStream: %v", err)
	}
	return stream
}
