package codex

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestStore opens a fresh store in a temp directory.
func createTestStore(t *testing.T, mutate ...func(*Config)) *Store {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "test.db")
	for _, fn := range mutate {
		fn(&cfg)
	}

	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustCreateCodex creates a codex or fails the test.
func mustCreateCodex(t *testing.T, s *Store, chatID int64, name string) int64 {
	t.Helper()
	id, err := s.CreateCodex(context.Background(), chatID, name)
	if err != nil {
		t.Fatalf("CreateCodex(%d, %q) failed: %v", chatID, name, err)
	}
	return id
}

// assertPoolIdle fails the test if any connection is still checked out.
func assertPoolIdle(t *testing.T, s *Store) {
	t.Helper()
	if inUse := s.Stats().InUse; inUse != 0 {
		t.Errorf("connections in use = %d, want 0", inUse)
	}
}
