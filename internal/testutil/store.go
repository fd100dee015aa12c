// Package testutil holds fixtures shared by handler and CLI tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/nouveaubot/nouveaubot/internal/codex"
)

// NewProvider returns a codex provider backed by a fresh database in a
// temp directory. The provider is closed when the test ends.
func NewProvider(t testing.TB, mutate ...func(*codex.Config)) *codex.Provider {
	t.Helper()

	cfg := codex.DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "omon.db")
	for _, fn := range mutate {
		fn(&cfg)
	}

	p := codex.NewProvider(cfg)
	t.Cleanup(func() { p.Close() })
	return p
}

// MustStore bootstraps the provider's store or fails the test.
func MustStore(t testing.TB, p *codex.Provider) *codex.Store {
	t.Helper()
	s, err := p.Store(context.Background())
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	return s
}

// SeedCodex creates a chat codex holding articles, given as name/description
// pairs, and returns its id. An empty name seeds the global codex instead.
func SeedCodex(t testing.TB, s *codex.Store, chatID int64, name string, articles ...string) int64 {
	t.Helper()
	ctx := context.Background()

	if len(articles)%2 != 0 {
		t.Fatalf("SeedCodex: odd number of article fields")
	}

	var id int64
	var err error
	if name == "" {
		id, err = s.GlobalCodexID(ctx)
	} else {
		id, err = s.CreateCodex(ctx, chatID, name)
	}
	if err != nil {
		t.Fatalf("SeedCodex(%d, %q) failed: %v", chatID, name, err)
	}

	for i := 0; i < len(articles); i += 2 {
		if err := s.UpsertArticle(ctx, id, articles[i], articles[i+1]); err != nil {
			t.Fatalf("UpsertArticle(%q) failed: %v", articles[i], err)
		}
	}
	return id
}
