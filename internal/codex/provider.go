package codex

import (
	"context"
	"sync"
)

// Provider opens the Store once and hands the same instance to every caller.
//
// The first call to Store runs bootstrap while holding the provider's lock,
// so concurrent first callers wait for it instead of bootstrapping twice.
// A bootstrap error is remembered and returned to every later caller.
//
// A process creates one Provider at startup and passes it to the components
// that need the store.
type Provider struct {
	cfg Config

	mu    sync.Mutex
	done  bool
	store *Store
	err   error

	// open is replaced in tests to count bootstraps.
	open func(context.Context, Config) (*Store, error)
}

// NewProvider returns a provider that opens the store described by cfg.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg, open: Open}
}

// Store returns the shared store, opening it on first use.
func (p *Provider) Store(ctx context.Context) (*Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.done {
		// A cancelled first request must not poison the shared store.
		p.store, p.err = p.open(context.WithoutCancel(ctx), p.cfg)
		p.done = true
	}
	return p.store, p.err
}

// Close closes the store if it was opened. Later calls to Store return the
// closed instance; a provider is not reopened.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.store == nil {
		return nil
	}
	return p.store.Close()
}
