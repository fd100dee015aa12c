// Package handlers implements the bot's commands.
//
//   - ping: liveness check
//   - start/help: lists every other registered command
//   - config_omon: manages a chat's codices and articles
//   - omon: picks articles from a chat codex (or the global one) for an
//     image and hands them to a Renderer
//
// Handlers reply to recoverable store errors (bad names, conflicts, misses)
// in the chat and return every other error to the dispatcher.
package handlers

import (
	"context"

	"github.com/nouveaubot/nouveaubot/internal/codex"
)

// StoreProvider yields the shared codex store. *codex.Provider implements it.
type StoreProvider interface {
	Store(ctx context.Context) (*codex.Store, error)
}
