// Package codex provides SQLite-backed storage for codices and their articles.
//
// A codex is a named collection of short labeled texts ("articles") owned by
// one chat. Exactly one codex has no chat: the global fallback codex, seeded
// during bootstrap under a reserved name and used whenever a chat does not
// name one of its own.
//
// # Data Model
//
//   - codex(id, chat_id NULL, name), UNIQUE(chat_id, name)
//   - article(id, codex_id → codex ON DELETE CASCADE, name, description),
//     UNIQUE(codex_id, name)
//
// Codex ids use AUTOINCREMENT, so an id is never reused after deletion and
// a stale id can only ever resolve to NOT_FOUND.
//
// # Lifecycle
//
// A process opens the store once through a Provider. The first caller runs
// bootstrap (schema script, migrations, global codex seed); concurrent first
// callers wait for it and every caller then shares the same *Store.
// Bootstrap failure is sticky: the process must not serve without a store.
//
// # Connection Discipline
//
// Every operation checks out exactly one pooled connection and returns it on
// every exit path, including errors and context cancellation. Mutations run
// in a transaction on that connection and are durable only after commit.
// No transaction spans more than one operation; callers composing
// operations (resolve, then upsert) must tolerate interleaving.
//
// # Database Configuration
//
// Pragmas are set through the DSN so that every pooled connection gets them:
//
//   - foreign_keys=ON: cascade article deletion
//   - journal_mode=WAL: readers do not block on the single writer
//   - synchronous=FULL (configurable)
//   - busy_timeout=5000 (configurable)
//   - _txlock=immediate: writers take the write lock at BEGIN
package codex
