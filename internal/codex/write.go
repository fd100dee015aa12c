package codex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CreateCodex creates a codex named name in chatID and returns its id.
//
// Returns INVALID_ARGUMENT if name breaks the naming rule or is the reserved
// global name, and CONFLICT if the chat already has a codex with that name.
func (s *Store) CreateCodex(ctx context.Context, chatID int64, name string) (int64, error) {
	const op = "create codex"

	name, err := s.rules.codexName(op, name)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO codex (chat_id, name) VALUES (?, ?)",
			chatID, name,
		)
		if err != nil {
			if c := classify(op, err); IsConflict(c) {
				return newError(ErrCodeConflict, op, "codex %q already exists", name)
			}
			return fmt.Errorf("insert codex: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteCodex deletes the codex named name in chatID together with all of
// its articles. Returns the number of codices removed (0 or 1).
//
// The reserved global name is rejected with INVALID_ARGUMENT.
func (s *Store) DeleteCodex(ctx context.Context, chatID int64, name string) (int64, error) {
	const op = "delete codex"

	name = norm.NFC.String(strings.TrimSpace(name))
	if name == s.rules.global {
		return 0, newError(ErrCodeInvalidArgument, op, "codex name %q is reserved", name)
	}

	var n int64
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM codex WHERE chat_id = ? AND name = ?",
			chatID, name,
		)
		if err != nil {
			return fmt.Errorf("delete codex: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// UpsertArticle inserts an article or, if the codex already has one with
// that name, replaces its description. Repeating a call is harmless.
//
// Returns NOT_FOUND if codexID does not exist.
func (s *Store) UpsertArticle(ctx context.Context, codexID int64, name, description string) error {
	const op = "upsert article"

	name, err := s.rules.articleName(op, name)
	if err != nil {
		return err
	}
	description, err = s.rules.description(op, description)
	if err != nil {
		return err
	}

	return s.withTx(ctx, op, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO article (codex_id, name, description)
			VALUES (?, ?, ?)
			ON CONFLICT (codex_id, name) DO UPDATE SET description = excluded.description
		`, codexID, name, description)
		if err != nil {
			if c := classify(op, err); IsNotFound(c) {
				return newError(ErrCodeNotFound, op, "codex %d not found", codexID)
			}
			return fmt.Errorf("upsert article: %w", err)
		}
		return nil
	})
}

// DeleteArticle deletes the article named name from a codex.
// Returns the number of articles removed (0 or 1).
func (s *Store) DeleteArticle(ctx context.Context, codexID int64, name string) (int64, error) {
	const op = "delete article"
	name = norm.NFC.String(strings.TrimSpace(name))

	var n int64
	err := s.withTx(ctx, op, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"DELETE FROM article WHERE codex_id = ? AND name = ?",
			codexID, name,
		)
		if err != nil {
			return fmt.Errorf("delete article: %w", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
