package codex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CodexSummary is one row of ListCodices.
type CodexSummary struct {
	ID           int64
	Name         string
	ArticleCount int
}

// Article is a named entry of a codex.
type Article struct {
	Name        string
	Description string
}

// ListCodices returns the codices owned by chatID, ordered by name.
// The global codex is never included. Returns an empty slice (not nil) if
// the chat owns none.
func (s *Store) ListCodices(ctx context.Context, chatID int64) ([]CodexSummary, error) {
	out := []CodexSummary{}

	err := s.withConn(ctx, "list codices", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT c.id, c.name, COUNT(a.id)
			FROM codex c
			LEFT JOIN article a ON a.codex_id = c.id
			WHERE c.chat_id = ?
			GROUP BY c.id, c.name
			ORDER BY c.name ASC, c.id ASC
		`, chatID)
		if err != nil {
			return fmt.Errorf("query codices: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var c CodexSummary
			if err := rows.Scan(&c.ID, &c.Name, &c.ArticleCount); err != nil {
				return fmt.Errorf("scan codex: %w", err)
			}
			out = append(out, c)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate codices: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveDefaultCodex returns the id of the codex named requested in chatID,
// falling back to the global codex when requested is empty or names no
// codex of that chat.
//
// NOT_FOUND is returned only if the global codex is missing, which means
// bootstrap did not run against this database.
func (s *Store) ResolveDefaultCodex(ctx context.Context, chatID int64, requested string) (int64, error) {
	const op = "resolve default codex"
	requested = norm.NFC.String(strings.TrimSpace(requested))

	var id int64
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		if requested != "" {
			err := conn.QueryRowContext(ctx,
				"SELECT id FROM codex WHERE chat_id = ? AND name = ?",
				chatID, requested,
			).Scan(&id)
			if err == nil {
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("query chat codex: %w", err)
			}
		}

		var err error
		id, err = globalID(ctx, conn, op)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GlobalCodexID returns the id of the global fallback codex.
func (s *Store) GlobalCodexID(ctx context.Context) (int64, error) {
	const op = "global codex id"

	var id int64
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		var err error
		id, err = globalID(ctx, conn, op)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func globalID(ctx context.Context, conn *sql.Conn, op string) (int64, error) {
	var id int64
	err := conn.QueryRowContext(ctx,
		"SELECT id FROM codex WHERE chat_id IS NULL ORDER BY id LIMIT 1",
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, newError(ErrCodeNotFound, op, "global codex missing")
	}
	if err != nil {
		return 0, fmt.Errorf("query global codex: %w", err)
	}
	return id, nil
}

// GetCodexID returns the id of the codex named name in chatID.
func (s *Store) GetCodexID(ctx context.Context, chatID int64, name string) (int64, error) {
	const op = "get codex id"
	name = norm.NFC.String(strings.TrimSpace(name))

	var id int64
	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx,
			"SELECT id FROM codex WHERE chat_id = ? AND name = ?",
			chatID, name,
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			return newError(ErrCodeNotFound, op, "codex %q not found", name)
		}
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// LoadArticles returns the articles of a codex as name → description.
//
// An existing codex without articles yields an empty map. An id that does
// not (or no longer) exist yields NOT_FOUND.
func (s *Store) LoadArticles(ctx context.Context, codexID int64) (map[string]string, error) {
	const op = "load articles"
	out := map[string]string{}

	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			"SELECT name, description FROM article WHERE codex_id = ?",
			codexID,
		)
		if err != nil {
			return fmt.Errorf("query articles: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name, desc string
			if err := rows.Scan(&name, &desc); err != nil {
				return fmt.Errorf("scan article: %w", err)
			}
			out[name] = desc
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate articles: %w", err)
		}

		if len(out) > 0 {
			return nil
		}
		return codexExists(ctx, conn, op, codexID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListArticles returns the articles of a codex ordered by name.
func (s *Store) ListArticles(ctx context.Context, codexID int64) ([]Article, error) {
	const op = "list articles"
	out := []Article{}

	err := s.withConn(ctx, op, func(conn *sql.Conn) error {
		if err := codexExists(ctx, conn, op, codexID); err != nil {
			return err
		}

		rows, err := conn.QueryContext(ctx, `
			SELECT name, description FROM article
			WHERE codex_id = ?
			ORDER BY name ASC
		`, codexID)
		if err != nil {
			return fmt.Errorf("query articles: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var a Article
			if err := rows.Scan(&a.Name, &a.Description); err != nil {
				return fmt.Errorf("scan article: %w", err)
			}
			out = append(out, a)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate articles: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func codexExists(ctx context.Context, conn *sql.Conn, op string, codexID int64) error {
	var one int
	err := conn.QueryRowContext(ctx, "SELECT 1 FROM codex WHERE id = ?", codexID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return newError(ErrCodeNotFound, op, "codex %d not found", codexID)
	}
	if err != nil {
		return fmt.Errorf("query codex: %w", err)
	}
	return nil
}
