package codex

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// acquire checks out one pooled connection.
//
// When the pool stays exhausted past AcquireTimeout while the caller's
// context is still live, the failure is reported as UNAVAILABLE.
func (s *Store) acquire(ctx context.Context, op string) (*sql.Conn, error) {
	acquireCtx := ctx
	if t := s.cfg.Pool.AcquireTimeout; t > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	conn, err := s.db.Conn(acquireCtx)
	if err == nil {
		return conn, nil
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, &Error{Code: ErrCodeUnavailable, Op: op, Message: "connection pool exhausted", Err: err}
	}
	return nil, &Error{Code: ErrCodeUnavailable, Op: op, Message: "acquire connection", Err: err}
}

// withConn runs fn on one pooled connection and always returns it.
func (s *Store) withConn(ctx context.Context, op string, fn func(*sql.Conn) error) error {
	conn, err := s.acquire(ctx, op)
	if err != nil {
		return err
	}
	defer conn.Close()

	return classify(op, fn(conn))
}

// withTx runs fn in a transaction on one pooled connection.
// The transaction commits only if fn succeeds; otherwise, or if ctx is
// cancelled before commit, it is rolled back.
func (s *Store) withTx(ctx context.Context, op string, fn func(*sql.Tx) error) error {
	return s.withConn(ctx, op, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() // No-op if committed

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}
