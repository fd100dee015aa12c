package codex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestPool_ExhaustionIsTransient(t *testing.T) {
	s := createTestStore(t, func(c *Config) {
		c.Pool.MaxOpenConns = 1
		c.Pool.AcquireTimeout = 50 * time.Millisecond
	})
	ctx := context.Background()

	held, err := s.acquire(ctx, "hold")
	require.NoError(t, err)

	_, err = s.ListCodices(ctx, 1)
	require.Error(t, err)
	assert.True(t, IsTransient(err), "got %v", err)

	require.NoError(t, held.Close())

	_, err = s.ListCodices(ctx, 1)
	assert.NoError(t, err, "pool must recover once the connection is returned")
	assertPoolIdle(t, s)
}

func TestPool_CancelledCallerReturnsConnection(t *testing.T) {
	s := createTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateCodex(ctx, 1, "foo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	assert.False(t, IsTransient(err), "cancellation is the caller's doing")

	assertPoolIdle(t, s)

	// Nothing became durable.
	_, err = s.GetCodexID(context.Background(), 1, "foo")
	assert.True(t, IsNotFound(err))
}

func TestPool_CancelledWhileWaiting(t *testing.T) {
	s := createTestStore(t, func(c *Config) {
		c.Pool.MaxOpenConns = 1
		c.Pool.AcquireTimeout = 0
	})

	held, err := s.acquire(context.Background(), "hold")
	require.NoError(t, err)
	defer held.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err = s.ListCodices(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestPool_ErrorsReturnConnection(t *testing.T) {
	s := createTestStore(t, func(c *Config) { c.Pool.MaxOpenConns = 1 })
	ctx := context.Background()

	mustCreateCodex(t, s, 1, "foo")
	for i := 0; i < 5; i++ {
		_, err := s.CreateCodex(ctx, 1, "foo")
		require.True(t, IsConflict(err))
		_, err = s.GetCodexID(ctx, 1, "missing")
		require.True(t, IsNotFound(err))
	}

	// With a single connection, any leak above would block here.
	_, err := s.ListCodices(ctx, 1)
	require.NoError(t, err)
	assertPoolIdle(t, s)
}

func TestPool_ConcurrentMutations(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	id := mustCreateCodex(t, s, 1, "foo")

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			return s.UpsertArticle(ctx, id, "a", "same")
		})
		g.Go(func() error {
			_, err := s.LoadArticles(ctx, id)
			return err
		})
	}
	require.NoError(t, g.Wait())

	articles, err := s.LoadArticles(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "same"}, articles)
	assertPoolIdle(t, s)
}

func TestPool_ConcurrentCreatesOneWins(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	const n = 10
	results := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, results[i] = s.CreateCodex(ctx, 3, "race")
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func TestClassify(t *testing.T) {
	assert.Nil(t, classify("op", nil))

	orig := newError(ErrCodeConflict, "inner", "x")
	assert.Same(t, orig, classify("outer", orig))

	err := classify("op", errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, CodeOf(err))
	assert.Contains(t, err.Error(), "op: INTERNAL: boom")

	err = classify("op", context.Canceled)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, ErrorCode(""), CodeOf(err))
}
