package harness

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nouveaubot/nouveaubot/internal/codex"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed: %s: expected %s, got %s", e.Type, e.Expected, e.Actual)
}

// EvaluateAssertions checks every assertion and returns one message per
// failure.
func EvaluateAssertions(ctx context.Context, store *codex.Store, result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertCodexArticles:
			err = assertCodexArticles(ctx, store, a)
		case AssertCodexList:
			err = assertCodexList(ctx, store, a)
		case AssertHandledCount:
			err = assertHandledCount(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func assertCodexArticles(ctx context.Context, store *codex.Store, a Assertion) error {
	var id int64
	var err error
	if a.Codex == "" {
		id, err = store.GlobalCodexID(ctx)
	} else {
		id, err = store.GetCodexID(ctx, a.Chat, a.Codex)
	}
	if err != nil {
		return &AssertionError{
			Type:     AssertCodexArticles,
			Expected: fmt.Sprintf("codex %q in chat %d", a.Codex, a.Chat),
			Actual:   err.Error(),
		}
	}

	got, err := store.LoadArticles(ctx, id)
	if err != nil {
		return err
	}
	if !maps.Equal(got, a.Articles) {
		return &AssertionError{
			Type:     AssertCodexArticles,
			Expected: formatArticles(a.Articles),
			Actual:   formatArticles(got),
		}
	}
	return nil
}

func assertCodexList(ctx context.Context, store *codex.Store, a Assertion) error {
	codices, err := store.ListCodices(ctx, a.Chat)
	if err != nil {
		return err
	}

	names := make([]string, len(codices))
	for i, c := range codices {
		names[i] = c.Name
	}
	if !slices.Equal(names, a.Names) {
		return &AssertionError{
			Type:     AssertCodexList,
			Expected: fmt.Sprintf("%v", a.Names),
			Actual:   fmt.Sprintf("%v", names),
		}
	}
	return nil
}

func assertHandledCount(result *Result, a Assertion) error {
	if got := result.HandledCount(); got != a.Count {
		return &AssertionError{
			Type:     AssertHandledCount,
			Expected: fmt.Sprint(a.Count),
			Actual:   fmt.Sprint(got),
		}
	}
	return nil
}

// checkExpect compares an exchange with its expect clause.
func checkExpect(ex Exchange, want Expect) []string {
	var failures []string
	if want.Handled != nil && *want.Handled != ex.Handled {
		failures = append(failures, fmt.Sprintf("handled = %v, want %v", ex.Handled, *want.Handled))
	}
	if want.Reply != "" && ex.Reply != want.Reply {
		failures = append(failures, fmt.Sprintf("reply = %q, want %q", ex.Reply, want.Reply))
	}
	if want.Contains != "" && !strings.Contains(ex.Reply, want.Contains) {
		failures = append(failures, fmt.Sprintf("reply = %q, want it to contain %q", ex.Reply, want.Contains))
	}
	if want.Error != "" && !strings.Contains(ex.Error, want.Error) {
		failures = append(failures, fmt.Sprintf("error = %q, want it to contain %q", ex.Error, want.Error))
	}
	if want.Error == "" && ex.Error != "" {
		failures = append(failures, fmt.Sprintf("unexpected error: %s", ex.Error))
	}
	return failures
}

func formatArticles(articles map[string]string) string {
	names := slices.Sorted(maps.Keys(articles))
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = fmt.Sprintf("%s=%q", n, articles[n])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
