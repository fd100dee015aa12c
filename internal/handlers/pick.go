package handlers

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/nouveaubot/nouveaubot/internal/codex"
)

// ErrNoArticles is returned when labels are needed but the codex has no
// articles left to choose from.
var ErrNoArticles = errors.New("no articles to choose from")

// UnknownArticleError reports a requested article missing from the codex.
type UnknownArticleError struct {
	Name string
}

// Error implements error.
func (e *UnknownArticleError) Error() string {
	return fmt.Sprintf("article %s not found", e.Name)
}

// PickArticles chooses n articles from a codex.
//
// Requested names come first, in order, and are capped at n; names past
// the cap are ignored, the kept ones must exist. Remaining slots are filled
// at random from the articles not already chosen, without replacement while
// the pool lasts and with replacement after that.
func PickArticles(articles map[string]string, requested []string, n int, rng *rand.Rand) ([]codex.Article, error) {
	if n <= 0 {
		return []codex.Article{}, nil
	}

	picks := make([]codex.Article, 0, n)
	chosen := make(map[string]bool, n)
	for _, name := range requested {
		if len(picks) == n {
			break
		}
		desc, ok := articles[name]
		if !ok {
			return nil, &UnknownArticleError{Name: name}
		}
		picks = append(picks, codex.Article{Name: name, Description: desc})
		chosen[name] = true
	}

	remaining := n - len(picks)
	if remaining == 0 {
		return picks, nil
	}

	// Sorted so a seeded rng gives reproducible picks.
	names := slices.Collect(maps.Keys(articles))
	sortNatural(names)
	pool := names[:0]
	for _, name := range names {
		if !chosen[name] {
			pool = append(pool, name)
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoArticles
	}

	if len(pool) >= remaining {
		for _, i := range rng.Perm(len(pool))[:remaining] {
			picks = append(picks, codex.Article{Name: pool[i], Description: articles[pool[i]]})
		}
		return picks, nil
	}

	for _, name := range pool {
		picks = append(picks, codex.Article{Name: name, Description: articles[name]})
	}
	for range remaining - len(pool) {
		name := pool[rng.IntN(len(pool))]
		picks = append(picks, codex.Article{Name: name, Description: articles[name]})
	}
	return picks, nil
}
