package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"

	"github.com/nouveaubot/nouveaubot/internal/codex"
	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

// Omon labels everyone on an image with articles from a codex.
//
// "/omon_<codex> [article...]" selects a chat codex by suffix and pins the
// first labels to the named articles. Without an image it lists the
// commands available in the chat.
type Omon struct {
	stores   StoreProvider
	suffix   *regexp.Regexp
	renderer Renderer

	mu  sync.Mutex
	rng *rand.Rand
}

// OmonOption configures an Omon handler.
type OmonOption func(*Omon)

// WithRenderer replaces the default TextRenderer.
func WithRenderer(r Renderer) OmonOption {
	return func(h *Omon) { h.renderer = r }
}

// WithRand seeds article picking. Tests use a fixed source.
func WithRand(rng *rand.Rand) OmonOption {
	return func(h *Omon) { h.rng = rng }
}

// NewOmon returns the handler. A nil suffix selects
// command.DefaultSuffixPattern.
func NewOmon(stores StoreProvider, suffix *regexp.Regexp, opts ...OmonOption) *Omon {
	if suffix == nil {
		suffix = command.DefaultSuffixPattern
	}
	h := &Omon{
		stores:   stores,
		suffix:   suffix,
		renderer: TextRenderer{Count: 1},
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Aliases returns /omon and /омон, each accepting a codex suffix.
func (h *Omon) Aliases() command.Aliases {
	return command.NewAliases("omon", "омон").WithSuffix(h.suffix, "omon", "омон")
}

// Description is the menu text.
func (h *Omon) Description() string { return "label everyone on a picture with an article" }

// Handle labels the attached image, or lists the chat's omon commands.
func (h *Omon) Handle(ctx context.Context, req *dispatch.Request) (dispatch.Reply, error) {
	msg := req.Message
	if !msg.HasChat() {
		return text("this command is not available here"), nil
	}

	store, err := h.stores.Store(ctx)
	if err != nil {
		return dispatch.Reply{}, err
	}

	if len(msg.Image) == 0 {
		return h.listing(ctx, store, msg.ChatID)
	}

	var requestedCodex string
	if _, suffix, ok := h.Aliases().Suffix(req.Invocation.Token); ok {
		requestedCodex = strings.ToLower(suffix)
	}
	var requested []string
	for _, line := range req.Invocation.Args {
		requested = append(requested, line...)
	}

	subjects, err := h.renderer.Subjects(ctx, msg.Image)
	if errors.Is(err, ErrBadImage) {
		return text("could not process the image"), nil
	}
	if err != nil {
		return dispatch.Reply{}, err
	}
	if subjects == 0 {
		return text("no faces detected"), nil
	}

	id, err := store.ResolveDefaultCodex(ctx, msg.ChatID, requestedCodex)
	if err != nil {
		return dispatch.Reply{}, err
	}
	articles, err := store.LoadArticles(ctx, id)
	if err != nil {
		return dispatch.Reply{}, err
	}

	h.mu.Lock()
	picks, err := PickArticles(articles, requested, subjects, h.rng)
	h.mu.Unlock()

	var unknown *UnknownArticleError
	switch {
	case errors.As(err, &unknown):
		return text(unknown.Error()), nil
	case errors.Is(err, ErrNoArticles):
		return text(ErrNoArticles.Error()), nil
	case err != nil:
		return dispatch.Reply{}, err
	}

	return h.renderer.Render(ctx, RenderRequest{Image: msg.Image, Picks: picks})
}

func (h *Omon) listing(ctx context.Context, store *codex.Store, chatID int64) (dispatch.Reply, error) {
	codices, err := store.ListCodices(ctx, chatID)
	if err != nil {
		return dispatch.Reply{}, err
	}

	var b strings.Builder
	b.WriteString("attach a picture.\ncommands available in this chat:\n• /omon")
	for _, c := range codices {
		fmt.Fprintf(&b, "\n• /omon_%s", html.EscapeString(c.Name))
	}
	return dispatch.Reply{Text: b.String(), HTML: true}, nil
}
