package harness

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"

	"github.com/nouveaubot/nouveaubot/internal/codex"
	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
	"github.com/nouveaubot/nouveaubot/internal/handlers"
)

// Harness runs one scenario against a private store.
type Harness struct {
	router *dispatch.Router
	ids    *idRecorder
	image  []byte
	logger *slog.Logger
}

// idRecorder remembers the last request id handed to the router.
type idRecorder struct {
	next dispatch.IDGenerator
	last string
}

func (r *idRecorder) Generate() string {
	r.last = r.next.Generate()
	return r.last
}

// Run executes scenario with its database created under dir.
//
// An error is returned only if the harness itself cannot run. Failed
// expectations and assertions are reported in the Result.
func Run(ctx context.Context, scenario *Scenario, dir string) (*Result, error) {
	cfg := codex.DefaultConfig()
	cfg.Path = filepath.Join(dir, scenario.Name+".db")

	provider := codex.NewProvider(cfg)
	defer provider.Close()

	store, err := provider.Store(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	img, err := sampleImage()
	if err != nil {
		return nil, fmt.Errorf("failed to encode sample image: %w", err)
	}

	ids := &idRecorder{next: stepIDs(len(scenario.Steps))}
	h := &Harness{
		router: newRouter(scenario, provider, ids),
		ids:    ids,
		image:  img,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := h.executeSetup(ctx, store, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	result := NewResult()
	h.executeSteps(ctx, scenario.Steps, result)

	for _, msg := range EvaluateAssertions(ctx, store, result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// newRouter registers the production handlers in production order.
func newRouter(scenario *Scenario, provider *codex.Provider, ids dispatch.IDGenerator) *dispatch.Router {
	bot := scenario.Bot
	if bot == "" {
		bot = DefaultBot
	}
	subjects := scenario.Subjects
	if subjects == 0 {
		subjects = 1
	}

	router := dispatch.NewRouter(command.NewMatcher(bot), dispatch.WithIDGenerator(ids))
	router.Register(
		handlers.NewStart(router),
		handlers.Ping{},
		handlers.NewConfigOmon(provider),
		handlers.NewOmon(provider, nil,
			handlers.WithRenderer(handlers.TextRenderer{Count: subjects}),
			handlers.WithRand(rand.New(rand.NewPCG(scenario.Seed, scenario.Seed))),
		),
	)
	return router
}

// stepIDs numbers requests req-1, req-2, ... in dispatch order.
func stepIDs(n int) dispatch.IDGenerator {
	ids := make([]string, max(n, 1))
	for i := range ids {
		ids[i] = fmt.Sprintf("req-%d", i+1)
	}
	return dispatch.NewSequenceGenerator(ids...)
}

func (h *Harness) executeSetup(ctx context.Context, store *codex.Store, setup []SetupCodex) error {
	for i, sc := range setup {
		var id int64
		var err error
		if sc.Codex == "" {
			id, err = store.GlobalCodexID(ctx)
		} else {
			id, err = store.CreateCodex(ctx, sc.Chat, sc.Codex)
		}
		if err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}

		for name, desc := range sc.Articles {
			if err := store.UpsertArticle(ctx, id, name, desc); err != nil {
				return fmt.Errorf("setup[%d]: article %q: %w", i, name, err)
			}
		}

		h.logger.Info("setup codex seeded",
			"chat_id", sc.Chat,
			"codex", sc.Codex,
			"articles", len(sc.Articles),
		)
	}
	return nil
}

// executeSteps dispatches every step in order, recording each exchange
// and checking its expect clause.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		msg := dispatch.Message{
			ChatID:   step.Chat,
			ChatKind: chatKind(step.Kind),
			UserID:   1,
			Text:     step.Text,
		}
		if step.Image {
			msg.Image = h.image
		}

		ex := Exchange{
			Step:   i + 1,
			ChatID: step.Chat,
			Text:   step.Text,
			Image:  step.Image,
		}

		h.ids.last = ""
		reply, handled, err := h.router.Dispatch(ctx, msg)
		ex.Handled = handled
		if err != nil {
			ex.Error = err.Error()
		}
		ex.Reply = reply.Text
		ex.HTML = reply.HTML
		ex.RequestID = h.ids.last

		result.Transcript = append(result.Transcript, ex)

		if step.Expect != nil {
			for _, msg := range checkExpect(ex, *step.Expect) {
				result.AddError(fmt.Sprintf("steps[%d]: %s", i, msg))
			}
		}
	}
}

func chatKind(kind string) dispatch.ChatKind {
	switch kind {
	case "private":
		return dispatch.ChatPrivate
	case "none":
		return dispatch.ChatNone
	default:
		return dispatch.ChatGroup
	}
}

// sampleImage encodes the picture attached to image steps.
func sampleImage() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{G: 0xff, A: 0xff})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
