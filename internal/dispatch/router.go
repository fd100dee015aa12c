package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"

	"github.com/nouveaubot/nouveaubot/internal/command"
)

// Router matches messages against registered handlers.
//
// Register handlers before the first Dispatch; the router is then safe for
// concurrent use.
type Router struct {
	matcher  *command.Matcher
	ids      IDGenerator
	logger   *slog.Logger
	handlers []Handler
}

// Option configures a Router.
type Option func(*Router)

// WithIDGenerator overrides the request id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Router) { r.ids = g }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// NewRouter creates a router for the bot identity held by matcher.
func NewRouter(matcher *command.Matcher, opts ...Option) *Router {
	r := &Router{
		matcher: matcher,
		ids:     UUIDv7Generator{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register appends handlers. Earlier registrations win overlapping tokens.
func (r *Router) Register(handlers ...Handler) {
	r.handlers = append(r.handlers, handlers...)
}

// Handlers returns the registered handlers in registration order.
func (r *Router) Handlers() []Handler {
	return append([]Handler(nil), r.handlers...)
}

// Username returns the bot identity commands may be addressed to.
func (r *Router) Username() string {
	return r.matcher.Username()
}

// Route finds the handler for text without running it.
func (r *Router) Route(text string) (Handler, command.Invocation, bool) {
	inv, ok := r.matcher.Match(text)
	if !ok {
		return nil, command.Invocation{}, false
	}
	for _, h := range r.handlers {
		if h.Aliases().Match(inv.Token) {
			return h, inv, true
		}
	}
	return nil, command.Invocation{}, false
}

// Dispatch routes msg and runs the matching handler.
//
// handled is false when msg is not a command for any handler; that is not
// an error. A handler error is logged and returned; the transport decides
// whether to tell the user.
func (r *Router) Dispatch(ctx context.Context, msg Message) (reply Reply, handled bool, err error) {
	h, inv, ok := r.Route(msg.Body())
	if !ok {
		return Reply{}, false, nil
	}

	req := &Request{
		ID:          r.ids.Generate(),
		Message:     msg,
		Invocation:  inv,
		BotUsername: r.matcher.Username(),
	}

	log := r.logger.With(
		"request_id", req.ID,
		"chat_id", msg.ChatID,
		"token", inv.Token,
	)
	log.Debug("dispatching command", "args", len(inv.Args))

	reply, err = h.Handle(ctx, req)
	if err != nil {
		log.Error("handler failed", "error", err)
		return Reply{}, true, fmt.Errorf("handle /%s: %w", inv.Token, err)
	}
	return reply, true, nil
}

// MenuEntry is one line of the bot's public command list.
type MenuEntry struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

// menuCommand is the command syntax messaging clients accept in menus.
var menuCommand = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// Menu lists, for each handler, its first alias usable as a menu command.
// Handlers whose aliases are all unusable (e.g. Cyrillic only) are left out.
func (r *Router) Menu() []MenuEntry {
	out := []MenuEntry{}
	for _, h := range r.handlers {
		for _, name := range h.Aliases().Names() {
			if menuCommand.MatchString(name) {
				out = append(out, MenuEntry{Command: name, Description: h.Description()})
				break
			}
		}
	}
	return out
}
