package handlers

import (
	"context"
	"html"
	"strings"

	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

const sourceFooter = `<a href="https://github.com/nouveau-nvc0/nouveaubot">Source code</a>`

// HandlerLister exposes the registered handlers. *dispatch.Router implements it.
type HandlerLister interface {
	Handlers() []dispatch.Handler
}

// Start lists the bot's commands.
type Start struct {
	handlers HandlerLister
}

// NewStart returns the handler listing the commands of handlers.
func NewStart(handlers HandlerLister) *Start {
	return &Start{handlers: handlers}
}

// Aliases returns /start and /help.
func (s *Start) Aliases() command.Aliases { return command.NewAliases("start", "help") }

// Description is the menu text.
func (s *Start) Description() string { return "list commands" }

// Handle renders one entry per handler. Outside private chats commands are
// addressed to the bot explicitly so that other bots ignore them.
func (s *Start) Handle(_ context.Context, req *dispatch.Request) (dispatch.Reply, error) {
	tag := ""
	if req.Message.ChatKind != dispatch.ChatPrivate && req.BotUsername != "" {
		tag = "@" + req.BotUsername
	}

	var entries []string
	for _, h := range s.handlers.Handlers() {
		if h == dispatch.Handler(s) {
			continue
		}
		entries = append(entries,
			"<b>/"+html.EscapeString(h.Aliases().Primary()+tag)+"</b>: "+html.EscapeString(h.Description()))
	}
	entries = append(entries, sourceFooter)

	return dispatch.Reply{Text: strings.Join(entries, "\n\n"), HTML: true}, nil
}
