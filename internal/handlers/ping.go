package handlers

import (
	"context"

	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

// Ping answers "pong".
type Ping struct{}

// Aliases returns /ping and /пинг.
func (Ping) Aliases() command.Aliases { return command.NewAliases("ping", "пинг") }

// Description is the menu text.
func (Ping) Description() string { return "check that the bot is alive" }

// Handle replies "pong".
func (Ping) Handle(context.Context, *dispatch.Request) (dispatch.Reply, error) {
	return dispatch.Reply{Text: "pong"}, nil
}
