package handlers

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

const testBot = "testbot"

// request builds what the router would hand to a handler for text.
func request(t *testing.T, text string, msg dispatch.Message) *dispatch.Request {
	t.Helper()

	inv, ok := command.NewMatcher(testBot).Match(text)
	require.True(t, ok, "not a command: %q", text)

	msg.Text = text
	return &dispatch.Request{
		ID:          "request",
		Message:     msg,
		Invocation:  inv,
		BotUsername: testBot,
	}
}

func groupMessage(chatID int64) dispatch.Message {
	return dispatch.Message{ChatID: chatID, ChatKind: dispatch.ChatGroup, UserID: 1}
}

func handle(t *testing.T, h dispatch.Handler, text string, msg dispatch.Message) dispatch.Reply {
	t.Helper()
	reply, err := h.Handle(context.Background(), request(t, text, msg))
	require.NoError(t, err)
	return reply
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
