package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
	"github.com/nouveaubot/nouveaubot/internal/testutil"
)

func newStartRouter(t *testing.T) (*dispatch.Router, *Start) {
	p := testutil.NewProvider(t)

	r := dispatch.NewRouter(command.NewMatcher(testBot))
	start := NewStart(r)
	r.Register(start, Ping{}, NewConfigOmon(p), NewOmon(p, nil))
	return r, start
}

func TestStart_Group(t *testing.T) {
	_, start := newStartRouter(t)

	reply := handle(t, start, "/start", groupMessage(10))
	assert.True(t, reply.HTML)
	newGoldie(t).Assert(t, "start_group", []byte(reply.Text))
}

func TestStart_Private(t *testing.T) {
	_, start := newStartRouter(t)

	reply := handle(t, start, "/help", dispatch.Message{ChatID: 10, ChatKind: dispatch.ChatPrivate})
	assert.True(t, reply.HTML)
	newGoldie(t).Assert(t, "start_private", []byte(reply.Text))
}

func TestStart_OnlyFooter(t *testing.T) {
	r := dispatch.NewRouter(command.NewMatcher(testBot))
	start := NewStart(r)
	r.Register(start)

	reply := handle(t, start, "/start", groupMessage(10))
	assert.Equal(t, sourceFooter, reply.Text)
}
