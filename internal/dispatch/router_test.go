package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nouveaubot/nouveaubot/internal/command"
)

// stubHandler records the requests it receives.
type stubHandler struct {
	aliases command.Aliases
	desc    string
	reply   Reply
	err     error
	got     []*Request
}

func (h *stubHandler) Aliases() command.Aliases { return h.aliases }
func (h *stubHandler) Description() string      { return h.desc }

func (h *stubHandler) Handle(_ context.Context, req *Request) (Reply, error) {
	h.got = append(h.got, req)
	return h.reply, h.err
}

func newTestRouter(handlers ...Handler) *Router {
	r := NewRouter(command.NewMatcher("ed25519bot"), WithIDGenerator(NewSequenceGenerator("req-1", "req-2")))
	r.Register(handlers...)
	return r
}

func TestDispatch_RoutesToMatchingHandler(t *testing.T) {
	ping := &stubHandler{aliases: command.NewAliases("ping"), reply: Reply{Text: "pong"}}
	other := &stubHandler{aliases: command.NewAliases("other")}
	r := newTestRouter(other, ping)

	reply, handled, err := r.Dispatch(context.Background(), Message{ChatID: 42, ChatKind: ChatGroup, Text: "/ping@ed25519bot"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "pong", reply.Text)

	require.Len(t, ping.got, 1)
	assert.Empty(t, other.got)

	req := ping.got[0]
	assert.Equal(t, "req-1", req.ID)
	assert.Equal(t, "ping", req.Invocation.Token)
	assert.Equal(t, int64(42), req.Message.ChatID)
	assert.Equal(t, "ed25519bot", req.BotUsername)
}

func TestDispatch_EndToEndArguments(t *testing.T) {
	cfg := &stubHandler{aliases: command.NewAliases("config_omon", "конфиг_омон")}
	r := newTestRouter(cfg)

	_, handled, err := r.Dispatch(context.Background(), Message{ChatID: 42, ChatKind: ChatGroup, Text: "/config_omon add testcode"})
	require.NoError(t, err)
	require.True(t, handled)

	inv := cfg.got[0].Invocation
	assert.Equal(t, "config_omon", inv.Token)
	assert.Equal(t, [][]string{{"add", "testcode"}}, inv.Args)
}

func TestDispatch_SuffixAlias(t *testing.T) {
	omon := &stubHandler{aliases: command.NewAliases("omon").WithSuffix(nil, "omon")}
	r := newTestRouter(omon)

	_, handled, err := r.Dispatch(context.Background(), Message{ChatKind: ChatGroup, Text: "/omon_english 228"})
	require.NoError(t, err)
	assert.True(t, handled)

	_, handled, err = r.Dispatch(context.Background(), Message{ChatKind: ChatGroup, Text: "/omon_1"})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestDispatch_NotACommand(t *testing.T) {
	h := &stubHandler{aliases: command.NewAliases("ping")}
	r := newTestRouter(h)

	for _, text := range []string{"", "hello", "/unknown", "/ping@otherbot"} {
		reply, handled, err := r.Dispatch(context.Background(), Message{Text: text})
		assert.NoError(t, err)
		assert.False(t, handled, text)
		assert.True(t, reply.Empty())
	}
	assert.Empty(t, h.got)
}

func TestDispatch_CaptionFallback(t *testing.T) {
	h := &stubHandler{aliases: command.NewAliases("omon")}
	r := newTestRouter(h)

	_, handled, err := r.Dispatch(context.Background(), Message{Caption: "/omon 228", Image: []byte{1}})
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestDispatch_FirstRegisteredWins(t *testing.T) {
	first := &stubHandler{aliases: command.NewAliases("ping")}
	second := &stubHandler{aliases: command.NewAliases("ping", "pong")}
	r := newTestRouter(first, second)

	_, _, err := r.Dispatch(context.Background(), Message{Text: "/ping"})
	require.NoError(t, err)
	assert.Len(t, first.got, 1)
	assert.Empty(t, second.got)
}

func TestDispatch_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	h := &stubHandler{aliases: command.NewAliases("ping"), err: boom}
	r := newTestRouter(h)

	_, handled, err := r.Dispatch(context.Background(), Message{Text: "/ping"})
	assert.True(t, handled)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "/ping")
}

func TestRoute(t *testing.T) {
	h := &stubHandler{aliases: command.NewAliases("ping")}
	r := newTestRouter(h)

	got, inv, ok := r.Route("/ping a b")
	require.True(t, ok)
	assert.Same(t, h, got)
	assert.Equal(t, [][]string{{"a", "b"}}, inv.Args)

	_, _, ok = r.Route("/nope")
	assert.False(t, ok)
}

func TestMenu(t *testing.T) {
	r := newTestRouter(
		&stubHandler{aliases: command.NewAliases("omon", "омон"), desc: "articles"},
		&stubHandler{aliases: command.NewAliases("конфиг"), desc: "cyrillic only"},
		&stubHandler{aliases: command.NewAliases("config_omon", "конфиг_омон"), desc: "settings"},
	)

	assert.Equal(t, []MenuEntry{
		{Command: "omon", Description: "articles"},
		{Command: "config_omon", Description: "settings"},
	}, r.Menu())
}

func TestHandlers_ReturnsCopy(t *testing.T) {
	r := newTestRouter(&stubHandler{aliases: command.NewAliases("a")})
	hs := r.Handlers()
	hs[0] = nil
	assert.NotNil(t, r.Handlers()[0])
}

func TestMessage(t *testing.T) {
	assert.False(t, Message{}.HasChat())
	assert.True(t, Message{ChatKind: ChatPrivate}.HasChat())
	assert.Equal(t, "caption", Message{Caption: "caption"}.Body())
	assert.Equal(t, "text", Message{Text: "text", Caption: "caption"}.Body())
	assert.Equal(t, "group", ChatGroup.String())
	assert.Equal(t, "none", ChatNone.String())
}
