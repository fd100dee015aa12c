package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/nouveaubot/nouveaubot/internal/codex"
	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

// ConfigOmon manages the codices of the chat it is used in.
//
// Each message is one complete action; nothing is remembered between
// messages. Resolving a codex name and then writing to it are separate
// store operations, so a concurrent delete in between surfaces as
// "codex not found" rather than a stale write.
type ConfigOmon struct {
	stores StoreProvider
}

// NewConfigOmon returns the handler backed by stores.
func NewConfigOmon(stores StoreProvider) *ConfigOmon {
	return &ConfigOmon{stores: stores}
}

// Aliases returns /config_omon and its Cyrillic form.
func (h *ConfigOmon) Aliases() command.Aliases {
	return command.NewAliases("config_omon", "конфиг_омон")
}

// Description is the menu text.
func (h *ConfigOmon) Description() string { return "configure codices of this chat" }

// Handle runs one sub-command against the chat's codices.
func (h *ConfigOmon) Handle(ctx context.Context, req *dispatch.Request) (dispatch.Reply, error) {
	msg := req.Message
	if !msg.HasChat() {
		return text("this command is not available here"), nil
	}

	store, err := h.stores.Store(ctx)
	if err != nil {
		return dispatch.Reply{}, err
	}

	switch sc := parseSubcommand(req.Invocation.Args).(type) {
	case showUsage:
		return h.usage(ctx, store, msg.ChatID)

	case badUsage:
		return dispatch.Reply{Text: sc.usage, HTML: true}, nil

	case addCodex:
		if _, err := store.CreateCodex(ctx, msg.ChatID, sc.name); err != nil {
			return storeErrorReply(err)
		}
		return text("added: " + sc.name), nil

	case delCodex:
		n, err := store.DeleteCodex(ctx, msg.ChatID, sc.name)
		if err != nil {
			return storeErrorReply(err)
		}
		return deletedReply(n), nil

	case addArticle:
		id, err := store.GetCodexID(ctx, msg.ChatID, sc.codex)
		if err != nil {
			return codexLookupReply(err)
		}
		if err := store.UpsertArticle(ctx, id, sc.article, sc.description); err != nil {
			return storeErrorReply(err)
		}
		return text("ok"), nil

	case delArticle:
		id, err := store.GetCodexID(ctx, msg.ChatID, sc.codex)
		if err != nil {
			return codexLookupReply(err)
		}
		n, err := store.DeleteArticle(ctx, id, sc.article)
		if err != nil {
			return storeErrorReply(err)
		}
		return deletedReply(n), nil

	default:
		panic(fmt.Sprintf("config_omon: unhandled subcommand %T", sc))
	}
}

func (h *ConfigOmon) usage(ctx context.Context, store *codex.Store, chatID int64) (dispatch.Reply, error) {
	codices, err := store.ListCodices(ctx, chatID)
	if err != nil {
		return dispatch.Reply{}, err
	}

	var b strings.Builder
	b.WriteString("codices in this chat:\n")
	if len(codices) == 0 {
		b.WriteString("(none)\n")
	}
	for _, c := range codices {
		fmt.Fprintf(&b, "• %s (%d)\n", html.EscapeString(c.Name), c.ArticleCount)
	}
	for _, u := range []string{usageAdd, usageAdds, usageDel, usageDels} {
		b.WriteString("\n" + u + "\n")
	}

	return dispatch.Reply{Text: strings.TrimSuffix(b.String(), "\n"), HTML: true}, nil
}

func text(s string) dispatch.Reply {
	return dispatch.Reply{Text: s}
}

func deletedReply(n int64) dispatch.Reply {
	if n == 0 {
		return text("not found")
	}
	return text("deleted")
}

func codexLookupReply(err error) (dispatch.Reply, error) {
	if codex.IsNotFound(err) {
		return text("codex not found"), nil
	}
	return storeErrorReply(err)
}

// storeErrorReply turns errors the user can fix into a chat reply.
// Transient and internal failures go back to the dispatcher.
func storeErrorReply(err error) (dispatch.Reply, error) {
	var e *codex.Error
	if !errors.As(err, &e) {
		return dispatch.Reply{}, err
	}
	switch e.Code {
	case codex.ErrCodeInvalidArgument, codex.ErrCodeConflict, codex.ErrCodeNotFound:
		return text("error: " + e.Message), nil
	}
	return dispatch.Reply{}, err
}
