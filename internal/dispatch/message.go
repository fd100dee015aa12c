package dispatch

import (
	"context"

	"github.com/nouveaubot/nouveaubot/internal/command"
)

// ChatKind distinguishes where a message was sent.
type ChatKind int

const (
	// ChatNone means the message carries no chat (e.g. inline queries).
	ChatNone ChatKind = iota
	// ChatPrivate is a one-to-one chat with the bot.
	ChatPrivate
	// ChatGroup is any multi-user chat.
	ChatGroup
)

// String returns the lowercase name of the chat kind.
func (k ChatKind) String() string {
	switch k {
	case ChatPrivate:
		return "private"
	case ChatGroup:
		return "group"
	default:
		return "none"
	}
}

// Message is an inbound message as delivered by a transport.
type Message struct {
	ChatID   int64
	ChatKind ChatKind
	UserID   int64
	Text     string
	Caption  string
	Image    []byte
}

// HasChat reports whether the message belongs to a chat.
func (m Message) HasChat() bool {
	return m.ChatKind != ChatNone
}

// Body returns the text, or the caption for media messages.
func (m Message) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// Reply is what a handler sends back. A zero Reply sends nothing.
type Reply struct {
	Text string
	HTML bool

	Image     []byte
	ImageName string
}

// Empty reports whether the reply carries nothing to send.
func (r Reply) Empty() bool {
	return r.Text == "" && len(r.Image) == 0
}

// Request is one routed command.
type Request struct {
	// ID correlates logs for this command.
	ID string

	Message    Message
	Invocation command.Invocation

	// BotUsername is the identity the command was addressed to.
	BotUsername string
}

// Handler serves every command whose token matches its aliases.
type Handler interface {
	Aliases() command.Aliases
	Description() string
	Handle(ctx context.Context, req *Request) (Reply, error)
}
