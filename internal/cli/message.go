package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

// messageFlags describe where a locally typed message comes from.
type messageFlags struct {
	Chat      int64
	User      int64
	Private   bool
	ImagePath string
}

func (f *messageFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.Chat, "chat", 0, "chat id the message is sent in (required)")
	cmd.Flags().Int64Var(&f.User, "user", 1, "user id of the sender")
	cmd.Flags().BoolVar(&f.Private, "private", false, "send as a private chat")
	cmd.Flags().StringVar(&f.ImagePath, "image", "", "attach the image at this path")
	_ = cmd.MarkFlagRequired("chat")
}

// image reads the attachment once per command.
func (f *messageFlags) image() ([]byte, error) {
	if f.ImagePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.ImagePath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("failed to read image %s", f.ImagePath), err)
	}
	return data, nil
}

func (f *messageFlags) message(text string, image []byte) dispatch.Message {
	kind := dispatch.ChatGroup
	if f.Private {
		kind = dispatch.ChatPrivate
	}
	msg := dispatch.Message{
		ChatID:   f.Chat,
		ChatKind: kind,
		UserID:   f.User,
		Image:    image,
	}
	if len(image) > 0 {
		msg.Caption = text
	} else {
		msg.Text = text
	}
	return msg
}

// ReplyView is the JSON form of a dispatched message.
type ReplyView struct {
	Handled    bool   `json:"handled"`
	Text       string `json:"text,omitempty"`
	HTML       bool   `json:"html,omitempty"`
	ImageBytes int    `json:"image_bytes,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newReplyView(reply dispatch.Reply, handled bool, err error) ReplyView {
	v := ReplyView{
		Handled:    handled,
		Text:       reply.Text,
		HTML:       reply.HTML,
		ImageBytes: len(reply.Image),
	}
	if err != nil {
		v.Error = err.Error()
	}
	return v
}

// text renders a reply for a terminal.
func (v ReplyView) text() string {
	if v.ImageBytes > 0 {
		return fmt.Sprintf("%s\n[image, %d bytes]", v.Text, v.ImageBytes)
	}
	return v.Text
}
