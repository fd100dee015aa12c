package cli

import (
	"github.com/spf13/cobra"
)

// DispatchOptions holds flags for the dispatch command.
type DispatchOptions struct {
	*RootOptions
	messageFlags
}

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DispatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dispatch <message>",
		Short: "Send one message to the bot",
		Long: `Send one message to the bot and print its reply.

The message goes through the same matcher and handlers as chat traffic.
Exit code 1 means the message was not a command for this bot or the
handler failed.

Examples:
  nouveaubot dispatch --chat 42 "/ping"
  nouveaubot dispatch --chat 42 "/config_omon add moscow"
  nouveaubot dispatch --chat 42 --image face.jpg "/omon_moscow 105"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(opts, args[0], cmd)
		},
	}

	opts.messageFlags.register(cmd)

	return cmd
}

func runDispatch(opts *DispatchOptions, text string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	image, err := opts.image()
	if err != nil {
		return err
	}

	app, err := newApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	reply, handled, err := app.Router.Dispatch(cmd.Context(), opts.message(text, image))
	if err != nil {
		formatter.Error(ErrCodeHandler, err.Error(), nil)
		return WrapExitError(ExitFailure, "handler failed", err)
	}
	if !handled {
		formatter.Error(ErrCodeUsage, "not a command for this bot", nil)
		return NewExitError(ExitFailure, "not a command for this bot")
	}

	view := newReplyView(reply, handled, nil)
	return formatter.Success(view, view.text())
}
