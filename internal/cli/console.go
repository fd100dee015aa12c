package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

// ConsoleOptions holds flags for the console command.
type ConsoleOptions struct {
	*RootOptions
	messageFlags
}

// NewConsoleCommand creates the console command.
func NewConsoleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConsoleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the bot on stdin",
		Long: `Read messages from stdin, one per line, and print the bot's replies.

A line ending in a backslash continues on the next line, which lets
/config_omon adds take a multi-line description. Messages that are not
commands for this bot print nothing. Handler failures are reported on
stderr and the console keeps reading.

With --format json every message prints one JSON object per line.

Example:
  printf '/config_omon add moscow\n/omon\n' | nouveaubot console --chat 42`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsole(opts, cmd)
		},
	}

	opts.messageFlags.register(cmd)

	return cmd
}

func runConsole(opts *ConsoleOptions, cmd *cobra.Command) error {
	image, err := opts.image()
	if err != nil {
		return err
	}

	app, err := newApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	app.Logger.Debug("console started", "chat_id", opts.Chat, "private", opts.Private)

	messages := readMessages(cmd.InOrStdin())
	for {
		text, ok, err := messages()
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		if !ok || ctx.Err() != nil {
			return nil
		}

		reply, handled, err := app.Router.Dispatch(ctx, opts.message(text, image))
		view := newReplyView(reply, handled, err)

		if opts.Format == "json" {
			if err := enc.Encode(view); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if handled {
			fmt.Fprintln(out, view.text())
		}
	}
}

// readMessages returns an iterator over the messages in r. Blank lines are
// skipped and a trailing backslash joins a line with the next one.
func readMessages(r io.Reader) func() (string, bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	return func() (string, bool, error) {
		var parts []string
		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), "\r")
			if cont, found := strings.CutSuffix(line, `\`); found {
				parts = append(parts, cont)
				continue
			}
			parts = append(parts, line)

			msg := strings.Join(parts, "\n")
			parts = parts[:0]
			if strings.TrimSpace(msg) == "" {
				continue
			}
			return msg, true, nil
		}
		if err := scanner.Err(); err != nil {
			return "", false, err
		}
		if msg := strings.Join(parts, "\n"); strings.TrimSpace(msg) != "" {
			return msg, true, nil
		}
		return "", false, nil
	}
}
