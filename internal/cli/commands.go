package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewCommandsCommand creates the commands command.
func NewCommandsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the bot's command menu",
		Long: `Print the command menu a transport publishes to chat clients.

Each handler contributes its first alias that clients accept as a menu
command (lowercase Latin letters, digits and underscores).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			app, err := newApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			menu := app.Router.Menu()
			lines := make([]string, len(menu))
			for i, e := range menu {
				lines[i] = fmt.Sprintf("%s - %s", e.Command, e.Description)
			}
			return formatter.Success(menu, strings.Join(lines, "\n"))
		},
	}
}
