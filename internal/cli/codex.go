package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nouveaubot/nouveaubot/internal/codex"
)

// CodexOptions holds flags shared by the codex subcommands.
type CodexOptions struct {
	*RootOptions
	Chat   int64
	Global bool
}

// NewCodexCommand creates the codex command group.
func NewCodexCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CodexOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "codex",
		Short: "Manage codices and articles directly",
		Long: `Manage codices and articles without going through chat commands.

Chat codices are addressed by --chat and name. Article subcommands take
--global instead of a codex name to edit the global fallback codex.

Examples:
  nouveaubot codex list --chat 42
  nouveaubot codex create --chat 42 moscow
  nouveaubot codex upsert --chat 42 moscow 105 "wilful murder"
  nouveaubot codex upsert --global 228 "possession"
  nouveaubot codex articles --global`,
	}

	cmd.PersistentFlags().Int64Var(&opts.Chat, "chat", 0, "chat id owning the codex")
	cmd.PersistentFlags().BoolVar(&opts.Global, "global", false, "use the global codex (article subcommands)")

	cmd.AddCommand(
		newCodexListCommand(opts),
		newCodexCreateCommand(opts),
		newCodexDeleteCommand(opts),
		newCodexArticlesCommand(opts),
		newCodexUpsertCommand(opts),
		newCodexRemoveCommand(opts),
	)

	return cmd
}

// codexRun opens the store and runs fn with a formatter bound to cmd.
func codexRun(opts *CodexOptions, cmd *cobra.Command, fn func(context.Context, *codex.Store, *OutputFormatter) error) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	app, err := newApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	store, err := app.Provider.Store(ctx)
	if err != nil {
		return formatter.StoreError(err)
	}
	formatter.VerboseLog("codex store: %s", app.Config.Store.Path)

	return fn(ctx, store, formatter)
}

// resolveCodex maps positional args to the target codex id and the
// remaining args. With --global the codex name is omitted.
func (o *CodexOptions) resolveCodex(ctx context.Context, store *codex.Store, args []string) (int64, []string, error) {
	if o.Global {
		id, err := store.GlobalCodexID(ctx)
		return id, args, err
	}
	if len(args) == 0 {
		return 0, nil, NewExitError(ExitCommandError, "codex name is required unless --global is set")
	}
	id, err := store.GetCodexID(ctx, o.Chat, args[0])
	return id, args[1:], err
}

func newCodexListCommand(opts *CodexOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the codices of a chat",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codexRun(opts, cmd, func(ctx context.Context, store *codex.Store, f *OutputFormatter) error {
				codices, err := store.ListCodices(ctx, opts.Chat)
				if err != nil {
					return f.StoreError(err)
				}

				var b strings.Builder
				for _, c := range codices {
					fmt.Fprintf(&b, "%s\t%d articles\n", c.Name, c.ArticleCount)
				}
				if len(codices) == 0 {
					b.WriteString("no codices\n")
				}
				return f.Success(codices, strings.TrimSuffix(b.String(), "\n"))
			})
		},
	}
}

func newCodexCreateCommand(opts *CodexOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "create <name>",
		Short:         "Create a codex in a chat",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codexRun(opts, cmd, func(ctx context.Context, store *codex.Store, f *OutputFormatter) error {
				id, err := store.CreateCodex(ctx, opts.Chat, args[0])
				if err != nil {
					return f.StoreError(err)
				}
				return f.Success(map[string]any{"id": id, "name": args[0]}, fmt.Sprintf("created %s (id %d)", args[0], id))
			})
		},
	}
}

func newCodexDeleteCommand(opts *CodexOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a codex and its articles",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codexRun(opts, cmd, func(ctx context.Context, store *codex.Store, f *OutputFormatter) error {
				n, err := store.DeleteCodex(ctx, opts.Chat, args[0])
				if err != nil {
					return f.StoreError(err)
				}
				return f.Success(map[string]any{"deleted": n}, fmt.Sprintf("deleted %d codex", n))
			})
		},
	}
}

func newCodexArticlesCommand(opts *CodexOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "articles [codex]",
		Short:         "List the articles of a codex",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codexRun(opts, cmd, func(ctx context.Context, store *codex.Store, f *OutputFormatter) error {
				id, _, err := opts.resolveCodex(ctx, store, args)
				if err != nil {
					return storeOrExit(f, err)
				}
				articles, err := store.ListArticles(ctx, id)
				if err != nil {
					return f.StoreError(err)
				}

				lines := make([]string, 0, len(articles))
				for _, a := range articles {
					lines = append(lines, a.Name+"\t"+strings.ReplaceAll(a.Description, "\n", " / "))
				}
				if len(lines) == 0 {
					lines = append(lines, "no articles")
				}
				return f.Success(articles, strings.Join(lines, "\n"))
			})
		},
	}
}

func newCodexUpsertCommand(opts *CodexOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "upsert [codex] <article> <description...>",
		Short:         "Create or replace an article",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codexRun(opts, cmd, func(ctx context.Context, store *codex.Store, f *OutputFormatter) error {
				id, rest, err := opts.resolveCodex(ctx, store, args)
				if err != nil {
					return storeOrExit(f, err)
				}
				if len(rest) < 2 {
					return NewExitError(ExitCommandError, "article name and description are required")
				}
				name, desc := rest[0], strings.Join(rest[1:], " ")
				if err := store.UpsertArticle(ctx, id, name, desc); err != nil {
					return f.StoreError(err)
				}
				return f.Success(map[string]any{"codex_id": id, "article": name}, "ok")
			})
		},
	}
}

func newCodexRemoveCommand(opts *CodexOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove [codex] <article>",
		Short:         "Delete an article",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return codexRun(opts, cmd, func(ctx context.Context, store *codex.Store, f *OutputFormatter) error {
				id, rest, err := opts.resolveCodex(ctx, store, args)
				if err != nil {
					return storeOrExit(f, err)
				}
				if len(rest) != 1 {
					return NewExitError(ExitCommandError, "exactly one article name is required")
				}
				n, err := store.DeleteArticle(ctx, id, rest[0])
				if err != nil {
					return f.StoreError(err)
				}
				return f.Success(map[string]any{"deleted": n}, fmt.Sprintf("deleted %d article", n))
			})
		},
	}
}

// storeOrExit passes CLI exit errors through and reports store errors.
func storeOrExit(f *OutputFormatter, err error) error {
	if codex.CodeOf(err) == "" {
		return err
	}
	return f.StoreError(err)
}
