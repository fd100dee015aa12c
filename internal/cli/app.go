package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nouveaubot/nouveaubot/internal/codex"
	"github.com/nouveaubot/nouveaubot/internal/command"
	"github.com/nouveaubot/nouveaubot/internal/config"
	"github.com/nouveaubot/nouveaubot/internal/dispatch"
	"github.com/nouveaubot/nouveaubot/internal/handlers"
)

// App is the wired bot shared by the commands of one process.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Provider *codex.Provider
	Router   *dispatch.Router
}

// newApp loads configuration, installs the logger and wires the bot.
// The store is opened lazily by the first command that needs it.
func newApp(opts *RootOptions, cmd *cobra.Command) (*App, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg, err := config.LoadWithEnv(opts.ConfigPath, getenv)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger, err := newLogger(cfg, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to configure logging", err)
	}
	slog.SetDefault(logger)

	provider := codex.NewProvider(cfg.StoreConfig())
	router, err := NewBot(cfg, provider, logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to wire handlers", err)
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Provider: provider,
		Router:   router,
	}, nil
}

// Close releases the store if it was opened.
func (a *App) Close() {
	if err := a.Provider.Close(); err != nil {
		a.Logger.Error("error closing codex store", "error", err)
	}
}

// NewBot registers every handler in menu order. Registration order also
// decides which handler wins if aliases ever overlap.
func NewBot(cfg config.Config, provider *codex.Provider, logger *slog.Logger) (*dispatch.Router, error) {
	suffix, err := cfg.SuffixPattern()
	if err != nil {
		return nil, err
	}

	router := dispatch.NewRouter(
		command.NewMatcher(cfg.Bot.Username),
		dispatch.WithIDGenerator(dispatch.UUIDv7Generator{}),
		dispatch.WithLogger(logger),
	)
	router.Register(
		handlers.NewStart(router),
		handlers.Ping{},
		handlers.NewConfigOmon(provider),
		handlers.NewOmon(provider, suffix),
	)
	return router, nil
}

func newLogger(cfg config.Config, verbose bool, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	hopts := &slog.HandlerOptions{Level: level}
	switch cfg.Logging.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Logging.Format)
	}
}
