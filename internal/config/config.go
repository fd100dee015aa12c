package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/nouveaubot/nouveaubot/internal/codex"
	"github.com/nouveaubot/nouveaubot/internal/command"
)

// Config is the complete bot configuration.
type Config struct {
	Bot     BotConfig     `yaml:"bot"`
	Store   StoreConfig   `yaml:"store"`
	Codex   CodexConfig   `yaml:"codex"`
	Logging LoggingConfig `yaml:"logging"`
}

// BotConfig identifies the bot.
type BotConfig struct {
	// Username is the bot's canonical username, accepted after "@" in
	// commands such as /ping@username.
	Username string `yaml:"username"`
}

// StoreConfig locates and tunes the codex database.
type StoreConfig struct {
	Path       string       `yaml:"path"`
	SchemaPath string       `yaml:"schema_path"`
	Pool       PoolConfig   `yaml:"pool"`
	SQLite     SQLiteConfig `yaml:"sqlite"`
}

type PoolConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	AcquireTimeout  time.Duration `yaml:"acquire_timeout"`
}

type SQLiteConfig struct {
	BusyTimeoutMs int    `yaml:"busy_timeout_ms"`
	Synchronous   string `yaml:"synchronous"`
	CacheSize     int    `yaml:"cache_size"`
}

// CodexConfig holds naming rules for codices and articles.
type CodexConfig struct {
	GlobalName        string `yaml:"global_name"`
	NamePattern       string `yaml:"name_pattern"`
	ArticlePattern    string `yaml:"article_pattern"`
	SuffixPattern     string `yaml:"suffix_pattern"`
	MaxDescriptionLen int    `yaml:"max_description_len"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	store := codex.DefaultConfig()
	return Config{
		Bot: BotConfig{Username: "ed25519bot"},
		Store: StoreConfig{
			Path: store.Path,
			Pool: PoolConfig{
				MaxOpenConns:    store.Pool.MaxOpenConns,
				MaxIdleConns:    store.Pool.MaxIdleConns,
				ConnMaxLifetime: store.Pool.ConnMaxLifetime,
				AcquireTimeout:  store.Pool.AcquireTimeout,
			},
			SQLite: SQLiteConfig{
				BusyTimeoutMs: store.SQLite.BusyTimeoutMs,
				Synchronous:   store.SQLite.Synchronous,
				CacheSize:     store.SQLite.CacheSize,
			},
		},
		Codex: CodexConfig{
			GlobalName:        store.Naming.GlobalName,
			NamePattern:       store.Naming.CodexPattern,
			ArticlePattern:    store.Naming.ArticlePattern,
			SuffixPattern:     "[a-z]+",
			MaxDescriptionLen: store.Naming.MaxDescriptionLen,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// StoreConfig converts the configuration into codex store settings.
func (c Config) StoreConfig() codex.Config {
	return codex.Config{
		Path:       c.Store.Path,
		SchemaPath: c.Store.SchemaPath,
		Pool: codex.PoolConfig{
			MaxOpenConns:    c.Store.Pool.MaxOpenConns,
			MaxIdleConns:    c.Store.Pool.MaxIdleConns,
			ConnMaxLifetime: c.Store.Pool.ConnMaxLifetime,
			AcquireTimeout:  c.Store.Pool.AcquireTimeout,
		},
		SQLite: codex.SQLiteConfig{
			BusyTimeoutMs: c.Store.SQLite.BusyTimeoutMs,
			Synchronous:   c.Store.SQLite.Synchronous,
			CacheSize:     c.Store.SQLite.CacheSize,
		},
		Naming: codex.NamingConfig{
			GlobalName:        c.Codex.GlobalName,
			CodexPattern:      c.Codex.NamePattern,
			ArticlePattern:    c.Codex.ArticlePattern,
			MaxDescriptionLen: c.Codex.MaxDescriptionLen,
		},
	}
}

// SuffixPattern compiles the suffix pattern used by suffix-enabled aliases.
func (c Config) SuffixPattern() (*regexp.Regexp, error) {
	return command.CompileSuffixPattern(c.Codex.SuffixPattern)
}

// LogLevel parses Logging.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.Logging.Level, err)
	}
	return lvl, nil
}

// Validate checks settings that may have come from the environment after
// schema validation.
func (c Config) Validate() error {
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is empty")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.Logging.Format)
	}
	if _, err := c.SuffixPattern(); err != nil {
		return err
	}
	return nil
}
