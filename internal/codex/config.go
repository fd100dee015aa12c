package codex

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultGlobalName is the reserved name of the global fallback codex.
const DefaultGlobalName = "default"

// SQLiteConfig holds per-connection SQLite settings.
type SQLiteConfig struct {
	BusyTimeoutMs int
	Synchronous   string // OFF | NORMAL | FULL | EXTRA
	CacheSize     int
}

// PoolConfig bounds the connection pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// AcquireTimeout limits how long an operation waits for a free
	// connection. Zero waits until the caller's context is done.
	AcquireTimeout time.Duration
}

// NamingConfig controls which codex and article names are accepted.
// Patterns must match the whole name.
type NamingConfig struct {
	GlobalName        string
	CodexPattern      string
	ArticlePattern    string
	MaxDescriptionLen int // in runes
}

// Config configures a Store.
type Config struct {
	// Path is the SQLite database file. It is created if missing.
	Path string

	// SchemaPath optionally replaces the embedded schema script.
	SchemaPath string

	Pool   PoolConfig
	SQLite SQLiteConfig
	Naming NamingConfig
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Path: "omon.db",
		Pool: PoolConfig{
			MaxOpenConns:   4,
			MaxIdleConns:   4,
			AcquireTimeout: 5 * time.Second,
		},
		SQLite: SQLiteConfig{
			BusyTimeoutMs: 5000,
			Synchronous:   "FULL",
			CacheSize:     10000,
		},
		Naming: NamingConfig{
			GlobalName:        DefaultGlobalName,
			CodexPattern:      `[a-z]{1,32}`,
			ArticlePattern:    `[\p{L}\p{N}._-]{1,32}`,
			MaxDescriptionLen: 512,
		},
	}
}

// dsn builds a go-sqlite3 DSN carrying the pragmas every connection needs.
func (c Config) dsn() (string, error) {
	path := strings.TrimSpace(c.Path)
	if path == "" {
		return "", fmt.Errorf("database path is empty")
	}
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		// Each pooled connection would see its own private database.
		return "", fmt.Errorf("in-memory databases cannot be pooled: %q", path)
	}

	sync := strings.ToUpper(strings.TrimSpace(c.SQLite.Synchronous))
	switch sync {
	case "":
		sync = "FULL"
	case "OFF", "NORMAL", "FULL", "EXTRA":
	default:
		return "", fmt.Errorf("invalid synchronous mode %q", c.SQLite.Synchronous)
	}

	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", sync)
	q.Set("_busy_timeout", strconv.Itoa(c.SQLite.BusyTimeoutMs))
	q.Set("_txlock", "immediate")
	if c.SQLite.CacheSize != 0 {
		q.Set("_cache_size", strconv.Itoa(c.SQLite.CacheSize))
	}

	return path + "?" + q.Encode(), nil
}
