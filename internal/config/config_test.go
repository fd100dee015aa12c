package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadWithEnv("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "ed25519bot", cfg.Bot.Username)
	assert.Equal(t, "omon.db", cfg.Store.Path)
}

func TestLoad_FullFile(t *testing.T) {
	cfg, err := LoadWithEnv("testdata/full.yaml", noEnv)
	require.NoError(t, err)

	assert.Equal(t, "omonbot", cfg.Bot.Username)
	assert.Equal(t, "/var/lib/nouveaubot/omon.db", cfg.Store.Path)
	assert.Equal(t, 8, cfg.Store.Pool.MaxOpenConns)
	assert.Equal(t, 2, cfg.Store.Pool.MaxIdleConns)
	assert.Equal(t, 250*time.Millisecond, cfg.Store.Pool.AcquireTimeout)
	assert.Equal(t, 1000, cfg.Store.SQLite.BusyTimeoutMs)
	assert.Equal(t, "NORMAL", cfg.Store.SQLite.Synchronous)
	assert.Equal(t, "global", cfg.Codex.GlobalName)
	assert.Equal(t, 200, cfg.Codex.MaxDescriptionLen)
	assert.Equal(t, "json", cfg.Logging.Format)

	// Unset keys keep their defaults.
	assert.Equal(t, Default().Codex.NamePattern, cfg.Codex.NamePattern)
	assert.Equal(t, Default().Store.SQLite.CacheSize, cfg.Store.SQLite.CacheSize)

	lvl, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := LoadWithEnv(writeConfig(t, ""), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "bot:\n  nickname: x\n", "nickname"},
		{"bad pool size", "store:\n  pool:\n    max_open_conns: 0\n", "max_open_conns"},
		{"bad duration", "store:\n  pool:\n    acquire_timeout: soon\n", "acquire_timeout"},
		{"bad synchronous", "store:\n  sqlite:\n    synchronous: SOMETIMES\n", "synchronous"},
		{"bad level", "logging:\n  level: loud\n", "level"},
		{"bad global name", "codex:\n  global_name: Global\n", "global_name"},
		{"wrong type", "bot:\n  username: 42\n", "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithEnv(writeConfig(t, tt.body), noEnv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := LoadWithEnv(writeConfig(t, "bot: [unclosed"), noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse yaml")
}

func TestLoad_EnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvUsername:   "envbot",
		EnvDBPath:     "/data",
		EnvStaticPath: "/static",
		EnvLogLevel:   "WARN",
	}

	cfg, err := LoadWithEnv("testdata/full.yaml", func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "envbot", cfg.Bot.Username)
	assert.Equal(t, filepath.Join("/data", "omon.db"), cfg.Store.Path)
	assert.Equal(t, filepath.Join("/static", "omon.sql"), cfg.Store.SchemaPath)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidEnvLogLevel(t *testing.T) {
	_, err := LoadWithEnv("", func(k string) string {
		if k == EnvLogLevel {
			return "chatty"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
}

func TestStoreConfig(t *testing.T) {
	cfg, err := LoadWithEnv("testdata/full.yaml", noEnv)
	require.NoError(t, err)

	sc := cfg.StoreConfig()
	assert.Equal(t, "/var/lib/nouveaubot/omon.db", sc.Path)
	assert.Equal(t, 8, sc.Pool.MaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, sc.Pool.AcquireTimeout)
	assert.Equal(t, "NORMAL", sc.SQLite.Synchronous)
	assert.Equal(t, "global", sc.Naming.GlobalName)
	assert.Equal(t, 200, sc.Naming.MaxDescriptionLen)
}

func TestSuffixPattern(t *testing.T) {
	cfg := Default()
	re, err := cfg.SuffixPattern()
	require.NoError(t, err)
	assert.True(t, re.MatchString("english"))
	assert.False(t, re.MatchString("english1"))

	cfg.Codex.SuffixPattern = "["
	assert.Error(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Store.Path = ""
	assert.Error(t, cfg.Validate())
}
