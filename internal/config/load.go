package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Environment variables that override file settings.
const (
	EnvUsername   = "BOT_USERNAME"
	EnvDBPath     = "BOT_DB_PATH"     // directory holding omon.db
	EnvStaticPath = "BOT_STATIC_PATH" // directory holding omon.sql
	EnvLogLevel   = "BOT_LOG_LEVEL"
)

// Load reads configuration from path (optional) and the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, getenv func(string) string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	applyEnv(&cfg, getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// decode validates a YAML document and decodes it over cfg.
func decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if len(raw) == 0 {
		return nil
	}

	if err := validateSchema(raw); err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

// validateSchema unifies the raw document with #Config.
func validateSchema(raw map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := schema.FillPath(cue.ParsePath("config"), raw)
	if err := v.Err(); err != nil {
		return schemaError(err)
	}
	if err := v.LookupPath(cue.ParsePath("config")).Validate(cue.Concrete(true)); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError flattens CUE errors into one message listing every violation.
func schemaError(err error) error {
	var lines []string
	for _, e := range cueerrors.Errors(err) {
		lines = append(lines, strings.TrimSpace(cueerrors.Details(e, nil)))
	}
	if len(lines) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	return errors.New("invalid config: " + strings.Join(lines, "; "))
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvUsername)); v != "" {
		cfg.Bot.Username = v
	}
	if v := strings.TrimSpace(getenv(EnvDBPath)); v != "" {
		cfg.Store.Path = filepath.Join(v, "omon.db")
	}
	if v := strings.TrimSpace(getenv(EnvStaticPath)); v != "" {
		cfg.Store.SchemaPath = filepath.Join(v, "omon.sql")
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
