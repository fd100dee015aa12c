package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated bot: its own config file and database.
type testEnv struct {
	t      *testing.T
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	config := filepath.Join(dir, "config.yaml")
	body := "bot:\n  username: testbot\nstore:\n  path: " + filepath.Join(dir, "omon.db") + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(config, []byte(body), 0o644))

	return &testEnv{t: t, dir: dir, config: config}
}

// run executes the CLI with args and returns stdout, stderr and the error.
func (e *testEnv) run(stdin string, args ...string) (string, string, error) {
	e.t.Helper()

	opts := &RootOptions{Getenv: func(string) string { return "" }}
	cmd := newRootCommand(opts)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun fails the test if the command fails.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run("", args...)
	require.NoError(e.t, err, "stderr: %s", stderr)
	return out
}

// writeBrokenStoreConfig points the store at a directory that does not exist.
func writeBrokenStoreConfig(t *testing.T, e *testEnv) {
	t.Helper()
	writeConfig(t, e, "store:\n  path: "+filepath.Join(e.dir, "missing", "omon.db")+"\nlogging:\n  level: error\n")
}

// writeConfig replaces the environment's config file.
func writeConfig(t *testing.T, e *testEnv, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.config, []byte(body), 0o644))
}
