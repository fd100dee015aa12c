package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nouveaubot/nouveaubot/internal/dispatch"
)

func TestCommands_Text(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("commands")
	assert.Equal(t, "start - list commands\n"+
		"ping - check that the bot is alive\n"+
		"config_omon - configure codices of this chat\n"+
		"omon - label everyone on a picture with an article\n", out)
}

func TestCommands_JSON(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("--format", "json", "commands")

	var resp struct {
		Data []dispatch.MenuEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 4)
	assert.Equal(t, dispatch.MenuEntry{Command: "start", Description: "list commands"}, resp.Data[0])
}

func TestNewBot_InvalidSuffixPattern(t *testing.T) {
	env := newTestEnv(t)
	cfg := "codex:\n  suffix_pattern: \"[a-z\"\n"
	writeConfig(t, env, cfg)

	_, _, err := env.run("", "commands")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
