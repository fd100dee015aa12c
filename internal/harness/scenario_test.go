package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_ValidFiles(t *testing.T) {
	files, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			assert.NotEmpty(t, scenario.Name)
			assert.NotEmpty(t, scenario.Steps)
		})
	}
}

func TestLoadScenario_Fields(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/codex_lifecycle.yaml")
	require.NoError(t, err)

	assert.Equal(t, "codex_lifecycle", scenario.Name)
	assert.Equal(t, uint64(1), scenario.Seed)
	require.Len(t, scenario.Setup, 1)
	assert.Equal(t, "", scenario.Setup[0].Codex)
	assert.Equal(t, map[string]string{"228": "possession"}, scenario.Setup[0].Articles)

	step := scenario.Steps[3]
	assert.Equal(t, int64(10), step.Chat)
	assert.Equal(t, "/omon_alpha", step.Text)
	assert.True(t, step.Image)
	require.NotNil(t, step.Expect)
	assert.Equal(t, "Article 105. murder", step.Expect.Reply)

	require.NotNil(t, scenario.Steps[5].Expect.Handled)
	assert.False(t, *scenario.Steps[5].Expect.Handled)

	require.Len(t, scenario.Assertions, 3)
	assert.Equal(t, AssertCodexList, scenario.Assertions[0].Type)
	assert.NotNil(t, scenario.Assertions[0].Names)
	assert.Empty(t, scenario.Assertions[0].Names)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: d\nstep: []\n",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nsteps: [{chat: 1, text: /ping}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nsteps: [{chat: 1, text: /ping}]\n",
			wantErr: "description is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: d\n",
			wantErr: "steps list is required",
		},
		{
			name:    "empty text",
			yaml:    "name: x\ndescription: d\nsteps: [{chat: 1}]\n",
			wantErr: "steps[0]: text is required",
		},
		{
			name:    "bad chat kind",
			yaml:    "name: x\ndescription: d\nsteps: [{chat: 1, kind: channel, text: /ping}]\n",
			wantErr: `unknown chat kind "channel"`,
		},
		{
			name:    "negative subjects",
			yaml:    "name: x\ndescription: d\nsubjects: -1\nsteps: [{chat: 1, text: /ping}]\n",
			wantErr: "subjects must be non-negative",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\ndescription: d\nsteps: [{chat: 1, text: /ping}]\nassertions: [{type: trace_contains}]\n",
			wantErr: `unknown assertion type "trace_contains"`,
		},
		{
			name:    "codex_articles without articles",
			yaml:    "name: x\ndescription: d\nsteps: [{chat: 1, text: /ping}]\nassertions: [{type: codex_articles, codex: a}]\n",
			wantErr: "articles is required",
		},
		{
			name:    "codex_list without names",
			yaml:    "name: x\ndescription: d\nsteps: [{chat: 1, text: /ping}]\nassertions: [{type: codex_list, chat: 1}]\n",
			wantErr: "names is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_FromTempFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\ndescription: d\nsteps:\n  - chat: 1\n    text: /ping\n"), 0o644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "", scenario.Steps[0].Kind)
	assert.Nil(t, scenario.Steps[0].Expect)
}
