package command

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliases_ExactMatch(t *testing.T) {
	a := NewAliases("ping", "пинг")

	assert.True(t, a.Match("ping"))
	assert.True(t, a.Match("пинг"))
	assert.False(t, a.Match("pong"))
	assert.False(t, a.Match("ping_x"), "suffix form requires suffix-enabled base")
}

func TestAliases_SuffixMatch(t *testing.T) {
	a := NewAliases("omon", "омон").WithSuffix(nil, "omon", "омон")

	tests := []struct {
		token string
		want  bool
	}{
		{"omon", true},
		{"омон", true},
		{"omon_english", true},
		{"омон_english", true},
		{"omon_1", false},
		{"omon_", false},
		{"omon_English", false},
		{"omonx", false},
		{"omon__x", false},
		{"config_omon", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Match(tt.token))
		})
	}
}

func TestAliases_Suffix(t *testing.T) {
	a := NewAliases("omon").WithSuffix(nil, "omon")

	base, suffix, ok := a.Suffix("omon_english")
	require.True(t, ok)
	assert.Equal(t, "omon", base)
	assert.Equal(t, "english", suffix)

	_, _, ok = a.Suffix("omon")
	assert.False(t, ok, "exact alias carries no suffix")
}

func TestAliases_BaseWithUnderscore(t *testing.T) {
	a := NewAliases("config_omon").WithSuffix(nil, "config_omon")

	base, suffix, ok := a.Suffix("config_omon_chat")
	require.True(t, ok)
	assert.Equal(t, "config_omon", base)
	assert.Equal(t, "chat", suffix)
}

func TestAliases_CustomPattern(t *testing.T) {
	re, err := CompileSuffixPattern(`[a-z0-9]+`)
	require.NoError(t, err)

	a := NewAliases("omon").WithSuffix(re, "omon")
	assert.True(t, a.Match("omon_1"))
	assert.True(t, a.Match("omon_a1"))
	assert.False(t, a.Match("omon_a-1"))
}

func TestAliases_PatternIsFullMatch(t *testing.T) {
	re, err := CompileSuffixPattern(`a|ab`)
	require.NoError(t, err)

	a := NewAliases("omon").WithSuffix(re, "omon")
	assert.True(t, a.Match("omon_ab"))
	assert.False(t, a.Match("omon_abc"))
}

func TestAliases_IgnoresForeignSuffixBase(t *testing.T) {
	a := NewAliases("omon").WithSuffix(nil, "other")
	assert.False(t, a.Match("other_x"))
	assert.False(t, a.Match("omon_x"))
}

func TestCompileSuffixPattern(t *testing.T) {
	re, err := CompileSuffixPattern("")
	require.NoError(t, err)
	assert.Same(t, DefaultSuffixPattern, re)

	_, err = CompileSuffixPattern("[")
	assert.Error(t, err)
}

func TestAliases_NamesAndPrimary(t *testing.T) {
	a := NewAliases("config_omon", "конфиг_омон")
	assert.Equal(t, []string{"config_omon", "конфиг_омон"}, a.Names())
	assert.Equal(t, "config_omon", a.Primary())
	assert.Equal(t, "", NewAliases().Primary())

	names := a.Names()
	names[0] = "mutated"
	assert.Equal(t, "config_omon", a.Primary(), "Names returns a copy")
}

func TestDefaultSuffixPattern(t *testing.T) {
	assert.IsType(t, &regexp.Regexp{}, DefaultSuffixPattern)
	assert.True(t, DefaultSuffixPattern.MatchString("abc"))
	assert.False(t, DefaultSuffixPattern.MatchString(""))
}
