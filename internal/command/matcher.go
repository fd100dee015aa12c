package command

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Invocation is a message recognized as a command.
type Invocation struct {
	// Token is the command name without the leading slash or @botname.
	Token string

	// Args is the tokenized argument text (see Tokenize).
	Args [][]string

	// RawArgs is the argument text after the boundary, trimmed.
	RawArgs string
}

// FirstLine returns the words of the first argument line, or nil.
func (inv Invocation) FirstLine() []string {
	if len(inv.Args) == 0 {
		return nil
	}
	return inv.Args[0]
}

// Matcher recognizes "/token[@username] [arguments]" for one bot identity.
//
// Matcher is immutable after construction and safe for concurrent use.
type Matcher struct {
	username string
	pattern  *regexp.Regexp
}

// whitespace is the character class body of Unicode whitespace; RE2's \s
// alone is ASCII only.
const whitespace = `\s\v\x{85}\p{Z}`

// NewMatcher builds a matcher for the bot's canonical username.
//
// The @username suffix on a token must equal username exactly. An empty
// username disables the @ form entirely.
func NewMatcher(username string) *Matcher {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")

	expr := `^/([^` + whitespace + `@]+)`
	if username != "" {
		expr += `(?:@` + regexp.QuoteMeta(username) + `)?`
	}
	// The token must be followed by whitespace or end of input.
	expr += `(?:[` + whitespace + `]+([\s\S]*))?$`

	return &Matcher{
		username: username,
		pattern:  regexp.MustCompile(expr),
	}
}

// Username returns the bot identity this matcher accepts after "@".
func (m *Matcher) Username() string {
	return m.username
}

// Match parses text as a command invocation.
// Returns ok=false for anything that is not shaped like a command.
func (m *Matcher) Match(text string) (inv Invocation, ok bool) {
	text = norm.NFC.String(text)

	sub := m.pattern.FindStringSubmatch(text)
	if sub == nil {
		return Invocation{}, false
	}

	raw := strings.TrimSpace(sub[2])
	return Invocation{
		Token:   sub[1],
		Args:    Tokenize(raw),
		RawArgs: raw,
	}, true
}
