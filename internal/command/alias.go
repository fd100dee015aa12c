package command

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultSuffixPattern accepts one or more lowercase ASCII letters.
var DefaultSuffixPattern = regexp.MustCompile(`^(?:[a-z]+)$`)

// CompileSuffixPattern compiles expr so that it must match a whole suffix.
func CompileSuffixPattern(expr string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		return DefaultSuffixPattern, nil
	}
	re, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("compile suffix pattern %q: %w", expr, err)
	}
	return re, nil
}

// Aliases is the alias configuration of one handler.
//
// Aliases does not detect overlaps with other handlers. Integrators must
// keep alias sets disjoint; the dispatcher resolves any overlap by
// registration order.
type Aliases struct {
	names  []string
	suffix []string
	re     *regexp.Regexp
}

// NewAliases returns a configuration matching exactly the given names.
func NewAliases(names ...string) Aliases {
	a := Aliases{names: make([]string, 0, len(names))}
	for _, n := range names {
		a.names = append(a.names, norm.NFC.String(n))
	}
	return a
}

// WithSuffix flags bases as suffix-enabled, validating suffixes against re.
// A nil re selects DefaultSuffixPattern. Bases that are not among the
// primary names are ignored.
func (a Aliases) WithSuffix(re *regexp.Regexp, bases ...string) Aliases {
	if re == nil {
		re = DefaultSuffixPattern
	}
	out := Aliases{names: a.names, re: re}
	for _, b := range bases {
		b = norm.NFC.String(b)
		if a.isName(b) {
			out.suffix = append(out.suffix, b)
		}
	}
	return out
}

// Names returns the primary aliases in registration order.
func (a Aliases) Names() []string {
	return append([]string(nil), a.names...)
}

// Primary returns the first alias, or "" if there are none.
func (a Aliases) Primary() string {
	if len(a.names) == 0 {
		return ""
	}
	return a.names[0]
}

// Match reports whether token is handled by this configuration.
func (a Aliases) Match(token string) bool {
	if a.isName(token) {
		return true
	}
	_, _, ok := a.Suffix(token)
	return ok
}

// Suffix splits a suffix-form token into its base alias and suffix.
// Returns ok=false for exact aliases and for tokens that do not match.
func (a Aliases) Suffix(token string) (base, suffix string, ok bool) {
	for _, b := range a.suffix {
		rest, found := strings.CutPrefix(token, b+"_")
		if !found {
			continue
		}
		if a.re.MatchString(rest) {
			return b, rest, true
		}
	}
	return "", "", false
}

func (a Aliases) isName(token string) bool {
	for _, n := range a.names {
		if n == token {
			return true
		}
	}
	return false
}
