package command

import "strings"

// Tokenize splits argument text into lines and each line into words.
//
// Lines that are empty or contain only whitespace are dropped. Words are
// separated by runs of Unicode whitespace. Empty input yields an empty,
// non-nil slice.
func Tokenize(args string) [][]string {
	lines := strings.FieldsFunc(args, isLineBreak)

	out := make([][]string, 0, len(lines))
	for _, line := range lines {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		out = append(out, words)
	}
	return out
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
