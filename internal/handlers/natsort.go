package handlers

import (
	"slices"
	"strings"
)

// naturalCompare orders strings so that embedded decimal numbers compare
// by value: "2" < "10", "105.1" < "105.12".
func naturalCompare(a, b string) int {
	for a != "" && b != "" {
		ad, bd := isDigit(a[0]), isDigit(b[0])
		switch {
		case ad && bd:
			na, ra := splitDigits(a)
			nb, rb := splitDigits(b)
			if c := compareDigits(na, nb); c != 0 {
				return c
			}
			a, b = ra, rb
		case ad != bd:
			// Numbers sort before text.
			if ad {
				return -1
			}
			return 1
		default:
			ta, ra := splitText(a)
			tb, rb := splitText(b)
			if c := strings.Compare(ta, tb); c != 0 {
				return c
			}
			a, b = ra, rb
		}
	}
	return strings.Compare(a, b)
}

// compareDigits compares two decimal digit runs by value, then by length
// so that "01" sorts after "1".
func compareDigits(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return len(a) - len(b)
}

func splitDigits(s string) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func splitText(s string) (run, rest string) {
	i := 0
	for i < len(s) && !isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func sortNatural(names []string) {
	slices.SortFunc(names, naturalCompare)
}
