package ordering

import (
	"strconv"
	"strings"
	"unicode"
)

// NaturalLess orders strings the way people expect film names to sort:
// leading numbers compare numerically ("8x10" before "600"), names starting
// with a digit come after names starting with a letter, and remaining ties
// compare case-insensitively.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalCompare returns -1, 0 or 1.
func NaturalCompare(a, b string) int {
	na, restA, okA := leadingNumber(a)
	nb, restB, okB := leadingNumber(b)

	switch {
	case okA && okB:
		if na != nb {
			return cmpInt(na, nb)
		}
		if c := strings.Compare(strings.ToLower(restA), strings.ToLower(restB)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case okA:
		return 1
	case okB:
		return -1
	}

	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func leadingNumber(s string) (int, string, bool) {
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, s, false
	}
	return n, s[end:], true
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
