package utils

import (
	"regexp"
	"strings"
)

// SplitByMultipleDelimiters splits s on any of the given single-character
// delimiters, e.g. "a,b;c" with "," and ";" yields [a b c]
func SplitByMultipleDelimiters(s string, delimiters ...string) []string {
	if len(delimiters) == 0 {
		return []string{s}
	}
	delimiterPattern := "[" + regexp.QuoteMeta(strings.Join(delimiters, "")) + "]"
	re := regexp.MustCompile(delimiterPattern)
	return re.Split(s, -1)
}
