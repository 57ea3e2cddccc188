package flagnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// isInvisible reports whether r is one of the characters commonly smuggled
// into copy-pasted flags: zero-width space, zero-width non-joiner,
// zero-width joiner, byte-order mark.
func isInvisible(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}

// Normalize canonicalizes a submitted flag for comparison. NFKC folds
// visually-identical but differently-encoded characters together, invisible
// characters are stripped anywhere in the string, and surrounding whitespace
// is trimmed. The empty string passes through unchanged, so absent input
// normalizes to "".
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.Map(func(r rune) rune {
		if isInvisible(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
