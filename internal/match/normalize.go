package match

import (
	"strings"
	"unicode"
)

// NormalizeColumn folds a column name for fuzzy comparison: it lowercases,
// drops a table qualifier ("bronze.amount" -> "amount") and strips
// separators and quoting characters.
func NormalizeColumn(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) || isQuote(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// isSeparator returns true if the rune is a common separator.
func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

func isQuote(r rune) bool {
	return r == '"' || r == '`' || r == '[' || r == ']'
}
