package refdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeAlias lowercases a product name or alias, strips diacritics and
// collapses whitespace so that "Café au Lait " and "cafe au lait" compare
// equal.
func NormalizeAlias(s string) string {
	s = removeDiacritics(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// removeDiacritics applies NFD normalization and strips combining marks.
func removeDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// containsNormalized reports whether the normalized haystack contains the
// already-normalized needle.
func containsNormalized(haystack, normalizedNeedle string) bool {
	return strings.Contains(NormalizeAlias(haystack), normalizedNeedle)
}
