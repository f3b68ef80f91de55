// Package matching scores freeform receipt text against catalog names.
//
// Everything in this package is pure: no I/O and no shared mutable state,
// so a Matcher may be used from any number of goroutines.
package matching

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, strips diacritics and punctuation, and collapses
// whitespace. Apostrophes are dropped so "Trader Joe's" becomes "trader joes".
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenSet splits normalized text into singularized, de-duplicated tokens.
func tokenSet(normalized string) map[string]struct{} {
	fields := strings.Fields(normalized)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[singular(f)] = struct{}{}
	}
	return set
}

// singular leaves numbers and very short tokens alone; inflection would turn
// receipt codes like "ks" into "k".
func singular(token string) string {
	if len(token) <= 3 || unicode.IsDigit(rune(token[0])) {
		return token
	}
	return inflection.Singular(token)
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
