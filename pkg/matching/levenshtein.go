package matching

import "github.com/texttheater/golang-levenshtein/levenshtein"

// editRatio is 1 - distance(a, b) / max(len(a), len(b)), counted in runes,
// with unit-cost substitutions.
func editRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	d := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptionsWithSub)
	return 1 - float64(d)/float64(longest)
}
