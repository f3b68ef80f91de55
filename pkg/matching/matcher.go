package matching

import (
	"sort"
)

// Config tunes the hybrid score. The weights are the share of the token-set
// overlap in the combined score; the edit-distance ratio gets the remainder.
type Config struct {
	// Threshold is the minimum combined score (inclusive) for a match.
	Threshold float64 `yaml:"threshold" env:"MATCH_THRESHOLD" env-default:"0.75"`

	// MultiWordTokenWeight applies when either side has more than one token.
	MultiWordTokenWeight float64 `yaml:"multi_word_token_weight" env:"MATCH_MULTI_WORD_TOKEN_WEIGHT" env-default:"0.65"`

	// SingleWordTokenWeight applies when both sides are single tokens, where
	// abbreviations and typos make edit distance the better signal.
	SingleWordTokenWeight float64 `yaml:"single_word_token_weight" env:"MATCH_SINGLE_WORD_TOKEN_WEIGHT" env-default:"0.3"`

	// AbbreviationsFile optionally points to a YAML dictionary merged over
	// the built-in one.
	AbbreviationsFile string `yaml:"abbreviations_file" env:"MATCH_ABBREVIATIONS_FILE" env-default:""`
}

// DefaultConfig returns the weights and threshold tuned on receipt data.
func DefaultConfig() *Config {
	return &Config{
		Threshold:             0.75,
		MultiWordTokenWeight:  0.65,
		SingleWordTokenWeight: 0.3,
	}
}

// Match is a scored candidate.
type Match struct {
	Candidate string  `json:"candidate"`
	Score     float64 `json:"score"`
	Index     int     `json:"index"`

	tokens int
	length int
}

// Matcher scores query strings against candidate names.
type Matcher struct {
	cfg           Config
	abbreviations Abbreviations
}

// NewMatcher creates a Matcher. A nil cfg uses DefaultConfig; a nil abbr
// uses DefaultAbbreviations.
func NewMatcher(cfg *Config, abbr Abbreviations) *Matcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if abbr == nil {
		abbr = DefaultAbbreviations()
	}
	return &Matcher{cfg: *cfg, abbreviations: abbr}
}

// Threshold returns the configured acceptance threshold.
func (m *Matcher) Threshold() float64 {
	return m.cfg.Threshold
}

type prepared struct {
	text   string
	tokens map[string]struct{}
}

func (m *Matcher) prepare(s string) prepared {
	text := m.abbreviations.expand(Normalize(s))
	return prepared{text: text, tokens: tokenSet(text)}
}

// Score returns the combined similarity of a and b in [0, 1].
func (m *Matcher) Score(a, b string) float64 {
	return m.score(m.prepare(a), m.prepare(b))
}

func (m *Matcher) score(a, b prepared) float64 {
	if a.text == "" || b.text == "" {
		return 0
	}
	if a.text == b.text {
		return 1
	}
	tokenWeight := m.cfg.SingleWordTokenWeight
	if len(a.tokens) > 1 || len(b.tokens) > 1 {
		tokenWeight = m.cfg.MultiWordTokenWeight
	}
	return tokenWeight*jaccard(a.tokens, b.tokens) + (1-tokenWeight)*editRatio(a.text, b.text)
}

// BestMatch returns the highest scoring candidate whose score is at least
// threshold. Ties go to the candidate with fewer tokens, then the shorter
// one, then the earlier one.
func (m *Matcher) BestMatch(query string, candidates []string, threshold float64) (string, bool) {
	best, ok := m.best(query, candidates, threshold)
	if !ok {
		return "", false
	}
	return best.Candidate, true
}

// BestMatchIndex is BestMatch returning the winning position in candidates.
func (m *Matcher) BestMatchIndex(query string, candidates []string, threshold float64) (int, float64, bool) {
	best, ok := m.best(query, candidates, threshold)
	if !ok {
		return -1, 0, false
	}
	return best.Index, best.Score, true
}

func (m *Matcher) best(query string, candidates []string, threshold float64) (Match, bool) {
	q := m.prepare(query)
	var best Match
	found := false
	for i, c := range candidates {
		match := m.scored(q, c, i)
		if match.Score < threshold {
			continue
		}
		if !found || better(match, best) {
			best = match
			found = true
		}
	}
	return best, found
}

// TopMatches returns up to limit candidates at or above threshold, best first.
// A limit of zero or less returns every qualifying candidate.
func (m *Matcher) TopMatches(query string, candidates []string, threshold float64, limit int) []Match {
	q := m.prepare(query)
	var matches []Match
	for i, c := range candidates {
		match := m.scored(q, c, i)
		if match.Score >= threshold {
			matches = append(matches, match)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return better(matches[i], matches[j])
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func (m *Matcher) scored(q prepared, candidate string, index int) Match {
	p := m.prepare(candidate)
	return Match{
		Candidate: candidate,
		Score:     m.score(q, p),
		Index:     index,
		tokens:    len(p.tokens),
		length:    len([]rune(p.text)),
	}
}

// better reports whether a ranks ahead of b.
func better(a, b Match) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.tokens != b.tokens {
		return a.tokens < b.tokens
	}
	if a.length != b.length {
		return a.length < b.length
	}
	return a.Index < b.Index
}

var defaultMatcher = NewMatcher(nil, nil)

// BestMatch matches with the default weights and abbreviation dictionary.
func BestMatch(query string, candidates []string, threshold float64) (string, bool) {
	return defaultMatcher.BestMatch(query, candidates, threshold)
}

// Score scores with the default weights and abbreviation dictionary.
func Score(a, b string) float64 {
	return defaultMatcher.Score(a, b)
}
