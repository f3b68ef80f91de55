package matching

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed abbreviations.yaml
var defaultAbbreviationsYAML []byte

// Abbreviations maps a receipt token ("mlk") to its expansion ("milk").
// Keys and values are stored normalized.
type Abbreviations map[string]string

// DefaultAbbreviations returns the built-in receipt abbreviation dictionary.
func DefaultAbbreviations() Abbreviations {
	abbr, err := parseAbbreviations(defaultAbbreviationsYAML)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a programming error.
		panic(fmt.Sprintf("matching: invalid embedded abbreviations: %v", err))
	}
	return abbr
}

// LoadAbbreviations decodes a YAML mapping of abbreviation to expansion.
func LoadAbbreviations(r io.Reader) (Abbreviations, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read abbreviations: %w", err)
	}
	return parseAbbreviations(data)
}

// LoadAbbreviationsFile reads abbreviations from path and merges them over
// the built-in dictionary. Entries in the file win.
func LoadAbbreviationsFile(path string) (Abbreviations, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open abbreviations file: %w", err)
	}
	defer f.Close()

	custom, err := LoadAbbreviations(f)
	if err != nil {
		return nil, err
	}
	merged := DefaultAbbreviations()
	for k, v := range custom {
		merged[k] = v
	}
	return merged, nil
}

func parseAbbreviations(data []byte) (Abbreviations, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse abbreviations: %w", err)
	}
	abbr := make(Abbreviations, len(raw))
	for k, v := range raw {
		key := Normalize(k)
		if key == "" || strings.Contains(key, " ") {
			return nil, fmt.Errorf("abbreviation %q must be a single token", k)
		}
		abbr[key] = Normalize(v)
	}
	return abbr, nil
}

// expand replaces whole tokens of normalized text with their expansions.
func (a Abbreviations) expand(normalized string) string {
	if len(a) == 0 {
		return normalized
	}
	fields := strings.Fields(normalized)
	for i, f := range fields {
		if full, ok := a[f]; ok {
			fields[i] = full
		}
	}
	return strings.Join(fields, " ")
}
