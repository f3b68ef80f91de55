package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
)

// Reasoning models may prefix their answer with a <think> block.
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

var errNoJSON = errors.New("no valid JSON found in response")

// ExtractJSON returns the first complete JSON object or array in a model
// response. Prose, markdown fences and reasoning blocks around it are ignored.
func ExtractJSON(response string) (string, error) {
	text := thinkBlock.ReplaceAllString(response, "")

	for i := 0; i < len(text); i++ {
		var closer byte
		switch text[i] {
		case '{':
			closer = '}'
		case '[':
			closer = ']'
		default:
			continue
		}
		end := matchingClose(text, i, closer)
		if end < 0 {
			continue
		}
		if candidate := text[i : end+1]; json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}
	return "", errNoJSON
}

// matchingClose returns the index closing the bracket at start, or -1.
// Brackets inside string literals do not count.
func matchingClose(s string, start int, closer byte) int {
	opener := s[start]
	depth := 0
	inString, escaped := false, false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			if depth--; depth == 0 {
				return i
			}
		}
	}
	return -1
}

// ParseJSONResponse decodes the JSON embedded in a model response into T.
func ParseJSONResponse[T any](response string) (T, error) {
	var out T
	raw, err := ExtractJSON(response)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return out, nil
}
