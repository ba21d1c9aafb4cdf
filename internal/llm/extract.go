package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a reply contains no parsable JSON value.
var ErrNoJSON = errors.New("no JSON found in model output")

// fencePatterns are tried in order, most specific first.
var fencePatterns = []*regexp.Regexp{
	regexp.MustCompile("(?s)```json\n(.*?)\n```"),
	regexp.MustCompile("(?s)```json\\s+(.*?)\\s*```"),
	regexp.MustCompile("(?s)```json(.*?)```"),
	regexp.MustCompile("(?s)```\n(.*?)\n```"),
	regexp.MustCompile("(?s)```\\s+(.*?)\\s*```"),
	regexp.MustCompile("(?s)```(.*?)```"),
}

// ExtractJSON pulls a JSON object or array out of free-form model output.
// It tries fenced code blocks first, then the whole text, then the first
// balanced object or array found by scanning.
func ExtractJSON(text string) (json.RawMessage, error) {
	text = strings.TrimSpace(text)

	for _, p := range fencePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if looksLikeJSON(candidate) && json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}

	if looksLikeJSON(text) && json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}

	for start := 0; start < len(text); start++ {
		if text[start] != '{' && text[start] != '[' {
			continue
		}
		end := matchingClose(text, start)
		if end < 0 {
			continue
		}
		candidate := text[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}
	return nil, ErrNoJSON
}

func looksLikeJSON(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

// matchingClose returns the index of the bracket closing the one at start,
// ignoring brackets inside strings, or -1.
func matchingClose(s string, start int) int {
	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
