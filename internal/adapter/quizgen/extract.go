package quizgen

import (
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// ExtractFirstBalancedObject returns the first balanced {...} span in text.
// Reasoning models' <think> blocks are removed first, and braces inside JSON
// strings do not count towards nesting. It reports false when text holds no
// balanced object.
func ExtractFirstBalancedObject(text string) (string, bool) {
	cleaned := thinkBlock.ReplaceAllString(text, "")

	offset := 0
	for {
		start := strings.IndexByte(cleaned[offset:], '{')
		if start < 0 {
			return "", false
		}
		start += offset
		if end, ok := matchBrace(cleaned, start); ok {
			return cleaned[start : end+1], true
		}
		offset = start + 1
	}
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

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
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
