package llm

import "strings"

// ExtractJSONObject returns the first balanced {...} region in text.
// Completion services rarely return pure JSON; they wrap it in prose or
// markdown fences. The second return is false when no balanced object
// exists - callers get an explicit "no result", never a partial object.
// Braces inside JSON strings are skipped so prose like `{"note": "a } b"}`
// extracts intact.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
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
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
