package inference

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juanbartrock/gastos_receipts_backend/internal/apperrors"
)

// ParseJSONResponse decodes the inference service's textual response into v through a
// three-stage tolerant parser:
//  1. direct JSON parse of the whole response;
//  2. strip markdown code-fence markers and retry;
//  3. scan for the first balanced brace-delimited substring and parse that.
//
// If every stage fails the response is surfaced as apperrors.ErrUnparsableResponse.
// No stage ever invents values: a response with no parseable JSON is an error, period.
func ParseJSONResponse(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty response", apperrors.ErrUnparsableResponse)
	}

	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}

	if stripped := stripCodeFences(raw); stripped != raw {
		if err := json.Unmarshal([]byte(stripped), v); err == nil {
			return nil
		}
	}

	if fragment, ok := firstJSONObject(raw); ok {
		if err := json.Unmarshal([]byte(fragment), v); err == nil {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", apperrors.ErrUnparsableResponse, snippet(raw))
}

// stripCodeFences removes leading/trailing markdown code fences (``` or ```json).
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the optional language tag on the opening fence line.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || isLanguageTag(firstLine) {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) <= 10
}

// firstJSONObject returns the first balanced {...} substring, tracking strings so that
// braces inside quoted values do not break the balance count.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

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
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func snippet(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
