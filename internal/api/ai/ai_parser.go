package ai

import (
	"encoding/json"
	"strings"
)

// ExtractResult is the outcome of pulling structured JSON out of a
// model reply. When Parsed is false, Raw carries the untouched text so
// callers can fall back to a degraded shape instead of failing.
type ExtractResult struct {
	Parsed bool
	Data   json.RawMessage
	Raw    string
}

// ExtractJSON looks for a fenced ```json block first, then a bare ```
// block, then tries the whole text as JSON. It never returns an error;
// unparseable replies come back with Parsed=false.
func ExtractJSON(text string) ExtractResult {
	candidates := []string{}

	if body, ok := fencedBlock(text, "```json"); ok {
		candidates = append(candidates, body)
	}
	if body, ok := fencedBlock(text, "```"); ok {
		candidates = append(candidates, body)
	}
	candidates = append(candidates, strings.TrimSpace(text))

	for _, c := range candidates {
		if c == "" {
			continue
		}
		if json.Valid([]byte(c)) {
			return ExtractResult{Parsed: true, Data: json.RawMessage(c), Raw: text}
		}
	}
	return ExtractResult{Parsed: false, Raw: text}
}

func fencedBlock(text, marker string) (string, bool) {
	start := strings.Index(text, marker)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(marker):]
	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}
