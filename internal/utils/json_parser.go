package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DecodeModelJSON parses JSON out of LLM output, which may arrive as pure
// JSON, JSON inside a markdown fence, or JSON buried in surrounding prose.
func DecodeModelJSON(input string, target interface{}) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	// Pure JSON is the common case
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if fenced := unfence(input); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
		if fixed := stripTrailingCommas(fenced); fixed != fenced {
			if err := json.Unmarshal([]byte(fixed), target); err == nil {
				return nil
			}
		}
	}

	if embedded := firstJSONValue(input); embedded != "" {
		if err := json.Unmarshal([]byte(embedded), target); err == nil {
			return nil
		}
		if fixed := stripTrailingCommas(embedded); fixed != embedded {
			if err := json.Unmarshal([]byte(fixed), target); err == nil {
				return nil
			}
		}
	}

	preview := input
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return fmt.Errorf("no parseable JSON in model output: %s", preview)
}

var fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// unfence pulls the body out of a ```json ... ``` or ``` ... ``` block
func unfence(input string) string {
	matches := fenceRe.FindStringSubmatch(input)
	if len(matches) < 2 {
		return ""
	}
	body := strings.TrimSpace(matches[1])
	if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
		return body
	}
	return ""
}

// firstJSONValue returns the first balanced JSON object or array in the text
func firstJSONValue(input string) string {
	objStart := strings.Index(input, "{")
	arrStart := strings.Index(input, "[")

	start, open, close := objStart, byte('{'), byte('}')
	if objStart < 0 || (arrStart >= 0 && arrStart < objStart) {
		start, open, close = arrStart, '[', ']'
	}
	if start < 0 {
		return ""
	}
	return balancedSlice(input[start:], open, close)
}

// balancedSlice extracts a prefix with balanced delimiters, respecting string
// literals and escapes
func balancedSlice(input string, open, close byte) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(input); i++ {
		ch := input[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
			// Skip delimiters inside strings
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[:i+1]
			}
		}
	}
	return ""
}

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// stripTrailingCommas removes trailing commas before closing delimiters, a
// frequent model mistake
func stripTrailingCommas(input string) string {
	return trailingCommaRe.ReplaceAllString(input, "$1")
}
