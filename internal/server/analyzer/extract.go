package analyzer

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var jsonObject = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractJSON pulls a JSON document out of model output that may carry
// prose or code fences around it. It tries the whole text, then the widest
// {...} span, then ever shorter prefixes of that span.
func ExtractJSON(text string) (string, error) {
	text = cleanJSONBlock(text)
	if json.Valid([]byte(text)) {
		return text, nil
	}

	candidate := jsonObject.FindString(text)
	if candidate == "" {
		return "", errors.New("no JSON object found in response")
	}
	if json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	for i := len(candidate) - 1; i > 0; i-- {
		if candidate[i-1] != '}' {
			continue
		}
		if json.Valid([]byte(candidate[:i])) {
			return candidate[:i], nil
		}
	}
	return "", errors.New("could not parse JSON in response")
}

// cleanJSONBlock removes markdown code block wrappers.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
