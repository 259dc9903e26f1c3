package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed signals that neither the strict parse nor the extraction
// fallback produced anything usable. Callers branch on it to apply their
// documented default instead of treating an empty value as success.
var ErrParseFailed = errors.New("could not parse collaborator output")

// ParseJSON cleans and unmarshals a JSON object from an LLM response into
// a type T. It handles common LLM quirks like surrounding markdown or
// extra text by extracting the first '{' .. last '}' span before parsing.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr := strings.TrimSpace(response)
	if !json.Valid([]byte(jsonStr)) {
		start := strings.Index(jsonStr, "{")
		end := strings.LastIndex(jsonStr, "}")
		if start == -1 || end == -1 || end <= start {
			return zero, fmt.Errorf("%w: no JSON object found", ErrParseFailed)
		}
		jsonStr = jsonStr[start : end+1]
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return result, nil
}

var stringLiteralRe = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"`)

// ParseJSONArray extracts a JSON array of strings from an LLM response.
// Strict parse first, then bracket extraction, then a best-effort sweep
// of quoted string literals in the raw output. Returns ErrParseFailed
// only when all three stages come up empty.
func ParseJSONArray(response string) ([]string, error) {
	jsonStr := strings.TrimSpace(response)

	var out []string
	if err := json.Unmarshal([]byte(jsonStr), &out); err == nil {
		return out, nil
	}

	start := strings.Index(jsonStr, "[")
	end := strings.LastIndex(jsonStr, "]")
	if start != -1 && end != -1 && end > start {
		if err := json.Unmarshal([]byte(jsonStr[start:end+1]), &out); err == nil {
			return out, nil
		}
	}

	// Last resort: pull quoted literals out of whatever came back.
	for _, m := range stringLiteralRe.FindAllStringSubmatch(jsonStr, -1) {
		var s string
		if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err == nil && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no string array found", ErrParseFailed)
	}
	return out, nil
}
