// Package formatting provides parsing helpers for model-produced content.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be parsed as JSON,
// either directly, from a markdown code fence, or from an embedded object.
var ErrParseFailed = errors.New("failed to parse response")

var (
	jsonFenceRegex  = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")
	jsonObjectRegex = regexp.MustCompile(`(?s)\{.*\}`)
)

// Parse attempts to unmarshal content as JSON into T. Models often wrap
// JSON in markdown fencing or surround it with prose, so parsing falls
// back to extracting a fenced block, then the outermost object literal.
// Returns ErrParseFailed when every attempt fails.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if matches := jsonFenceRegex.FindStringSubmatch(content); len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		if err := json.Unmarshal([]byte(cleaned), &result); err == nil {
			return result, nil
		}
	}

	if match := jsonObjectRegex.FindString(content); match != "" {
		if err := json.Unmarshal([]byte(match), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, content)
}
