// Package formatting extracts structured JSON from free-form model replies.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrParseFailed is returned when content holds no decodable JSON object.
var ErrParseFailed = errors.New("failed to parse response")

// ExtractObject returns the span from the first '{' to the last '}' in content.
// Surrounding prose and markdown fences are discarded. The span is not
// checked for balance; replies carrying several objects yield text that
// fails to decode.
func ExtractObject(content string) (string, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start == -1 || end < start {
		return "", fmt.Errorf("%w: no JSON object found", ErrParseFailed)
	}
	return content[start : end+1], nil
}

// ParseObject extracts the JSON object from content and decodes it into T.
func ParseObject[T any](content string) (T, error) {
	var result T

	obj, err := ExtractObject(content)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(obj), &result); err != nil {
		return result, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return result, nil
}
