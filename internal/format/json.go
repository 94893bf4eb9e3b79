// Package format cleans up generative model output before it reaches callers.
package format

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNoJSONObject indicates the text carries no {...} span.
var ErrNoJSONObject = errors.New("no JSON object found")

// ExtractJSONObject returns the span from the first '{' to the last '}' of text.
// Models often wrap JSON in prose or code fences.
func ExtractJSONObject(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return "", ErrNoJSONObject
	}

	return text[start : end+1], nil
}

// DecodeJSON unmarshals raw into v, retrying once on a repaired copy.
func DecodeJSON(raw string, v any) error {
	err := json.Unmarshal([]byte(raw), v)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(raw)
	if repairErr != nil {
		return fmt.Errorf("json.Unmarshal failed: %w (repair: %v)", err, repairErr)
	}

	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("json.Unmarshal of repaired payload failed: %w", err)
	}

	return nil
}
