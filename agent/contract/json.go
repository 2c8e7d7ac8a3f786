package contract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject extracts one JSON object from raw model output and decodes it
// into out. Models routinely wrap the object in markdown fences or stray
// prose, so everything outside the outermost braces is discarded. Extra keys
// inside the object are ignored; callers validate the fields they need.
func DecodeObject(raw string, out any) error {
	payload, err := extractObject(raw)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

func extractObject(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in model output", ErrSchemaViolation)
	}
	return cleaned[start : end+1], nil
}
