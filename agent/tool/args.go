package tool

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Args is the argument mapping a dispatch decision carries. Values arrive
// from JSON, so numbers are float64 and models occasionally stringify
// everything; the getters coerce accordingly.
type Args map[string]any

func (a Args) String(key string) (string, bool) {
	v, ok := a[key]
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func (a Args) Number(key string) (float64, bool) {
	v, ok := a[key]
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func (a Args) Bool(key string) (bool, bool) {
	v, ok := a[key]
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(t)))
		return b, err == nil
	default:
		return false, false
	}
}

// IntOr reads an integer argument, falling back to def when absent or
// unparseable.
func (a Args) IntOr(key string, def int) int {
	f, ok := a.Number(key)
	if !ok {
		return def
	}
	return int(f)
}
