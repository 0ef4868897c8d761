package tools

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Tool is the interface every model-callable tool satisfies.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	// Execute never returns a nil Result. Failures are reported through Result.Kind.
	Execute(ctx context.Context, params map[string]any) *Result
}

// stringParam returns params[key] when it is a string, else "".
func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// intParam reads an integer argument. JSON numbers decode as float64 and
// CLI callers may pass numeric strings, so both are accepted.
func intParam(params map[string]any, key string, def int) (int, bool) {
	switch v := params[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return def, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return def, false
		}
		return n, true
	}
	return def, false
}
