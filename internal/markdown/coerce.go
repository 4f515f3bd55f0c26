package markdown

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// asDateString keeps dates as text; YAML timestamps are rendered in RFC 3339
// so later parsing sees a single format.
func asDateString(value any) string {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339)
	default:
		return asString(v)
	}
}

func asBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	case int:
		return v != 0
	default:
		return false
	}
}

func asInt(value any) *int {
	var out int
	switch v := value.(type) {
	case int:
		out = v
	case int64:
		out = int(v)
	case uint64:
		out = int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		out = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		out = parsed
	default:
		return nil
	}
	return &out
}

// asStrings accepts a YAML list or a comma separated string.
func asStrings(value any) []string {
	var items []string
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		items = v
	case []any:
		for _, item := range v {
			items = append(items, asString(item))
		}
	case string:
		items = strings.Split(v, ",")
	default:
		items = []string{asString(v)}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
