package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// FormatValue renders a scalar as its canonical string form. Numeric values
// and their string representations compare equal after formatting, which is
// what cell-level comparison relies on.
func FormatValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case int, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%v", v)
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
