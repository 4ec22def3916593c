package data

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Float converts a cell to a number. Missing, empty and non-numeric cells
// yield NaN.
func Float(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case time.Time:
		return float64(x.UnixMilli())
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// dateLayouts are tried in order by Timestamp.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
}

// Timestamp converts a cell to milliseconds since the Unix epoch. Numbers
// are taken as milliseconds already; strings are parsed as dates in UTC.
// Anything else yields NaN.
func Timestamp(v any) float64 {
	switch x := v.(type) {
	case time.Time:
		return float64(x.UnixMilli())
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return math.NaN()
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return float64(t.UnixMilli())
			}
		}
		return Float(s)
	}
	return Float(v)
}

// String converts a cell to text. Nil yields "".
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

// Bool converts a cell to an optional flag: nil for missing or
// unrecognized values.
func Bool(v any) *bool {
	var b bool
	switch x := v.(type) {
	case bool:
		b = x
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		b = p
	case float64:
		b = x != 0
	case int:
		b = x != 0
	default:
		return nil
	}
	return &b
}

// parseCell turns raw text from CSV or XLSX into a float64 when it is a
// finite number and keeps it as a string otherwise.
func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

func sortedKeys(r Row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
