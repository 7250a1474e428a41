package ingest

import (
	"strconv"
	"strings"
	"time"
)

// datetimeLayouts is tried in order against schedule cell values. Naive
// timestamps are interpreted as UTC.
var datetimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
	"01/02/2006",
	"01-02-2006 15:04",
	"01-02-2006",
}

// isoLayouts is the fallback for ISO 8601 values, with or without offset.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDateTime parses a schedule cell into a UTC timestamp. The second
// return value reports whether the value was usable.
func parseDateTime(value any) (time.Time, bool) {
	if value == nil {
		return time.Time{}, false
	}
	if t, ok := value.(time.Time); ok {
		return t, true
	}

	text := strings.TrimSpace(toString(value))
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t, true
		}
	}
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseFloat converts a cell to a float, returning nil for empty or
// non-numeric values.
func parseFloat(value any) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

// toString renders a cell value for string fields. Numbers that came through
// JSON decoding render without a trailing ".0" when integral.
func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// safeString trims a cell value, returning "" when absent.
func safeString(value any) string {
	return strings.TrimSpace(toString(value))
}
