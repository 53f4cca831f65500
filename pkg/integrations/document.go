package integrations

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Doc is a decoded JSON object from an upstream API.
//
// Every accessor takes a default, or returns nil, for keys that are absent,
// null, or of an unexpected type. Normalizers read fields only through
// these accessors so schema drift never causes a panic. A nil Doc behaves
// like an empty one.
type Doc map[string]any

// Has reports whether key is present, even if null.
func (d Doc) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// String returns the string at key, or def.
func (d Doc) String(key, def string) string {
	if s, ok := d[key].(string); ok {
		return s
	}
	return def
}

// StringPtr returns the string at key, or nil.
func (d Doc) StringPtr(key string) *string {
	if s, ok := d[key].(string); ok {
		return &s
	}
	return nil
}

// Int returns the number at key truncated to int, or def. Numeric strings
// are accepted since some endpoints quote their ids.
func (d Doc) Int(key string, def int) int {
	if n, ok := toFloat(d[key]); ok {
		return int(n)
	}
	return def
}

// Int64 is Int for values that can exceed 32 bits.
func (d Doc) Int64(key string, def int64) int64 {
	if n, ok := toFloat(d[key]); ok {
		return int64(n)
	}
	return def
}

// IntPtr returns the number at key, or nil.
func (d Doc) IntPtr(key string) *int {
	if n, ok := toFloat(d[key]); ok {
		i := int(n)
		return &i
	}
	return nil
}

// Float returns the number at key, or def.
func (d Doc) Float(key string, def float64) float64 {
	if n, ok := toFloat(d[key]); ok {
		return n
	}
	return def
}

// Bool returns the boolean at key, or def.
func (d Doc) Bool(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

// Doc returns the nested object at key, or nil.
func (d Doc) Doc(key string) Doc {
	switch v := d[key].(type) {
	case map[string]any:
		return Doc(v)
	case Doc:
		return v
	}
	return nil
}

// List returns the array at key, or nil.
func (d Doc) List(key string) []any {
	if l, ok := d[key].([]any); ok {
		return l
	}
	return nil
}

// Docs returns the objects in the array at key. Non-object elements are
// skipped.
func (d Doc) Docs(key string) []Doc {
	return docs(d.List(key))
}

// Ints returns the numbers in the array at key. Non-numeric elements become 0.
func (d Doc) Ints(key string) []int {
	l := d.List(key)
	if l == nil {
		return nil
	}
	out := make([]int, len(l))
	for i, v := range l {
		if n, ok := toFloat(v); ok {
			out[i] = int(n)
		}
	}
	return out
}

// Time parses the timestamp string at key with [ParseTime].
func (d Doc) Time(key string) *time.Time {
	s, ok := d[key].(string)
	if !ok {
		return nil
	}
	return ParseTime(s)
}

// Unix reads the number at key as unix seconds.
func (d Doc) Unix(key string) *time.Time {
	n, ok := toFloat(d[key])
	if !ok {
		return nil
	}
	t := time.Unix(int64(n), 0).UTC()
	return &t
}

// timeLayouts are tried in order. They cover the variants the upstream
// services have sent over time, including the compact build date form.
var timeLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05+00:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02_15_04",
}

// ParseTime parses s with each known layout and returns nil when none
// matches. Results are in UTC.
func ParseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// AsDoc converts a decoded JSON value to a Doc when it is an object.
func AsDoc(v any) (Doc, bool) {
	switch m := v.(type) {
	case map[string]any:
		return Doc(m), true
	case Doc:
		return m, true
	}
	return nil, false
}

func docs(l []any) []Doc {
	if l == nil {
		return nil
	}
	out := make([]Doc, 0, len(l))
	for _, v := range l {
		if m, ok := AsDoc(v); ok {
			out = append(out, m)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}
