package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Record is one stored object. Values follow encoding/json conventions
// (map[string]any, []any, json.Number or float64, string, bool, nil).
type Record map[string]any

// ID returns the record's numeric id.
func (r Record) ID() (int64, bool) { return ToInt64(r["id"]) }

// Int64 reads a numeric attribute.
func (r Record) Int64(key string) (int64, bool) { return ToInt64(r[key]) }

// String reads an attribute in its canonical string form.
func (r Record) String(key string) string { return Canonical(r[key]) }

// Clone returns a deep copy so callers never share nested maps with the store.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	return Record(cloneMap(r))
}

// merge applies assign semantics: top-level keys of patch overwrite rec.
func (r Record) merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Record:
		return Record(cloneMap(t))
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = cloneValue(t[i])
		}
		return out
	default:
		return v
	}
}

// ToInt64 converts the numeric shapes a decoded JSON value can take.
// Numeric strings are accepted because clients send ids both ways.
func ToInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Canonical renders a value the way it is compared in queries: numbers
// without trailing zeros, strings as-is, nil as the empty string.
func Canonical(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
