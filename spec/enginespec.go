package spec

import (
	"fmt"
	"strconv"
	"strings"
)

// EngineSpec is the persisted, wire-level configuration record for one
// engine: a flat string-keyed mapping with scalar and array values. It is
// exactly what the persistence layer stores and what the node-side process
// orchestration later reads. Values coming back from JSON storage arrive as
// string, float64, bool or []interface{}, so every getter coerces.
type EngineSpec map[string]interface{}

func (s EngineSpec) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// GetString returns the value coerced to a string, or "" when absent.
func (s EngineSpec) GetString(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return fmt.Sprint(v)
}

// GetInt returns the value coerced to an int. The second result is false
// when the key is absent or not numeric.
func (s EngineSpec) GetInt(key string) (int, bool) {
	v, ok := s[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// GetBool coerces truthy values: true, "true", "1", non-zero numbers.
func (s EngineSpec) GetBool(key string) bool {
	v, ok := s[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return false
}

// GetStrings returns an array value with every element stringified. A scalar
// value is returned as a single-element slice.
func (s EngineSpec) GetStrings(key string) []string {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []interface{}:
		out := make([]string, 0, len(t))
		for i := range t {
			out = append(out, EngineSpec{"v": t[i]}.GetString("v"))
		}
		return out
	case []int:
		out := make([]string, 0, len(t))
		for i := range t {
			out = append(out, strconv.Itoa(t[i]))
		}
		return out
	}
	return []string{s.GetString(key)}
}

// GetInts returns an array value with every numeric element kept, dropping
// the rest.
func (s EngineSpec) GetInts(key string) []int {
	var out []int
	for _, str := range s.GetStrings(key) {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// GetMap returns a nested mapping value, or nil when absent.
func (s EngineSpec) GetMap(key string) EngineSpec {
	v, ok := s[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case EngineSpec:
		return t
	case map[string]interface{}:
		return EngineSpec(t)
	}
	return nil
}
