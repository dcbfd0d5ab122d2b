package devutil

import (
	"encoding/json"
	"strings"
)

// Pick round-trips v through JSON and keeps only the requested keys. A key
// may be a dotted path ("metadata.version"); the result is keyed by the
// path as given. Missing keys are left out.
func Pick(v any, keys ...string) map[string]any {
	m := toMap(v)
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := lookup(m, k); ok {
			out[k] = val
		}
	}
	return out
}

// Fields splits a comma separated --fields flag, dropping blanks.
func Fields(flag string) []string {
	var out []string
	for _, f := range strings.Split(flag, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func toMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

func lookup(m map[string]any, path string) (any, bool) {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}
