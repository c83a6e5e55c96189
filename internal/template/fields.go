package template

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode/utf8"
)

func isValidUTF8(b []byte) bool { return utf8.Valid(b) }

// resolveField looks up a dotted field reference (e.g. "path.id",
// "headers.x-request-id", "method") against ctx. The second return
// value is false when the reference names an unknown namespace or a
// key that was never captured.
func resolveField(ctx *Context, expr string) (any, bool) {
	namespace, rest, hasDot := strings.Cut(expr, ".")

	switch namespace {
	case "path":
		if !hasDot {
			return nil, false
		}
		v, ok := ctx.PathParams[rest]
		return v, ok
	case "query":
		if !hasDot {
			return nil, false
		}
		v, ok := ctx.QueryParams[rest]
		return v, ok
	case "headers":
		if !hasDot {
			return nil, false
		}
		v, ok := lookupHeader(ctx.Headers, rest)
		return v, ok
	case "captures":
		if !hasDot {
			return nil, false
		}
		v, ok := ctx.Captures[rest]
		return v, ok
	case "method":
		if hasDot {
			return nil, false
		}
		return ctx.Method, true
	case "request_path":
		if hasDot {
			return nil, false
		}
		return ctx.RequestPath, true
	case "body":
		if hasDot {
			return nil, false
		}
		s, ok := ctx.rawBody()
		return s, ok
	case "json":
		s, ok := ctx.rawBody()
		if !ok {
			return nil, false
		}
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, false
		}
		if !hasDot {
			return v, true
		}
		return traverseJSON(v, rest)
	default:
		return nil, false
	}
}

// traverseJSON walks a dotted field path ("user.id", "items.0.name")
// into a value decoded from encoding/json (map[string]any, []any, or a
// scalar), returning false as soon as a segment doesn't resolve.
func traverseJSON(v any, path string) (any, bool) {
	cur := v
	for _, segment := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	lower := strings.ToLower(name)
	for k, v := range headers {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	return "", false
}

// stringify renders a resolved value for text interpolation: strings
// pass through verbatim, everything else is compact-JSON-encoded.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// isNullOrEmpty implements the "non-null, non-empty-string" test the
// default helper uses.
func isNullOrEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
