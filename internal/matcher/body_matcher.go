package matcher

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PaesslerAG/jsonpath"

	"mockagent/internal/config"
)

// matchBody evaluates the body clause. The raw body is only decoded as
// UTF-8/JSON on demand, since most clause types never need it.
func matchBody(body []byte, bm *config.BodyMatcher) bool {
	if bm == nil {
		return true
	}

	switch bm.Type {
	case "empty":
		return len(body) == 0
	case "exact":
		s, ok := bodyText(body)
		return ok && s == bm.Value
	case "regex":
		s, ok := bodyText(body)
		if !ok {
			return false
		}
		re, err := regexp.Compile(bm.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	case "contains":
		s, ok := bodyText(body)
		return ok && strings.Contains(s, bm.Value)
	case "json":
		s, ok := bodyText(body)
		if !ok {
			return false
		}
		var v any
		return json.Unmarshal([]byte(s), &v) == nil
	case "jsonpath":
		s, ok := bodyText(body)
		if !ok {
			return false
		}
		var doc any
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return false
		}
		return matchJSONPaths(doc, bm.Expressions)
	default:
		return false
	}
}

func bodyText(body []byte) (string, bool) {
	if !utf8.Valid(body) {
		return "", false
	}
	return string(body), true
}

// matchJSONPaths evaluates every JsonPath expression in expressions
// against doc. A nil/null expected value means "the path resolves to
// any non-null value"; otherwise the resolved value must equal
// expected exactly (reflect.DeepEqual, after round-tripping both sides
// through JSON-shaped Go values so numeric/representational
// differences don't cause spurious mismatches).
func matchJSONPaths(doc any, expressions map[string]any) bool {
	for expr, expected := range expressions {
		result, err := jsonpath.Get(expr, doc)
		if err != nil {
			return false
		}
		if expected == nil {
			if result == nil {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(normalizeJSON(result), normalizeJSON(expected)) {
			return false
		}
	}
	return true
}

// normalizeJSON round-trips a value through encoding/json so values
// produced by jsonpath.Get (which walks an already-decoded document)
// and values decoded straight from YAML config compare equal whenever
// they represent the same JSON value.
func normalizeJSON(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return v
	}
	return out
}
