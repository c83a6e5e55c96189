package matcher

import (
	"regexp"
	"strings"

	"mockagent/internal/config"
)

// parseQueryString splits a raw query string on '&', then each segment
// on the first '=', percent-decoding both key and value. Keys without
// '=' map to the empty string. This intentionally duplicates
// net/url's decoding rules by hand rather than delegating to
// net/url.ParseQuery, because ParseQuery silently drops malformed
// percent-escapes instead of leaving them as no-ops for a single clause.
func parseQueryString(query string) map[string]string {
	params := make(map[string]string)
	if query == "" {
		return params
	}
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		key, value, hasEq := strings.Cut(part, "=")
		key = decodeQueryComponent(key)
		if hasEq {
			params[key] = decodeQueryComponent(value)
		} else {
			params[key] = ""
		}
	}
	return params
}

func decodeQueryComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 < len(s) {
				if hi, ok := hexVal(s[i+1]); ok {
					if lo, ok := hexVal(s[i+2]); ok {
						b.WriteByte(hi<<4 | lo)
						i += 2
						continue
					}
				}
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// matchQuery evaluates a single query clause against the already-parsed
// query parameters. An invalid regex pattern fails the clause, never
// the request (spec clause semantics: request-time regex compilation
// failures are soft).
func matchQuery(params map[string]string, name string, qm config.QueryMatcher) bool {
	switch qm.Type {
	case "exact":
		v, ok := params[name]
		return ok && v == qm.Value
	case "regex":
		v, ok := params[name]
		if !ok {
			return false
		}
		re, err := regexp.Compile(qm.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(v)
	case "present":
		_, ok := params[name]
		return ok
	case "absent":
		_, ok := params[name]
		return !ok
	default:
		return false
	}
}
