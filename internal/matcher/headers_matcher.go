package matcher

import (
	"regexp"
	"strings"

	"mockagent/internal/config"
)

// lookupHeader does a case-insensitive lookup into the flattened
// (first-value-wins) header map the host delivers.
func lookupHeader(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	lowerName := strings.ToLower(name)
	for k, v := range headers {
		if strings.ToLower(k) == lowerName {
			return v, true
		}
	}
	return "", false
}

// matchHeader evaluates a single header clause. As with query regex,
// an invalid pattern fails only this clause.
func matchHeader(headers map[string]string, name string, hm config.HeaderMatcher) bool {
	value, present := lookupHeader(headers, name)

	switch hm.Type {
	case "exact":
		return present && value == hm.Value
	case "regex":
		if !present {
			return false
		}
		re, err := regexp.Compile(hm.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(value)
	case "present":
		return present
	case "absent":
		return !present
	case "contains":
		return present && strings.Contains(value, hm.Value)
	default:
		return false
	}
}
