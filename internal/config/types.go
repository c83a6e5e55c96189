package config

import (
	"fmt"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// RequestMatcher is the AND-conjunction of five independent clauses.
// Any clause may be nil/empty, which makes it vacuously true.
type RequestMatcher struct {
	Method  []string                 `yaml:"method"`
	Path    *PathMatcher             `yaml:"path"`
	Query   map[string]QueryMatcher  `yaml:"query"`
	Headers map[string]HeaderMatcher `yaml:"headers"`
	Body    *BodyMatcher             `yaml:"body"`
}

func (m *RequestMatcher) validate() error {
	if m.Path != nil {
		return m.Path.validate()
	}
	return nil
}

// PathMatcher is a tagged union: exactly one of Exact/Prefix/Regex/Glob/
// Template, selected by Type.
type PathMatcher struct {
	Type     string `yaml:"type"`
	Value    string `yaml:"value"`
	Pattern  string `yaml:"pattern"`
	Template string `yaml:"template"`
}

func (p *PathMatcher) validate() error {
	switch p.Type {
	case "exact", "prefix", "template":
		return nil
	case "regex":
		if _, err := regexp.Compile(p.Pattern); err != nil {
			return fmt.Errorf("invalid path regex %q: %w", p.Pattern, err)
		}
		return nil
	case "glob":
		if !doublestar.ValidatePattern(p.Pattern) {
			return fmt.Errorf("invalid path glob %q", p.Pattern)
		}
		return nil
	default:
		return fmt.Errorf("unknown path matcher type %q", p.Type)
	}
}

// QueryMatcher is a tagged union: Exact/Regex/Present/Absent.
type QueryMatcher struct {
	Type    string `yaml:"type"`
	Value   string `yaml:"value"`
	Pattern string `yaml:"pattern"`
}

// HeaderMatcher is a tagged union: Exact/Regex/Present/Absent/Contains.
type HeaderMatcher struct {
	Type    string `yaml:"type"`
	Value   string `yaml:"value"`
	Pattern string `yaml:"pattern"`
}

// BodyMatcher is a tagged union: Exact/Regex/JsonPath/Contains/Json/Empty.
type BodyMatcher struct {
	Type        string         `yaml:"type"`
	Value       string         `yaml:"value"`
	Pattern     string         `yaml:"pattern"`
	Expressions map[string]any `yaml:"expressions"`
}

// ResponseDef is the reply a stub (or default_response) synthesizes.
type ResponseDef struct {
	Status   int               `yaml:"status"`
	Headers  map[string]string `yaml:"headers"`
	Body     *ResponseBody     `yaml:"body"`
	Template bool              `yaml:"template"`
}

func (r *ResponseDef) validate() error {
	status := r.Status
	if status == 0 {
		status = 200
	}
	if status < 100 || status > 599 {
		return fmt.Errorf("invalid status code: %d", status)
	}
	return nil
}

// EffectiveStatus returns the response status, applying the default of
// 200 when the document omits it.
func (r *ResponseDef) EffectiveStatus() int {
	if r.Status == 0 {
		return 200
	}
	return r.Status
}

// ResponseBody is a tagged union: Text/Json/Base64/File.
type ResponseBody struct {
	Type    string `yaml:"type"`
	Content any    `yaml:"content"`
	Path    string `yaml:"path"`
}

// ContentType returns the implied default Content-Type for this body
// variant.
func (b *ResponseBody) ContentType() string {
	switch b.Type {
	case "text":
		return "text/plain"
	case "json":
		return "application/json"
	case "base64", "file":
		return "application/octet-stream"
	default:
		return "application/octet-stream"
	}
}

// DelaySpec controls simulated latency before a response is built.
type DelaySpec struct {
	FixedMs uint64 `yaml:"fixed_ms"`
	MinMs   uint64 `yaml:"min_ms"`
	MaxMs   uint64 `yaml:"max_ms"`
}

// FaultSpec is a tagged union: Error/Timeout/Empty/Corrupt/SlowResponse.
type FaultSpec struct {
	Type           string   `yaml:"type"`
	Status         int      `yaml:"status"`
	Message        string   `yaml:"message"`
	DurationMs     uint64   `yaml:"duration_ms"`
	Probability    *float64 `yaml:"probability"`
	BytesPerSecond uint64   `yaml:"bytes_per_second"`
}

// EffectiveProbability returns the configured Corrupt probability,
// defaulting to 1.0 when omitted.
func (f *FaultSpec) EffectiveProbability() float64 {
	if f.Probability == nil {
		return 1.0
	}
	return *f.Probability
}
