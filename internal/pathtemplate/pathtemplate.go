// Package pathtemplate parses and matches `/a/{p}/b` style path
// templates, extracting parameter captures.
//
// Lookahead rule: a parameter segment consumes up to the *strictly
// next* literal segment in the template (or to the next '/' if no
// literal follows), never a literal further down the template. This
// avoids surprising results for templates like /a/{p}/b/{q}/c, where a
// parameter could otherwise greedily swallow segments meant for a
// later parameter.
package pathtemplate

import "strings"

type segmentKind int

const (
	literal segmentKind = iota
	param
)

type segment struct {
	kind  segmentKind
	value string // literal text, or parameter name
}

// Template is a compiled path template ready for matching.
type Template struct {
	segments []segment
}

// Parse parses a template string left-to-right: `{name}` opens a
// parameter, `}` closes it, everything else is literal.
func Parse(tmpl string) *Template {
	var segments []segment
	var current strings.Builder
	inParam := false

	flushLiteral := func() {
		if current.Len() > 0 {
			segments = append(segments, segment{kind: literal, value: current.String()})
			current.Reset()
		}
	}

	for _, ch := range tmpl {
		switch {
		case ch == '{' && !inParam:
			flushLiteral()
			inParam = true
		case ch == '}' && inParam:
			segments = append(segments, segment{kind: param, value: current.String()})
			current.Reset()
			inParam = false
		default:
			current.WriteRune(ch)
		}
	}
	flushLiteral()

	return &Template{segments: segments}
}

// Match attempts to match path against the template. On success it
// returns the captured {name: value} pairs; the path must be fully
// consumed for a match to succeed, and an empty capture always fails.
func (t *Template) Match(path string) (map[string]string, bool) {
	params := make(map[string]string)
	remaining := path

	for i, seg := range t.segments {
		switch seg.kind {
		case literal:
			if !strings.HasPrefix(remaining, seg.value) {
				return nil, false
			}
			remaining = remaining[len(seg.value):]
		case param:
			var endPos int
			if next, ok := nextLiteral(t.segments, i+1); ok {
				if idx := strings.Index(remaining, next); idx >= 0 {
					endPos = idx
				} else {
					endPos = len(remaining)
				}
			} else if idx := strings.IndexByte(remaining, '/'); idx >= 0 {
				endPos = idx
			} else {
				endPos = len(remaining)
			}

			if endPos == 0 {
				return nil, false
			}

			params[seg.value] = remaining[:endPos]
			remaining = remaining[endPos:]
		}
	}

	if remaining != "" {
		return nil, false
	}
	return params, true
}

// nextLiteral scans forward from index i and returns the first literal
// segment encountered (skipping over any intervening parameter
// segments), i.e. the strictly-next literal in the remainder of the
// template — never one that appears earlier in the template.
func nextLiteral(segments []segment, i int) (string, bool) {
	for ; i < len(segments); i++ {
		if segments[i].kind == literal {
			return segments[i].value, true
		}
	}
	return "", false
}
