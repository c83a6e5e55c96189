package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"mockagent/internal/config"
	"mockagent/internal/pathtemplate"
)

// compiledPath is a discriminated path matcher, compiled once at catalog
// construction time from the validated config.PathMatcher shape.
type compiledPath interface {
	match(path string, ctx *MatchContext) bool
}

type exactPath struct{ value string }

func (p exactPath) match(path string, ctx *MatchContext) bool { return path == p.value }

type prefixPath struct{ value string }

func (p prefixPath) match(path string, ctx *MatchContext) bool {
	return strings.HasPrefix(path, p.value)
}

type regexPath struct{ re *regexp.Regexp }

func (p regexPath) match(path string, ctx *MatchContext) bool {
	m := p.re.FindStringSubmatch(path)
	if m == nil {
		return false
	}
	for i, v := range m {
		if i == 0 {
			continue
		}
		ctx.Captures[strconv.Itoa(i)] = v
	}
	for i, name := range p.re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		ctx.Captures[name] = m[i]
	}
	return true
}

type globPath struct{ pattern string }

func (p globPath) match(path string, ctx *MatchContext) bool {
	ok, err := doublestar.Match(p.pattern, path)
	return err == nil && ok
}

type templatePath struct{ tmpl *pathtemplate.Template }

func (p templatePath) match(path string, ctx *MatchContext) bool {
	params, ok := p.tmpl.Match(path)
	if !ok {
		return false
	}
	ctx.PathParams = params
	return true
}

func compilePath(pm *config.PathMatcher) (compiledPath, error) {
	if pm == nil {
		return nil, nil
	}
	switch pm.Type {
	case "exact":
		return exactPath{value: pm.Value}, nil
	case "prefix":
		return prefixPath{value: pm.Value}, nil
	case "regex":
		re, err := regexp.Compile(pm.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile path regex: %w", err)
		}
		return regexPath{re: re}, nil
	case "glob":
		return globPath{pattern: pm.Pattern}, nil
	case "template":
		return templatePath{tmpl: pathtemplate.Parse(pm.Template)}, nil
	default:
		return nil, fmt.Errorf("unknown path matcher type %q", pm.Type)
	}
}
