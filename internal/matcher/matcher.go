// Package matcher compiles a stub catalog into matchers and selects at
// most one stub per request, producing the match context the template
// engine consumes. Per-clause matchers (path, query, header, body) are
// evaluated independently and conjoined, following the tagged-union
// clause set this agent's request matcher defines. Only the path clause
// is compiled once per stub; query, header and body regex patterns are
// compiled on each evaluation.
package matcher

import (
	"strings"

	"go.uber.org/zap"

	"mockagent/internal/config"
)

// Result is what Select returns on a successful match.
type Result struct {
	Stub    *config.StubDefinition
	Context *MatchContext
}

type compiledStub struct {
	def  *config.StubDefinition
	path compiledPath
}

// Engine holds the compiled catalog, ready to select a stub per request.
type Engine struct {
	log   *zap.Logger
	stubs []*compiledStub
}

// New compiles every stub's path matcher and returns an Engine. The
// catalog is assumed already validated (config.Config.Validate), so
// path compilation here cannot surface a configuration error; it only
// builds the runtime representation.
func New(log *zap.Logger, stubs []config.StubDefinition) (*Engine, error) {
	compiled := make([]*compiledStub, 0, len(stubs))
	for i := range stubs {
		def := &stubs[i]
		path, err := compilePath(def.Request.Path)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, &compiledStub{def: def, path: path})
	}
	return &Engine{log: log, stubs: compiled}, nil
}

// Select runs the priority-then-insertion-order selection algorithm
// over the compiled catalog and returns the first stub whose clauses
// all pass, along with its captured match context. Disabled stubs are
// skipped. The cap-exhaustion check is deliberately not performed
// here; callers apply it after selection so a capped-out stub never
// silently shadows a lower-priority one.
func (e *Engine) Select(method, path, rawQuery string, headers map[string]string, body []byte) (*Result, bool) {
	ordered := e.ordered()

	for _, cs := range ordered {
		if !cs.def.IsEnabled() {
			continue
		}
		ctx := newMatchContext()
		if e.matches(cs, method, path, rawQuery, headers, body, ctx) {
			return &Result{Stub: cs.def, Context: ctx}, true
		}
	}
	return nil, false
}

// ordered returns the stubs sorted by priority descending, ties broken
// by insertion order ascending. Sort is stable so equal-priority stubs
// never swap relative to each other.
func (e *Engine) ordered() []*compiledStub {
	out := make([]*compiledStub, len(e.stubs))
	copy(out, e.stubs)
	// insertion-sort: the catalog is rarely large enough to warrant
	// sort.Slice's overhead, and stability must hold exactly.
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && out[j-1].def.Priority < out[j].def.Priority {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}

func (e *Engine) matches(cs *compiledStub, method, path, rawQuery string, headers map[string]string, body []byte, ctx *MatchContext) bool {
	rm := cs.def.Request

	if len(rm.Method) > 0 && !methodAllowed(rm.Method, method) {
		return false
	}

	if cs.path != nil && !cs.path.match(path, ctx) {
		return false
	}

	queryParams := parseQueryString(rawQuery)
	ctx.QueryParams = queryParams

	for name, qm := range rm.Query {
		if !matchQuery(queryParams, name, qm) {
			return false
		}
	}

	for name, hm := range rm.Headers {
		if !matchHeader(headers, name, hm) {
			return false
		}
	}

	if !matchBody(body, rm.Body) {
		return false
	}

	return true
}

func methodAllowed(allowed []string, method string) bool {
	upper := strings.ToUpper(method)
	for _, m := range allowed {
		if strings.ToUpper(m) == upper {
			return true
		}
	}
	return false
}
