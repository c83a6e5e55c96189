package matcher

// MatchContext is the bag of values captured by a successful match: path
// parameters (from a template path matcher), the parsed request query
// string, and regex capture groups (positional and named). It flows
// into the template engine unchanged.
type MatchContext struct {
	PathParams  map[string]string
	QueryParams map[string]string
	Captures    map[string]string
}

func newMatchContext() *MatchContext {
	return &MatchContext{
		PathParams:  make(map[string]string),
		QueryParams: make(map[string]string),
		Captures:    make(map[string]string),
	}
}
