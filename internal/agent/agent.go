// Package agent assembles the catalog, matcher, and response builder
// into the agent that answers the host protocol: OnRequest/OnResponse/
// OnConfigure plus the lifecycle callbacks (capabilities, health,
// metrics, shutdown, drain). Request handling is lock-free: stub state
// is read-only after construction and counters use sync/atomic.
package agent

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"mockagent/internal/config"
	"mockagent/internal/hostproto"
	"mockagent/internal/matcher"
	"mockagent/internal/response"
)

const agentID = "mock-server"

// Agent is the request-interception mock agent: an immutable compiled
// catalog plus the mutable counters and drain flag that track its
// runtime behavior.
type Agent struct {
	log     *zap.Logger
	cfg     *config.Config
	matcher *matcher.Engine
	builder *response.Builder

	matchCounts map[string]*atomic.Uint32

	requestsTotal     atomic.Uint64
	requestsMatched   atomic.Uint64
	requestsUnmatched atomic.Uint64
	draining          atomic.Bool
}

// New builds an Agent from a validated configuration.
func New(log *zap.Logger, cfg *config.Config) (*Agent, error) {
	eng, err := matcher.New(log, cfg.Stubs)
	if err != nil {
		return nil, err
	}

	matchCounts := make(map[string]*atomic.Uint32, len(cfg.Stubs))
	for i := range cfg.Stubs {
		matchCounts[cfg.Stubs[i].ID] = &atomic.Uint32{}
	}

	a := &Agent{
		log:         log,
		cfg:         cfg,
		matcher:     eng,
		builder:     response.NewBuilder(log, cfg.Settings, cfg.DefaultResponse),
		matchCounts: matchCounts,
	}

	log.Info("mock server agent initialized",
		zap.Int("stubs", len(cfg.Stubs)),
		zap.Bool("passthrough", cfg.Settings.PassthroughUnmatched))

	return a, nil
}

// IsDraining reports whether the agent has entered drain (or shutdown).
func (a *Agent) IsDraining() bool { return a.draining.Load() }

func (a *Agent) TotalRequests() uint64   { return a.requestsTotal.Load() }
func (a *Agent) TotalMatched() uint64    { return a.requestsMatched.Load() }
func (a *Agent) TotalUnmatched() uint64  { return a.requestsUnmatched.Load() }

// OnRequest is the core decision callback. A non-nil error means the
// call was cancelled mid-sleep; the caller must emit no reply at all,
// counters already incremented notwithstanding.
func (a *Agent) OnRequest(ctx context.Context, req hostproto.Request) (hostproto.Decision, error) {
	a.requestsTotal.Add(1)

	if a.IsDraining() {
		a.log.Debug("agent is draining, passing through request")
		return hostproto.AllowDecision(), nil
	}

	headers := hostproto.FlattenHeaders(req.Headers)
	result, ok := a.matcher.Select(req.Method, req.Path, req.QueryString, headers, req.Body)
	if !ok {
		a.requestsUnmatched.Add(1)
		if a.cfg.Settings.LogUnmatched {
			a.log.Warn("no matching stub found", zap.String("method", req.Method), zap.String("path", req.Path))
		}
		if a.cfg.Settings.PassthroughUnmatched {
			return hostproto.AllowDecision(), nil
		}
		return a.builder.BuildDefault(), nil
	}

	if a.isStubExhausted(result.Stub) {
		a.requestsUnmatched.Add(1)
		if a.cfg.Settings.LogUnmatched {
			a.log.Info("stub exhausted (max_matches reached)",
				zap.String("stub_id", result.Stub.ID), zap.String("path", req.Path))
		}
		if a.cfg.Settings.PassthroughUnmatched {
			return hostproto.AllowDecision(), nil
		}
		return a.builder.BuildDefault(), nil
	}

	a.requestsMatched.Add(1)
	a.incrementMatchCount(result.Stub.ID)

	if a.cfg.Settings.LogMatches {
		a.log.Info("request matched stub",
			zap.String("stub_id", result.Stub.ID),
			zap.String("method", req.Method),
			zap.String("path", req.Path))
	}

	dec, err := a.builder.BuildStub(ctx, result.Stub, result.Context, req)
	if err != nil {
		return hostproto.Decision{}, err
	}
	return dec, nil
}

// OnResponse is always allow: the mock agent has nothing to do in the
// response phase.
func (a *Agent) OnResponse(_ context.Context, _ hostproto.Request, _ hostproto.Response) hostproto.Decision {
	return hostproto.AllowDecision()
}

// OnConfigure acknowledges a pushed configuration without applying it
// — the catalog is immutable for the process lifetime.
func (a *Agent) OnConfigure(raw []byte) error {
	if len(raw) == 0 {
		return nil
	}
	a.log.Info("received configuration update", zap.Int("bytes", len(raw)))
	return nil
}

func (a *Agent) isStubExhausted(stub *config.StubDefinition) bool {
	if stub.MaxMatches == 0 {
		return false
	}
	counter, ok := a.matchCounts[stub.ID]
	if !ok {
		return false
	}
	return counter.Load() >= stub.MaxMatches
}

func (a *Agent) incrementMatchCount(id string) {
	if counter, ok := a.matchCounts[id]; ok {
		counter.Add(1)
	}
}
