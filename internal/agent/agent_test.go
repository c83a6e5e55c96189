package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mockagent/internal/config"
	"mockagent/internal/hostproto"
)

const testYAML = `
stubs:
  - id: hello
    request:
      method: [GET]
      path:
        type: exact
        value: /hello
    response:
      status: 200
      body:
        type: text
        content: "Hello, World!"

  - id: user-by-id
    request:
      method: [GET]
      path:
        type: template
        template: /users/{id}
    response:
      status: 200
      template: true
      body:
        type: json
        content:
          id: "{{path.id}}"
          name: "User {{path.id}}"

  - id: error-endpoint
    request:
      path:
        type: exact
        value: /error
    response:
      status: 200
    fault:
      type: error
      status: 500
      message: "Internal Server Error"

  - id: delayed-endpoint
    request:
      path:
        type: exact
        value: /slow
    response:
      status: 200
      body:
        type: text
        content: "Delayed response"
    delay:
      fixed_ms: 1

settings:
  passthrough_unmatched: false
`

func newTestAgent(t *testing.T) *Agent {
	t.Helper()
	cfg, err := config.Load([]byte(testYAML))
	require.NoError(t, err)
	a, err := New(zaptest.NewLogger(t), cfg)
	require.NoError(t, err)
	return a
}

func TestOnRequest_SimpleMatch(t *testing.T) {
	a := newTestAgent(t)

	dec, err := a.OnRequest(context.Background(), hostproto.Request{Method: "GET", Path: "/hello"})
	require.NoError(t, err)
	assert.False(t, dec.Allow)
	assert.Equal(t, 200, dec.Status)
	assert.Equal(t, "Hello, World!", string(dec.Body))
	assert.EqualValues(t, 1, a.TotalRequests())
	assert.EqualValues(t, 1, a.TotalMatched())
	assert.EqualValues(t, 0, a.TotalUnmatched())
}

func TestOnRequest_TemplateMatch(t *testing.T) {
	a := newTestAgent(t)

	dec, err := a.OnRequest(context.Background(), hostproto.Request{Method: "GET", Path: "/users/123"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"123","name":"User 123"}`, string(dec.Body))
}

func TestOnRequest_NoMatch(t *testing.T) {
	a := newTestAgent(t)

	dec, err := a.OnRequest(context.Background(), hostproto.Request{Method: "GET", Path: "/nowhere"})
	require.NoError(t, err)
	assert.Equal(t, 404, dec.Status)
	assert.Contains(t, dec.Tags, "not_found")
	assert.EqualValues(t, 1, a.TotalUnmatched())
}

func TestOnRequest_FaultError(t *testing.T) {
	a := newTestAgent(t)

	dec, err := a.OnRequest(context.Background(), hostproto.Request{Method: "GET", Path: "/error"})
	require.NoError(t, err)
	assert.Equal(t, 500, dec.Status)
	assert.Contains(t, dec.Tags, "fault_injected")
}

func TestOnRequest_MaxMatchesCapReclassifiesAsUnmatched(t *testing.T) {
	cfg, err := config.Load([]byte(testYAML))
	require.NoError(t, err)
	for i := range cfg.Stubs {
		if cfg.Stubs[i].ID == "hello" {
			cfg.Stubs[i].MaxMatches = 1
		}
	}
	a, err := New(zaptest.NewLogger(t), cfg)
	require.NoError(t, err)

	req := hostproto.Request{Method: "GET", Path: "/hello"}

	_, err = a.OnRequest(context.Background(), req)
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.TotalMatched())

	dec, err := a.OnRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 404, dec.Status)
	assert.EqualValues(t, 1, a.TotalMatched())
	assert.EqualValues(t, 1, a.TotalUnmatched())
}

func TestOnDrain_StopsAllMatching(t *testing.T) {
	a := newTestAgent(t)
	a.OnDrain(5000, hostproto.DrainMaintenance)

	dec, err := a.OnRequest(context.Background(), hostproto.Request{Method: "GET", Path: "/hello"})
	require.NoError(t, err)
	assert.True(t, dec.Allow)
	assert.EqualValues(t, 1, a.TotalRequests())
	assert.EqualValues(t, 0, a.TotalMatched())
	assert.EqualValues(t, 0, a.TotalUnmatched())

	health := a.HealthStatus()
	assert.False(t, health.Healthy)
	assert.Equal(t, []string{"stubbing"}, health.Subsystems)
}

func TestOnShutdown_SetsDrainFlag(t *testing.T) {
	a := newTestAgent(t)
	assert.False(t, a.IsDraining())

	a.OnShutdown(hostproto.ShutdownGraceful, 30000)
	assert.True(t, a.IsDraining())
}

func TestCapabilities(t *testing.T) {
	a := newTestAgent(t)
	caps := a.Capabilities()

	assert.Equal(t, "mock-server", caps.AgentID)
	assert.True(t, caps.Features.ConfigPush)
	assert.True(t, caps.Features.HealthReporting)
	assert.Equal(t, 100, caps.Features.ConcurrentRequests)
}

func TestMetricsReport(t *testing.T) {
	a := newTestAgent(t)
	report := a.MetricsReport()

	assert.Equal(t, "mock-server", report.AgentID)
	assert.NotEmpty(t, report.Counters)
	assert.NotEmpty(t, report.Gauges)
}
