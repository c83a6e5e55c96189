package response

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mockagent/internal/config"
	"mockagent/internal/hostproto"
	"mockagent/internal/matcher"
)

func TestBuildStub_StaticTextBody(t *testing.T) {
	stub := &config.StubDefinition{
		ID: "hello",
		Response: config.ResponseDef{
			Status: 200,
			Body:   &config.ResponseBody{Type: "text", Content: "Hello, World!"},
		},
	}
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), nil)

	dec, err := b.BuildStub(context.Background(), stub, &matcher.MatchContext{}, hostproto.Request{})
	require.NoError(t, err)
	assert.Equal(t, 200, dec.Status)
	assert.Equal(t, "Hello, World!", string(dec.Body))
	assert.Equal(t, "text/plain", dec.Headers["Content-Type"])
	assert.Contains(t, dec.Tags, "mocked")
	assert.Equal(t, "hello", dec.Metadata["stub_id"])
}

func TestBuildStub_TemplatedJSONBody(t *testing.T) {
	stub := &config.StubDefinition{
		ID: "user-by-id",
		Response: config.ResponseDef{
			Status:   200,
			Template: true,
			Body: &config.ResponseBody{Type: "json", Content: map[string]any{
				"id":   "{{path.id}}",
				"name": "User {{path.id}}",
			}},
		},
	}
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), nil)
	matchCtx := &matcher.MatchContext{PathParams: map[string]string{"id": "123"}}

	dec, err := b.BuildStub(context.Background(), stub, matchCtx, hostproto.Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"123","name":"User 123"}`, string(dec.Body))
	assert.Equal(t, "application/json", dec.Headers["Content-Type"])
}

func TestBuildStub_ErrorFault(t *testing.T) {
	stub := &config.StubDefinition{
		ID:       "err",
		Response: config.ResponseDef{Status: 200},
		Fault:    &config.FaultSpec{Type: "error", Status: 500, Message: "Internal Server Error"},
	}
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), nil)

	dec, err := b.BuildStub(context.Background(), stub, &matcher.MatchContext{}, hostproto.Request{})
	require.NoError(t, err)
	assert.Equal(t, 500, dec.Status)
	assert.Equal(t, "Internal Server Error", string(dec.Body))
	assert.Contains(t, dec.Tags, "fault_injected")
	assert.Equal(t, "error", dec.Metadata["fault_type"])
}

func TestBuildStub_DelayElapses(t *testing.T) {
	stub := &config.StubDefinition{
		ID: "slow",
		Response: config.ResponseDef{
			Status: 200,
			Body:   &config.ResponseBody{Type: "text", Content: "Delayed response"},
		},
		Delay: &config.DelaySpec{FixedMs: 50},
	}
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), nil)

	start := time.Now()
	dec, err := b.BuildStub(context.Background(), stub, &matcher.MatchContext{}, hostproto.Request{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "Delayed response", string(dec.Body))
	assert.GreaterOrEqual(t, elapsed.Milliseconds(), int64(50))
}

func TestBuildStub_CancelledDelayReturnsError(t *testing.T) {
	stub := &config.StubDefinition{
		ID:       "slow",
		Response: config.ResponseDef{Status: 200},
		Delay:    &config.DelaySpec{FixedMs: 5000},
	}
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := b.BuildStub(ctx, stub, &matcher.MatchContext{}, hostproto.Request{})
	assert.Error(t, err)
}

func TestBuildDefault_NoConfiguredDefault(t *testing.T) {
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), nil)
	dec := b.BuildDefault()

	assert.Equal(t, 404, dec.Status)
	assert.Contains(t, dec.Tags, "not_found")
	assert.JSONEq(t, `{"error":"not_found","message":"No matching stub found"}`, string(dec.Body))
}

func TestBuildDefault_ConfiguredDefault(t *testing.T) {
	def := &config.ResponseDef{
		Status: 503,
		Body:   &config.ResponseBody{Type: "json", Content: map[string]any{"error": "unavailable"}},
	}
	b := NewBuilder(zaptest.NewLogger(t), config.DefaultSettings(), def)
	dec := b.BuildDefault()

	assert.Equal(t, 503, dec.Status)
	assert.Contains(t, dec.Tags, "default_response")
	assert.JSONEq(t, `{"error":"unavailable"}`, string(dec.Body))
}
