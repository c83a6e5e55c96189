package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SimpleStub(t *testing.T) {
	yaml := `
stubs:
  - id: hello-world
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
`
	cfg, err := Load([]byte(yaml))
	require.NoError(t, err)
	require.Len(t, cfg.Stubs, 1)
	assert.Equal(t, "hello-world", cfg.Stubs[0].ID)
	assert.True(t, cfg.Stubs[0].IsEnabled())
	assert.Equal(t, "application/json", cfg.Settings.DefaultContentType)
}

func TestLoad_RejectsUnknownTopLevelKey(t *testing.T) {
	yaml := `
stubz:
  - id: x
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestLoad_RejectsUnknownNestedKey(t *testing.T) {
	yaml := `
stubs:
  - id: hello
    request:
      path:
        type: exact
        value: /hello
    response:
      status: 200
    bogus_field: true
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field")
}

func TestLoad_RejectsEmptyID(t *testing.T) {
	yaml := `
stubs:
  - id: ""
    request: {}
    response:
      status: 200
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoad_RejectsDuplicateID(t *testing.T) {
	yaml := `
stubs:
  - id: dup
    request: {}
    response:
      status: 200
  - id: dup
    request: {}
    response:
      status: 200
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad_RejectsInvalidStatus(t *testing.T) {
	yaml := `
stubs:
  - id: bad-status
    request: {}
    response:
      status: 999
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")
}

func TestLoad_RejectsInvalidRegex(t *testing.T) {
	yaml := `
stubs:
  - id: bad-regex
    request:
      path:
        type: regex
        pattern: "[unterminated"
    response:
      status: 200
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid path regex")
}

func TestLoad_RejectsInvalidGlob(t *testing.T) {
	yaml := `
stubs:
  - id: bad-glob
    request:
      path:
        type: glob
        pattern: "[unterminated"
    response:
      status: 200
`
	_, err := Load([]byte(yaml))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid path glob")
}

func TestLoad_DelayAndFault(t *testing.T) {
	yaml := `
stubs:
  - id: error-response
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
  - id: slow-response
    request:
      path:
        type: exact
        value: /slow
    response:
      status: 200
    delay:
      fixed_ms: 1000
`
	cfg, err := Load([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, cfg.Stubs[0].Fault)
	assert.Equal(t, "error", cfg.Stubs[0].Fault.Type)
	assert.Equal(t, 500, cfg.Stubs[0].Fault.Status)
	require.NotNil(t, cfg.Stubs[1].Delay)
	assert.EqualValues(t, 1000, cfg.Stubs[1].Delay.FixedMs)
}

func TestLoad_DefaultResponse(t *testing.T) {
	yaml := `
default_response:
  status: 404
  body:
    type: json
    content:
      error: not_found
`
	cfg, err := Load([]byte(yaml))
	require.NoError(t, err)
	require.NotNil(t, cfg.DefaultResponse)
	assert.Equal(t, 404, cfg.DefaultResponse.EffectiveStatus())
}

func TestDefaultConfigYAML_IsValid(t *testing.T) {
	cfg, err := Load(DefaultConfigYAML())
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Stubs)
}

func TestEnabledCount(t *testing.T) {
	yaml := `
stubs:
  - id: one
    request: {}
    response: {status: 200}
  - id: two
    enabled: false
    request: {}
    response: {status: 200}
`
	cfg, err := Load([]byte(yaml))
	require.NoError(t, err)
	assert.Equal(t, 2, len(cfg.Stubs))
	assert.Equal(t, 1, cfg.EnabledCount())
}

func TestFaultSpec_EffectiveProbability(t *testing.T) {
	f := &FaultSpec{Type: "corrupt"}
	assert.Equal(t, 1.0, f.EffectiveProbability())

	half := 0.5
	f2 := &FaultSpec{Type: "corrupt", Probability: &half}
	assert.Equal(t, 0.5, f2.EffectiveProbability())
}
