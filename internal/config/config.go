// Package config parses and validates the stub catalog and global
// settings consumed by the matching and response-synthesis engine.
//
// The catalog is a single YAML document (root keys: stubs, settings,
// default_response). Unknown keys at any level are rejected.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config is the root of the stub catalog document.
type Config struct {
	Stubs           []StubDefinition  `yaml:"stubs"`
	Settings        GlobalSettings    `yaml:"settings"`
	DefaultResponse *ResponseDef      `yaml:"default_response"`
}

// GlobalSettings holds process-wide behavior toggles.
type GlobalSettings struct {
	LogMatches            bool   `yaml:"log_matches"`
	LogUnmatched          bool   `yaml:"log_unmatched"`
	PassthroughUnmatched  bool   `yaml:"passthrough_unmatched"`
	DefaultContentType    string `yaml:"default_content_type"`
	CaseInsensitiveHeaders bool  `yaml:"case_insensitive_headers"`
}

// DefaultSettings returns the settings in effect when the YAML document
// omits the settings block entirely.
func DefaultSettings() GlobalSettings {
	return GlobalSettings{
		LogMatches:             true,
		LogUnmatched:           true,
		PassthroughUnmatched:   false,
		DefaultContentType:     "application/json",
		CaseInsensitiveHeaders: true,
	}
}

// StubDefinition is a single declarative rule mapping a request pattern
// to a synthetic response.
type StubDefinition struct {
	ID         string         `yaml:"id"`
	Name       string         `yaml:"name"`
	Request    RequestMatcher `yaml:"request"`
	Response   ResponseDef    `yaml:"response"`
	Priority   int            `yaml:"priority"`
	Enabled    *bool          `yaml:"enabled"`
	MaxMatches uint32         `yaml:"max_matches"`
	Delay      *DelaySpec     `yaml:"delay"`
	Fault      *FaultSpec     `yaml:"fault"`
}

// IsEnabled reports whether the stub is enabled, honoring the
// default-true semantics of the `enabled` field.
func (s *StubDefinition) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

func (s *StubDefinition) validate() error {
	if s.ID == "" {
		return fmt.Errorf("stub id cannot be empty")
	}
	if err := s.Request.validate(); err != nil {
		return fmt.Errorf("stub %q: %w", s.ID, err)
	}
	if err := s.Response.validate(); err != nil {
		return fmt.Errorf("stub %q: %w", s.ID, err)
	}
	return nil
}

// Load parses a YAML document into a Config, rejecting unknown keys and
// running Validate before returning.
func Load(data []byte) (*Config, error) {
	if err := rejectUnknownKeys(data); err != nil {
		return nil, err
	}

	cfg := &Config{Settings: DefaultSettings()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every stub id is unique and non-empty, and that every
// compiled regex/glob/status code is well-formed before the catalog is
// put into service (spec invariant: validation runs before service).
func (c *Config) Validate() error {
	seen := make(map[string]struct{}, len(c.Stubs))
	for i := range c.Stubs {
		stub := &c.Stubs[i]
		if err := stub.validate(); err != nil {
			return fmt.Errorf("stub %d: %w", i, err)
		}
		if _, dup := seen[stub.ID]; dup {
			return fmt.Errorf("duplicate stub id %q", stub.ID)
		}
		seen[stub.ID] = struct{}{}
	}
	if c.DefaultResponse != nil {
		if err := c.DefaultResponse.validate(); err != nil {
			return fmt.Errorf("default_response: %w", err)
		}
	}
	return nil
}

// EnabledCount returns the number of enabled stubs, used for the
// mock_server_stubs_enabled gauge.
func (c *Config) EnabledCount() int {
	n := 0
	for i := range c.Stubs {
		if c.Stubs[i].IsEnabled() {
			n++
		}
	}
	return n
}
