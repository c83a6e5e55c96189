// Package hostproto defines the wire-independent shapes of the host
// protocol: the contract between the mock agent and the proxy that
// embeds it. The proxy owns framing and transport; this package only
// carries the values that cross that boundary.
package hostproto

// Request is the inbound call the host delivers for a decision.
type Request struct {
	Method      string
	Path        string
	QueryString string
	Headers     map[string][]string
	Body        []byte
}

// FlattenHeaders collapses the host's multi-valued header map to a
// single value per name, keeping the first value as authoritative.
func FlattenHeaders(headers map[string][]string) map[string]string {
	flat := make(map[string]string, len(headers))
	for k, values := range headers {
		if len(values) > 0 {
			flat[k] = values[0]
		}
	}
	return flat
}

// Response is the upstream reply delivered to on_response, once the
// host has a real response in hand for a request that was allowed
// through. This agent never acts on it beyond acknowledging.
type Response struct {
	Status  int
	Headers map[string][]string
	Body    []byte
}

// Decision is the agent's reply to on_request/on_response: either
// Allow (forward to the real upstream) or Block (synthesize a reply).
type Decision struct {
	Allow    bool
	Status   int
	Headers  map[string]string
	Body     []byte
	Tags     []string
	Metadata map[string]string
}

// AllowDecision passes the request through to its real upstream.
func AllowDecision() Decision {
	return Decision{Allow: true}
}

// BlockDecision starts a synthesized reply with the given status.
func BlockDecision(status int) Decision {
	return Decision{
		Status:   status,
		Headers:  make(map[string]string),
		Metadata: make(map[string]string),
	}
}

// WithHeader sets a block header, returning the decision for chaining.
func (d Decision) WithHeader(name, value string) Decision {
	d.Headers[name] = value
	return d
}

// WithBody sets the block body, returning the decision for chaining.
func (d Decision) WithBody(body []byte) Decision {
	d.Body = body
	return d
}

// WithTag appends an observability tag, returning the decision for chaining.
func (d Decision) WithTag(tag string) Decision {
	d.Tags = append(d.Tags, tag)
	return d
}

// WithMetadata sets a metadata entry, returning the decision for chaining.
func (d Decision) WithMetadata(key, value string) Decision {
	d.Metadata[key] = value
	return d
}

// EventType enumerates the proxy lifecycle events an agent can subscribe to.
type EventType string

// RequestHeadersEvent is the only event this agent subscribes to: it
// only needs to see request metadata, never streamed bodies.
const RequestHeadersEvent EventType = "request_headers"

// Features advertises the optional capabilities an agent supports.
type Features struct {
	ConfigPush           bool
	HealthReporting      bool
	MetricsExport        bool
	Cancellation         bool
	ConcurrentRequests   int
	MaxProcessingTimeMs  int
}

// Capabilities is the static advertisement an agent returns once at
// startup so the host knows what events to deliver and what it supports.
type Capabilities struct {
	AgentID  string
	Name     string
	Version  string
	Events   []EventType
	Features Features
}

// HealthStatus reports whether the agent can currently serve.
type HealthStatus struct {
	AgentID    string
	Healthy    bool
	Subsystems []string
	Severity   float64
}

// Healthy builds a healthy status report.
func Healthy(agentID string) HealthStatus {
	return HealthStatus{AgentID: agentID, Healthy: true}
}

// Degraded builds a degraded status report naming the affected subsystems.
func Degraded(agentID string, subsystems []string, severity float64) HealthStatus {
	return HealthStatus{AgentID: agentID, Healthy: false, Subsystems: subsystems, Severity: severity}
}

// CounterMetric is a monotonically increasing observability value.
type CounterMetric struct {
	Name  string
	Value uint64
}

// GaugeMetric is a point-in-time observability value.
type GaugeMetric struct {
	Name  string
	Value float64
}

// MetricsReport bundles the counters and gauges an agent exposes on demand.
type MetricsReport struct {
	AgentID       string
	IntervalHint  uint64
	Counters      []CounterMetric
	Gauges        []GaugeMetric
}

// NewMetricsReport starts an empty report for the given agent and poll interval hint.
func NewMetricsReport(agentID string, intervalHintMs uint64) *MetricsReport {
	return &MetricsReport{AgentID: agentID, IntervalHint: intervalHintMs}
}

// ShutdownReason explains why on_shutdown was invoked.
type ShutdownReason string

const (
	ShutdownGraceful ShutdownReason = "graceful"
	ShutdownForced   ShutdownReason = "forced"
)

// DrainReason explains why on_drain was invoked.
type DrainReason string

const (
	DrainMaintenance DrainReason = "maintenance"
	DrainDeploy      DrainReason = "deploy"
)
