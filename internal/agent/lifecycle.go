package agent

import (
	"go.uber.org/zap"

	"mockagent/internal/hostproto"
)

// Capabilities advertises what this agent subscribes to and supports,
// returned once at startup.
func (a *Agent) Capabilities() hostproto.Capabilities {
	return hostproto.Capabilities{
		AgentID: agentID,
		Name:    "Mock Server Agent",
		Version: version,
		Events:  []hostproto.EventType{hostproto.RequestHeadersEvent},
		Features: hostproto.Features{
			ConfigPush:          true,
			HealthReporting:     true,
			MetricsExport:       true,
			Cancellation:        true,
			ConcurrentRequests:  100,
			MaxProcessingTimeMs: 5000,
		},
	}
}

// HealthStatus reports degraded (subsystem "stubbing") while draining,
// healthy otherwise.
func (a *Agent) HealthStatus() hostproto.HealthStatus {
	if a.IsDraining() {
		return hostproto.Degraded(agentID, []string{"stubbing"}, 1.0)
	}
	return hostproto.Healthy(agentID)
}

// MetricsReport exports the agent's request counters and gauges.
func (a *Agent) MetricsReport() *hostproto.MetricsReport {
	report := hostproto.NewMetricsReport(agentID, 10_000)

	report.Counters = append(report.Counters,
		hostproto.CounterMetric{Name: "mock_server_requests_total", Value: a.TotalRequests()},
		hostproto.CounterMetric{Name: "mock_server_requests_matched_total", Value: a.TotalMatched()},
		hostproto.CounterMetric{Name: "mock_server_requests_unmatched_total", Value: a.TotalUnmatched()},
	)

	draining := 0.0
	if a.IsDraining() {
		draining = 1.0
	}
	report.Gauges = append(report.Gauges,
		hostproto.GaugeMetric{Name: "mock_server_stubs_configured", Value: float64(len(a.cfg.Stubs))},
		hostproto.GaugeMetric{Name: "mock_server_stubs_enabled", Value: float64(a.cfg.EnabledCount())},
		hostproto.GaugeMetric{Name: "mock_server_agent_draining", Value: draining},
	)

	return report
}

// OnShutdown sets the monotonic drain flag so no further stubbed
// replies are produced while the process winds down.
func (a *Agent) OnShutdown(reason hostproto.ShutdownReason, gracePeriodMs uint64) {
	a.log.Info("mock server agent shutdown requested",
		zap.String("reason", string(reason)), zap.Uint64("grace_period_ms", gracePeriodMs))
	a.draining.Store(true)
}

// OnDrain sets the monotonic drain flag; once set it never clears for
// the process lifetime.
func (a *Agent) OnDrain(durationMs uint64, reason hostproto.DrainReason) {
	a.log.Warn("mock server agent drain requested - stopping stub matching",
		zap.String("reason", string(reason)), zap.Uint64("duration_ms", durationMs))
	a.draining.Store(true)
}

// OnStreamClosed notes the transport stream teardown; there is no
// per-stream state to release.
func (a *Agent) OnStreamClosed() {
	a.log.Debug("stream closed")
}
