package response

import (
	"context"
	"math/rand"

	"mockagent/internal/config"
	"mockagent/internal/hostproto"
)

const (
	faultError   = "error"
	faultTimeout = "timeout"
	faultEmpty   = "empty"
	faultCorrupt = "corrupt"
	faultSlow    = "slow_response"
)

// runFault executes the fault path for a stub. When it returns
// fallthrough=true, the caller proceeds to the normal response build
// (used by Corrupt when it doesn't trigger, and always by
// SlowResponse once its delay has elapsed).
func (b *Builder) runFault(ctx context.Context, stub *config.StubDefinition) (hostproto.Decision, bool, error) {
	fault := stub.Fault

	switch fault.Type {
	case faultError:
		body := fault.Message
		if body == "" {
			body = "Error"
		}
		dec := hostproto.BlockDecision(fault.Status).
			WithHeader("Content-Type", "text/plain").
			WithTag("mocked").
			WithTag("fault_injected").
			WithMetadata("stub_id", stub.ID).
			WithMetadata("fault_type", faultError).
			WithBody([]byte(body))
		return dec, false, nil

	case faultTimeout:
		if err := sleepCancellable(ctx, fault.DurationMs); err != nil {
			return hostproto.Decision{}, false, err
		}
		dec := hostproto.BlockDecision(504).
			WithHeader("Content-Type", "text/plain").
			WithTag("mocked").
			WithTag("fault_injected").
			WithMetadata("stub_id", stub.ID).
			WithMetadata("fault_type", faultTimeout).
			WithBody([]byte("Gateway Timeout (simulated)"))
		return dec, false, nil

	case faultEmpty:
		dec := hostproto.BlockDecision(200).
			WithTag("mocked").
			WithTag("fault_injected").
			WithMetadata("stub_id", stub.ID).
			WithMetadata("fault_type", faultEmpty)
		return dec, false, nil

	case faultCorrupt:
		if rand.Float64() < fault.EffectiveProbability() {
			dec := hostproto.BlockDecision(200).
				WithHeader("Content-Type", "application/octet-stream").
				WithTag("mocked").
				WithTag("fault_injected").
				WithMetadata("stub_id", stub.ID).
				WithMetadata("fault_type", faultCorrupt).
				WithBody(generateGarbage())
			return dec, false, nil
		}
		return hostproto.Decision{}, true, nil

	case faultSlow:
		bodySize := 100
		if body, err := materializeStatic(stub.Response.Body); err == nil && body != nil {
			bodySize = len(body)
		}
		bps := fault.BytesPerSecond
		if bps == 0 {
			bps = 1
		}
		delayMs := (uint64(bodySize)*1000 + bps - 1) / bps
		if err := sleepCancellable(ctx, delayMs); err != nil {
			return hostproto.Decision{}, false, err
		}
		return hostproto.Decision{}, true, nil

	default:
		return hostproto.Decision{}, true, nil
	}
}

// generateGarbage produces 50-199 bytes of printable ASCII for the
// Corrupt fault's garbage response body.
func generateGarbage() []byte {
	n := 50 + rand.Intn(150)
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(0x20 + rand.Intn(0x7f-0x20))
	}
	return out
}
