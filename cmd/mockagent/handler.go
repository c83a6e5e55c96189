package main

import (
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mockagent/internal/agent"
	"mockagent/internal/hostproto"
	"mockagent/internal/logging"
)

// decisionHandler exercises the agent over real HTTP, standing in for
// the out-of-scope host proxy: it builds a Request from the incoming
// http.Request, asks the agent for a Decision, and either writes the
// synthesized reply or, on Allow, a placeholder upstream response —
// there is no real upstream in this demo front-end.
type decisionHandler struct {
	agent      *agent.Agent
	log        *zap.Logger
	procLogger *logging.ProcessLogger
}

func (h *decisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body.Close()

	req := hostproto.Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		QueryString: r.URL.RawQuery,
		Headers:     r.Header,
		Body:        body,
	}

	dec, err := h.agent.OnRequest(r.Context(), req)
	if err != nil {
		// Cancelled mid-sleep (e.g. a fault-injected timeout outliving
		// the client's own deadline): emit nothing further.
		return
	}

	record := &logging.DecisionRecord{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Method:    req.Method,
		Path:      req.Path,
		Tags:      dec.Tags,
	}

	if dec.Allow {
		record.Outcome = "passthrough"
		h.procLogger.Log(record)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("mock agent: request allowed through (no upstream configured in the demo front-end)"))
		return
	}

	record.Outcome = "mocked"
	record.StubID = dec.Metadata["stub_id"]
	record.Status = dec.Status
	h.procLogger.Log(record)

	for name, value := range dec.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(dec.Status)
	if dec.Body != nil {
		w.Write(dec.Body)
	}
}
