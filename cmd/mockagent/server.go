package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"mockagent/internal/agent"
	"mockagent/internal/logging"
)

// newRouter wires the decision handler as a catch-all route, plus two
// small observability endpoints exposing the agent's lifecycle
// callbacks over HTTP so the demo front-end can be polled the way the
// host would poll them natively.
func newRouter(a *agent.Agent, log *zap.Logger, procLogger *logging.ProcessLogger) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/_mockagent/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, a.HealthStatus())
	})
	r.HandleFunc("/_mockagent/metrics", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, a.MetricsReport())
	})

	dh := &decisionHandler{agent: a, log: log, procLogger: procLogger}
	r.PathPrefix("/").Handler(dh)

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.Encode(v)
}

// startServer listens on address using router: a bare http.Server
// wrapping a mux.Router.
func startServer(address string, router *mux.Router) error {
	server := &http.Server{Addr: address, Handler: router}
	return server.ListenAndServe()
}
