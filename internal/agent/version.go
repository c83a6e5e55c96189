package agent

// version is the agent's self-reported capability version. It tracks
// this module's own releases, not the host protocol version.
const version = "0.1.0"
