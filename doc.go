// Package steward assembles the prompt-stewardship runtime: a tool gateway
// over the conversation backend, a durable approval store and the goal
// orchestrator that wires them together. The package is intentionally thin;
// all behavior lives in the sub-packages and the facade only does wiring.
package steward
