// Package orchestrator implements the goal-execution state machine:
// query -> evaluate -> decide -> (request approval | done), with a durable
// approval gate bridging independent process invocations.
package orchestrator
