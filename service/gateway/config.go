package gateway

import "fmt"

// DefaultTimeoutMs bounds every tool call; a call exceeding it is reported as
// a failure for that tool, never retried by the gateway.
const DefaultTimeoutMs = 30000

// Config holds the remote tool endpoints. The gateway takes the configuration
// explicitly at construction; there is no implicit global endpoint state.
type Config struct {
	QueryEndpoint  string `json:"queryEndpoint" yaml:"queryEndpoint"`
	EvalEndpoint   string `json:"evalEndpoint" yaml:"evalEndpoint"`
	MutateEndpoint string `json:"mutateEndpoint" yaml:"mutateEndpoint"`
	TimeoutMs      int    `json:"timeoutMs" yaml:"timeoutMs"`
}

// Init fills defaults for unset fields.
func (c *Config) Init() {
	if c.TimeoutMs <= 0 {
		c.TimeoutMs = DefaultTimeoutMs
	}
}

// Validate returns an aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("gateway config was nil")
	}
	if c.QueryEndpoint == "" {
		return fmt.Errorf("gateway queryEndpoint was empty")
	}
	if c.EvalEndpoint == "" {
		return fmt.Errorf("gateway evalEndpoint was empty")
	}
	if c.MutateEndpoint == "" {
		return fmt.Errorf("gateway mutateEndpoint was empty")
	}
	return nil
}
