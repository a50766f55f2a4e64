package steward

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/promptops/steward/service/gateway"
)

// DefaultApprovalLocation is the on-disk approval store used when the caller
// does not configure one. A filesystem store is the default so that the
// orchestrator and the approver CLI can run as separate processes against the
// same records.
const DefaultApprovalLocation = "approval_requests"

// ApprovalsConfig selects where approval requests are persisted.
type ApprovalsConfig struct {
	Location string `json:"location" yaml:"location"`
}

// TracingConfig controls the optional file trace exporter.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	OutputFile string `json:"outputFile" yaml:"outputFile"`
}

// Config aggregates the settings of every component the facade wires.
type Config struct {
	Gateway   gateway.Config  `json:"gateway" yaml:"gateway"`
	Approvals ApprovalsConfig `json:"approvals" yaml:"approvals"`
	Tracing   TracingConfig   `json:"tracing" yaml:"tracing"`
}

// DefaultConfig returns a configuration pointing at a local stub backend and
// the default approval location.
func DefaultConfig() *Config {
	return &Config{
		Gateway: gateway.Config{
			QueryEndpoint:  "http://localhost:8090/tools/query_conversations",
			EvalEndpoint:   "http://localhost:8090/tools/evaluate_response",
			MutateEndpoint: "http://localhost:8090/tools/submit_prompt_update",
		},
		Approvals: ApprovalsConfig{Location: DefaultApprovalLocation},
	}
}

// Init fills defaults for unset fields and applies environment overrides.
func (c *Config) Init() {
	c.Gateway.Init()
	if c.Approvals.Location == "" {
		c.Approvals.Location = DefaultApprovalLocation
	}
	c.applyEnv()
}

// applyEnv lets deployment environments override endpoints without a config
// file edit.
func (c *Config) applyEnv() {
	if value := os.Getenv("STEWARD_QUERY_ENDPOINT"); value != "" {
		c.Gateway.QueryEndpoint = value
	}
	if value := os.Getenv("STEWARD_EVAL_ENDPOINT"); value != "" {
		c.Gateway.EvalEndpoint = value
	}
	if value := os.Getenv("STEWARD_MUTATE_ENDPOINT"); value != "" {
		c.Gateway.MutateEndpoint = value
	}
	if value := os.Getenv("STEWARD_APPROVAL_LOCATION"); value != "" {
		c.Approvals.Location = value
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config was nil")
	}
	if err := c.Gateway.Validate(); err != nil {
		return err
	}
	if c.Approvals.Location == "" {
		return fmt.Errorf("approvals location was empty")
	}
	return nil
}

// LoadConfig reads a YAML configuration from URL (file path or any scheme the
// filesystem abstraction understands) and applies defaults and environment
// overrides.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
