package steward

import (
	"context"
	"fmt"

	"github.com/promptops/steward/runtime/orchestrator"
	"github.com/promptops/steward/service/approval"
	approvalfs "github.com/promptops/steward/service/approval/fs"
	"github.com/promptops/steward/service/gateway"
	"github.com/promptops/steward/tracing"
)

// Service is the facade over the assembled runtime: tool gateway, approval
// store and orchestrator.
type Service struct {
	config              *Config
	tools               orchestrator.Invoker
	approvals           approval.Service
	orchestrator        *orchestrator.Service
	orchestratorOptions []orchestrator.Option
}

// New assembles the runtime. Unset collaborators are built from the
// configuration: a JSON/HTTP gateway over the configured endpoints and a
// filesystem approval store at the configured location.
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	ret.config.Init()
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.config.Tracing.Enabled {
		if err := tracing.Init("steward", "1.0", ret.config.Tracing.OutputFile); err != nil {
			return nil, fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	if ret.tools == nil {
		ret.tools = gateway.New(&ret.config.Gateway)
	}
	if ret.approvals == nil {
		approvals, err := approvalfs.New(ret.config.Approvals.Location)
		if err != nil {
			return nil, err
		}
		ret.approvals = approvals
	}
	ret.orchestrator = orchestrator.New(ret.tools, ret.approvals, ret.orchestratorOptions...)
	return ret, nil
}

// Execute runs a free-text goal through the orchestrator.
func (s *Service) Execute(ctx context.Context, goal string) *orchestrator.Outcome {
	return s.orchestrator.Run(ctx, goal)
}

// ProcessApproved runs only the resume pass, executing approved and not yet
// processed requests.
func (s *Service) ProcessApproved(ctx context.Context) ([]string, error) {
	return s.orchestrator.ProcessApproved(ctx)
}

// Approvals exposes the approval store for decision tooling.
func (s *Service) Approvals() approval.Service {
	return s.approvals
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}
