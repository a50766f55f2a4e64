package steward

import (
	"github.com/promptops/steward/runtime/orchestrator"
	"github.com/promptops/steward/service/approval"
)

// Option customizes the facade assembly.
type Option func(*Service)

// WithConfig supplies a complete configuration; defaults and environment
// overrides are still applied during New.
func WithConfig(config *Config) Option {
	return func(s *Service) { s.config = config }
}

// WithApprovalService overrides the approval store, for example with the
// in-memory implementation in tests.
func WithApprovalService(approvals approval.Service) Option {
	return func(s *Service) { s.approvals = approvals }
}

// WithInvoker overrides the tool gateway, for example with scripted tools.
func WithInvoker(tools orchestrator.Invoker) Option {
	return func(s *Service) { s.tools = tools }
}

// WithOrchestratorOptions forwards options to the orchestrator, such as a
// prompt-text override or debug transcripts.
func WithOrchestratorOptions(options ...orchestrator.Option) Option {
	return func(s *Service) { s.orchestratorOptions = append(s.orchestratorOptions, options...) }
}
