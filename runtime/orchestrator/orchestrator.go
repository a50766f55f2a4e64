package orchestrator

import (
	"context"
	"fmt"

	"github.com/promptops/steward/model/conversation"
	"github.com/promptops/steward/model/intent"
	"github.com/promptops/steward/service/approval"
	"github.com/promptops/steward/service/gateway"
	"github.com/promptops/steward/tracing"
)

// Invoker abstracts the tool gateway so the orchestrator can be exercised
// with scripted tools in tests.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]interface{}) *gateway.Result
}

// Status is the terminal state of an orchestration run.
type Status string

const (
	// StatusCompleted means the run finished without needing a mutation
	// decision (display-only or unclassified goals).
	StatusCompleted Status = "completed"
	// StatusNoActionNeeded means evaluation ran and scores were acceptable.
	StatusNoActionNeeded Status = "noActionNeeded"
	// StatusWaitingApproval means a pending approval request was persisted;
	// the run ended at the gate and a later invocation resumes it.
	StatusWaitingApproval Status = "waitingApproval"
	// StatusError means a tool failure aborted the run.
	StatusError Status = "error"
)

// DefaultPromptText is proposed when the caller supplies no override.
const DefaultPromptText = `You are a helpful AI assistant focused on providing accurate, complete, and clear responses.

Guidelines:
- Provide comprehensive answers that fully address the user's question
- Use clear, easy-to-understand language
- Include relevant examples when helpful
- Be accurate and factual
- Structure responses logically
- Anticipate follow-up questions

Always aim to be helpful, informative, and user-friendly.`

// Outcome is the result of a single orchestration run. Transcript holds one
// line per observable step; tool failures are never silently dropped.
type Outcome struct {
	Status       Status
	ApprovalID   string
	AverageScore float64
	Evaluations  []*conversation.Evaluation
	Transcript   []string
	Err          error
}

func (o *Outcome) append(format string, args ...interface{}) {
	o.Transcript = append(o.Transcript, fmt.Sprintf(format, args...))
}

// Service drives the goal-execution state machine: extract intent, query,
// evaluate, decide, and gate mutations behind a durable approval request.
type Service struct {
	tools      Invoker
	approvals  approval.Service
	promptText string
	debug      bool
}

// Option customizes the orchestrator.
type Option func(*Service)

// WithPromptText overrides the prompt proposed in mutation requests.
func WithPromptText(text string) Option {
	return func(s *Service) { s.promptText = text }
}

// WithDebug enables verbose transcript lines describing each decision.
func WithDebug(debug bool) Option {
	return func(s *Service) { s.debug = debug }
}

// New creates an orchestrator over the supplied tool invoker and approval
// store.
func New(tools Invoker, approvals approval.Service, options ...Option) *Service {
	ret := &Service{tools: tools, approvals: approvals}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Run executes a free-text goal. Approved-but-unprocessed requests from
// earlier runs are executed first (resume pass), then the goal itself. When a
// mutation is required the run persists a pending approval request and ends;
// there is no in-process wait for a human decision.
func (s *Service) Run(ctx context.Context, goal string) *Outcome {
	ctx, span := tracing.StartSpan(ctx, "orchestrator.run", "INTERNAL")
	outcome := &Outcome{Status: StatusCompleted}
	defer func() { tracing.EndSpan(span, outcome.Err) }()

	resumed, err := s.ProcessApproved(ctx)
	if err != nil {
		outcome.append("failed to list approved requests: %v", err)
	}
	outcome.Transcript = append(outcome.Transcript, resumed...)

	anIntent := intent.Extract(goal)
	s.debugf(outcome, "goal classified as %s (count=%d threshold=%.1f)", anIntent.Action, anIntent.Count, anIntent.ScoreThreshold)

	if anIntent.Action == intent.DirectMutate {
		return s.requestMutation(ctx, outcome, "Manual prompt update requested")
	}

	conversations, ok := s.query(ctx, anIntent, outcome)
	if !ok {
		return outcome
	}
	if anIntent.ListRequested {
		for _, item := range conversations {
			outcome.append("[%s] %s", item.ID, item.Timestamp)
			outcome.append("Q: %s", item.UserMessage)
			outcome.append("A: %s", item.BotResponse)
		}
	}
	if anIntent.Action != intent.Inspect && anIntent.Action != intent.InspectAndMutate {
		return outcome
	}

	scores := s.evaluate(ctx, conversations, outcome)
	outcome.AverageScore = conversation.Average(scores)
	outcome.append("Average score: %.1f/5", outcome.AverageScore)
	for _, evaluation := range outcome.Evaluations {
		outcome.append("[%s] Score: %d/5 - %s", evaluation.ConversationID, evaluation.Score, evaluation.Comment)
	}

	required, reason := s.mutationRequired(anIntent, scores, outcome.AverageScore)
	if !required {
		outcome.Status = StatusNoActionNeeded
		outcome.append("Scores are good, no prompt update needed")
		return outcome
	}
	return s.requestMutation(ctx, outcome, reason)
}

// ProcessApproved is the resume pass: it executes every approved and not yet
// processed request. A tool failure leaves the record unprocessed so that the
// next pass retries it. Execution is at-least-once; the mutate endpoint must
// tolerate duplicate submissions.
func (s *Service) ProcessApproved(ctx context.Context) ([]string, error) {
	requests, err := s.approvals.ListApprovedUnprocessed(ctx)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, request := range requests {
		if request.Action != approval.ActionSubmitPromptUpdate {
			lines = append(lines, fmt.Sprintf("skipping approved request %s: unsupported action %s", request.ID, request.Action))
			continue
		}
		result := s.tools.Invoke(ctx, gateway.ToolSubmitPromptUpdate, request.Args)
		if !result.Success {
			lines = append(lines, fmt.Sprintf("failed to execute approved request %s: %s (will retry)", request.ID, result.Error))
			continue
		}
		if _, err := s.approvals.MarkProcessed(ctx, request.ID); err != nil {
			lines = append(lines, fmt.Sprintf("failed to mark request %s processed: %v", request.ID, err))
			continue
		}
		lines = append(lines, fmt.Sprintf("Created PR for approved request %s: %s", request.ID, gateway.PullRequestURL(result)))
	}
	return lines, nil
}

func (s *Service) query(ctx context.Context, anIntent intent.Intent, outcome *Outcome) ([]conversation.Conversation, bool) {
	result := s.tools.Invoke(ctx, gateway.ToolQueryConversations, map[string]interface{}{"limit": anIntent.Count})
	if !result.Success {
		outcome.Status = StatusError
		outcome.Err = fmt.Errorf("failed to fetch conversations: %s", result.Error)
		outcome.append("Error fetching conversations: %s", result.Error)
		return nil, false
	}
	conversations := gateway.Conversations(result)
	outcome.append("Retrieved %d conversations", len(conversations))
	return conversations, true
}

// evaluate scores each conversation in order. A per-item tool failure is
// recorded as a skipped evaluation and excluded from the average rather than
// aborting the batch.
func (s *Service) evaluate(ctx context.Context, conversations []conversation.Conversation, outcome *Outcome) []int {
	outcome.append("Evaluating %d responses", len(conversations))
	var scores []int
	for _, item := range conversations {
		result := s.tools.Invoke(ctx, gateway.ToolEvaluateResponse, map[string]interface{}{
			"question": item.UserMessage,
			"answer":   item.BotResponse,
		})
		if !result.Success {
			outcome.append("Skipped evaluation of [%s]: %s", item.ID, result.Error)
			continue
		}
		evaluation := gateway.Evaluation(result)
		evaluation.ConversationID = item.ID
		outcome.Evaluations = append(outcome.Evaluations, evaluation)
		scores = append(scores, evaluation.Score)
	}
	return scores
}

// mutationRequired applies the decision rules in precedence order: a hard
// per-item threshold wins over the aggregate threshold, so a single
// out-of-threshold response forces a mutation even when the average is
// acceptable.
func (s *Service) mutationRequired(anIntent intent.Intent, scores []int, average float64) (bool, string) {
	if anIntent.HardThreshold != nil && conversation.AnyBelow(scores, *anIntent.HardThreshold) {
		count := conversation.CountBelow(scores, *anIntent.HardThreshold)
		return true, fmt.Sprintf("Automated prompt update: %d conversation(s) scored below the requested threshold %.1f. Average score: %.1f/5.", count, *anIntent.HardThreshold, average)
	}
	if average < anIntent.ScoreThreshold {
		return true, fmt.Sprintf("Automated prompt update: average score %.1f/5 fell below threshold %.1f.", average, anIntent.ScoreThreshold)
	}
	if anIntent.Action == intent.InspectAndMutate || anIntent.ExplicitMutation {
		return true, fmt.Sprintf("Prompt update requested. Average score: %.1f/5.", average)
	}
	return false, ""
}

func (s *Service) requestMutation(ctx context.Context, outcome *Outcome, reason string) *Outcome {
	request := &approval.Request{
		Action: approval.ActionSubmitPromptUpdate,
		Args: map[string]interface{}{
			"prompt_text": s.effectivePrompt(),
			"reason":      reason,
		},
	}
	id, err := s.approvals.Create(ctx, request)
	if err != nil {
		outcome.Status = StatusError
		outcome.Err = fmt.Errorf("failed to create approval request: %w", err)
		outcome.append("Error creating approval request: %v", err)
		return outcome
	}
	outcome.Status = StatusWaitingApproval
	outcome.ApprovalID = id
	outcome.append("Prompt update requires approval (ID: %s)", id)
	outcome.append("Reason: %s", reason)
	return outcome
}

func (s *Service) effectivePrompt() string {
	if s.promptText != "" {
		return s.promptText
	}
	return DefaultPromptText
}

func (s *Service) debugf(outcome *Outcome, format string, args ...interface{}) {
	if !s.debug {
		return
	}
	outcome.append("[debug] "+format, args...)
}
