package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptops/steward/service/approval"
	"github.com/promptops/steward/service/approval/memory"
	"github.com/promptops/steward/service/gateway"
)

// scriptedTools is a deterministic Invoker: fixed conversations, scripted
// per-conversation scores and controllable failures.
type scriptedTools struct {
	conversationCount int
	scores            []int
	queryFails        bool
	evalFailsFor      map[string]bool
	mutateFails       bool
	calls             map[string]int
}

func newScriptedTools(scores []int) *scriptedTools {
	return &scriptedTools{
		conversationCount: len(scores),
		scores:            scores,
		evalFailsFor:      map[string]bool{},
		calls:             map[string]int{},
	}
}

func (s *scriptedTools) Invoke(_ context.Context, name string, args map[string]interface{}) *gateway.Result {
	s.calls[name]++
	switch name {
	case gateway.ToolQueryConversations:
		if s.queryFails {
			return &gateway.Result{Error: "error calling query_conversations: connection refused"}
		}
		limit, _ := args["limit"].(int)
		if limit > s.conversationCount {
			limit = s.conversationCount
		}
		items := make([]interface{}, 0, limit)
		for i := 0; i < limit; i++ {
			items = append(items, map[string]interface{}{
				"id":           fmt.Sprintf("conv_%03d", i+1),
				"user_message": fmt.Sprintf("question %d", i+1),
				"bot_response": fmt.Sprintf("answer %d", i+1),
				"timestamp":    "2025-08-30T10:00:00Z",
			})
		}
		return &gateway.Result{Success: true, Payload: map[string]interface{}{"conversations": items}}
	case gateway.ToolEvaluateResponse:
		question, _ := args["question"].(string)
		if s.evalFailsFor[question] {
			return &gateway.Result{Error: "evaluation backend unavailable"}
		}
		index := s.calls[name] - 1
		score := 3
		if index < len(s.scores) {
			score = s.scores[index]
		}
		return &gateway.Result{Success: true, Payload: map[string]interface{}{"score": score, "comment": "scripted"}}
	case gateway.ToolSubmitPromptUpdate:
		if s.mutateFails {
			return &gateway.Result{Error: "github unavailable"}
		}
		return &gateway.Result{Success: true, Payload: map[string]interface{}{"pr_url": "https://github.com/promptops/chatbot-prompts/pull/42"}}
	}
	return &gateway.Result{Error: "unknown tool " + name}
}

// Scenario A: review-only goal with healthy scores ends with no action and no
// approval request.
func TestService_Run_NoActionNeeded(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools([]int{4, 4, 4, 4, 4})
	approvals := memory.New()

	outcome := New(tools, approvals).Run(ctx, "Review the last 5 conversations")

	assert.Equal(t, StatusNoActionNeeded, outcome.Status)
	assert.EqualValues(t, 4.0, outcome.AverageScore)
	assert.Empty(t, outcome.ApprovalID)
	assert.Len(t, outcome.Evaluations, 5)

	pending, err := approvals.ListPending(ctx)
	assert.NoError(t, err)
	assert.Empty(t, pending)
	assert.Zero(t, tools.calls[gateway.ToolSubmitPromptUpdate])
}

// Scenario B: low average creates a pending request; an approval plus a
// resume pass submits the update exactly once and marks it processed.
func TestService_Run_ApprovalRoundTrip(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools([]int{2, 3, 4})
	approvals := memory.New()
	svc := New(tools, approvals)

	outcome := svc.Run(ctx, "Check the last 3 chats and update prompt if scores are below 3.5")

	assert.Equal(t, StatusWaitingApproval, outcome.Status)
	assert.NotEmpty(t, outcome.ApprovalID)
	assert.EqualValues(t, 3.0, outcome.AverageScore)

	stored, err := approvals.Get(ctx, outcome.ApprovalID)
	assert.NoError(t, err)
	assert.EqualValues(t, approval.StatusPending, stored.Status)
	assert.Equal(t, DefaultPromptText, stored.Args["prompt_text"])

	// No mutation until a human decision lands.
	assert.Zero(t, tools.calls[gateway.ToolSubmitPromptUpdate])

	_, err = approvals.Decide(ctx, outcome.ApprovalID, approval.StatusApproved, "go ahead")
	assert.NoError(t, err)

	lines, err := svc.ProcessApproved(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Equal(t, 1, tools.calls[gateway.ToolSubmitPromptUpdate])

	processed, err := approvals.Get(ctx, outcome.ApprovalID)
	assert.NoError(t, err)
	assert.True(t, processed.Processed)

	// A second pass finds nothing to do.
	lines, err = svc.ProcessApproved(ctx)
	assert.NoError(t, err)
	assert.Empty(t, lines)
	assert.Equal(t, 1, tools.calls[gateway.ToolSubmitPromptUpdate])
}

// Scenario C: a direct PR goal skips query and evaluation entirely but is
// still gated by approval.
func TestService_Run_DirectMutate(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools(nil)
	approvals := memory.New()

	outcome := New(tools, approvals).Run(ctx, "Create a PR to update the system prompt")

	assert.Equal(t, StatusWaitingApproval, outcome.Status)
	assert.NotEmpty(t, outcome.ApprovalID)
	assert.Zero(t, tools.calls[gateway.ToolQueryConversations])
	assert.Zero(t, tools.calls[gateway.ToolEvaluateResponse])
	assert.Zero(t, tools.calls[gateway.ToolSubmitPromptUpdate])

	stored, err := approvals.Get(ctx, outcome.ApprovalID)
	assert.NoError(t, err)
	assert.Equal(t, "Manual prompt update requested", stored.Args["reason"])
}

// Scenario D: a failing query tool aborts the run before any evaluation or
// approval step.
func TestService_Run_QueryFailure(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools([]int{4})
	tools.queryFails = true
	approvals := memory.New()

	outcome := New(tools, approvals).Run(ctx, "Review the last 5 conversations")

	assert.Equal(t, StatusError, outcome.Status)
	assert.Error(t, outcome.Err)
	assert.Zero(t, tools.calls[gateway.ToolEvaluateResponse])
	pending, err := approvals.ListPending(ctx)
	assert.NoError(t, err)
	assert.Empty(t, pending)
}

func TestService_Run_HardThresholdWins(t *testing.T) {
	ctx := context.Background()
	// Average 4.0 is acceptable; the single 2 still forces a mutation when a
	// hard per-item threshold is stated.
	tools := newScriptedTools([]int{5, 5, 2, 4, 4})
	approvals := memory.New()

	outcome := New(tools, approvals).Run(ctx, "Review 5 chats and update prompt if any score is below 3")

	assert.Equal(t, StatusWaitingApproval, outcome.Status)
	stored, err := approvals.Get(ctx, outcome.ApprovalID)
	assert.NoError(t, err)
	assert.Contains(t, stored.Args["reason"], "scored below the requested threshold")
}

func TestService_Run_SkipsFailedEvaluations(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools([]int{4, 4, 4})
	tools.evalFailsFor["question 2"] = true
	approvals := memory.New()

	outcome := New(tools, approvals).Run(ctx, "Review the last 3 conversations")

	assert.Equal(t, StatusNoActionNeeded, outcome.Status)
	assert.Len(t, outcome.Evaluations, 2)
	found := false
	for _, line := range outcome.Transcript {
		if line == "Skipped evaluation of [conv_002]: evaluation backend unavailable" {
			found = true
		}
	}
	assert.True(t, found, "expected a skip line in transcript: %v", outcome.Transcript)
}

func TestService_Run_UnknownGoalListsOnly(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools([]int{1, 1, 1, 1, 1})
	approvals := memory.New()

	outcome := New(tools, approvals).Run(ctx, "Show the last 5 conversations")

	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Zero(t, tools.calls[gateway.ToolEvaluateResponse])
	assert.Empty(t, outcome.ApprovalID)
}

// A failed mutation leaves the request unprocessed so the next resume pass
// retries it.
func TestService_ProcessApproved_RetriesOnFailure(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools(nil)
	tools.mutateFails = true
	approvals := memory.New()
	svc := New(tools, approvals)

	id, err := approvals.Create(ctx, &approval.Request{
		Action: approval.ActionSubmitPromptUpdate,
		Args:   map[string]interface{}{"prompt_text": "text", "reason": "why"},
	})
	assert.NoError(t, err)
	_, err = approvals.Decide(ctx, id, approval.StatusApproved, "")
	assert.NoError(t, err)

	lines, err := svc.ProcessApproved(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "will retry")

	stored, err := approvals.Get(ctx, id)
	assert.NoError(t, err)
	assert.False(t, stored.Processed)

	// The endpoint recovers; the retry succeeds and marks the record.
	tools.mutateFails = false
	lines, err = svc.ProcessApproved(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	stored, err = approvals.Get(ctx, id)
	assert.NoError(t, err)
	assert.True(t, stored.Processed)
}

func TestService_Run_PromptOverride(t *testing.T) {
	ctx := context.Background()
	tools := newScriptedTools(nil)
	approvals := memory.New()

	outcome := New(tools, approvals, WithPromptText("You are a terse assistant.")).
		Run(ctx, "Create a PR to update the system prompt")

	stored, err := approvals.Get(ctx, outcome.ApprovalID)
	assert.NoError(t, err)
	assert.Equal(t, "You are a terse assistant.", stored.Args["prompt_text"])
}
