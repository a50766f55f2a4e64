package steward_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/promptops/steward"
	"github.com/promptops/steward/runtime/orchestrator"
	"github.com/promptops/steward/service/approval"
	"github.com/promptops/steward/service/approval/memory"
	"github.com/promptops/steward/service/gateway/stub"
)

func newTestService(t *testing.T, approvals approval.Service) *steward.Service {
	t.Helper()
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)

	config := steward.DefaultConfig()
	config.Gateway = *stub.Config(server.URL)
	svc, err := steward.New(
		steward.WithConfig(config),
		steward.WithApprovalService(approvals),
	)
	assert.NoError(t, err)
	return svc
}

func TestService_Execute_EndToEnd(t *testing.T) {
	ctx := context.Background()
	approvals := memory.New()
	svc := newTestService(t, approvals)

	outcome := svc.Execute(ctx, "Review the last 5 conversations and update the prompt if average score is below 5")
	assert.Equal(t, orchestrator.StatusWaitingApproval, outcome.Status)
	assert.NotEmpty(t, outcome.ApprovalID)

	_, err := approvals.Decide(ctx, outcome.ApprovalID, approval.StatusApproved, "lgtm")
	assert.NoError(t, err)

	lines, err := svc.ProcessApproved(ctx)
	assert.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Created PR for approved request")

	stored, err := approvals.Get(ctx, outcome.ApprovalID)
	assert.NoError(t, err)
	assert.True(t, stored.Processed)
}

func TestService_Execute_Rejected(t *testing.T) {
	ctx := context.Background()
	approvals := memory.New()
	svc := newTestService(t, approvals)

	outcome := svc.Execute(ctx, "Create a PR to update the system prompt")
	assert.Equal(t, orchestrator.StatusWaitingApproval, outcome.Status)

	_, err := approvals.Decide(ctx, outcome.ApprovalID, approval.StatusRejected, "not now")
	assert.NoError(t, err)

	// Rejected requests never reach the mutate tool.
	lines, err := svc.ProcessApproved(ctx)
	assert.NoError(t, err)
	assert.Empty(t, lines)
}

func TestService_New_InvalidConfig(t *testing.T) {
	config := steward.DefaultConfig()
	config.Gateway.QueryEndpoint = ""
	t.Setenv("STEWARD_QUERY_ENDPOINT", "")

	_, err := steward.New(steward.WithConfig(config))
	assert.Error(t, err)
}
