package approval

import (
	"fmt"
	"strings"
	"time"

	"github.com/promptops/steward/internal/clock"
	"github.com/promptops/steward/internal/idgen"
)

// ActionSubmitPromptUpdate tags requests gating a prompt-update pull request.
const ActionSubmitPromptUpdate = "submit_prompt_update"

// Status is the lifecycle state of an approval request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request represents a durable request for an out-of-band human decision
// before a mutating tool call is executed.
//
// Lifecycle invariants: Status starts at pending and transitions exactly once
// to approved or rejected; Processed may only become true once and only while
// Status is approved; ID is immutable after creation. Requests are never
// deleted by the orchestrator; they remain as an audit trail.
type Request struct {
	ID          string                 `json:"id"`
	Action      string                 `json:"action"`
	Args        map[string]interface{} `json:"args,omitempty"`
	Status      Status                 `json:"status"`
	Processed   bool                   `json:"processed"`
	Notes       string                 `json:"notes,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
	ProcessedAt *time.Time             `json:"processedAt,omitempty"`
}

// Clone returns a deep-enough copy so that callers can not mutate the stored
// record in place.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}
	ret := *r
	if r.Args != nil {
		ret.Args = make(map[string]interface{}, len(r.Args))
		for k, v := range r.Args {
			ret.Args[k] = v
		}
	}
	if r.ProcessedAt != nil {
		processedAt := *r.ProcessedAt
		ret.ProcessedAt = &processedAt
	}
	return &ret
}

// NewRequestID returns a fresh request identifier. The creation timestamp
// prefix keeps identifiers roughly sortable when listed on disk.
func NewRequestID() string {
	suffix := strings.ReplaceAll(idgen.New(), "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("req_%d_%s", clock.Now().Unix(), suffix)
}
