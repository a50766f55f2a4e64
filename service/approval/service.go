package approval

import "context"

// Service defines the approval store contract. Each request is an
// independently addressable durable record keyed by ID; listing operations
// scan the record set and filter by status/processed, which is acceptable at
// the expected scale (tens to low thousands of records). Implementations must
// make every status transition a check-and-set within one atomic record
// update so that racing actors cannot both win.
type Service interface {
	// Create persists a new pending request and returns its assigned id.
	Create(ctx context.Context, request *Request) (string, error)

	// Get returns the request with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*Request, error)

	// Decide transitions a pending request to approved or rejected, exactly
	// once. It fails with ErrInvalidTransition when the request already left
	// the pending state.
	Decide(ctx context.Context, id string, status Status, notes string) (*Request, error)

	// ListPending returns all requests still awaiting a decision.
	ListPending(ctx context.Context) ([]*Request, error)

	// ListApprovedUnprocessed returns approved requests whose mutation has
	// not been executed yet, the resume-pass work list.
	ListApprovedUnprocessed(ctx context.Context) ([]*Request, error)

	// MarkProcessed records that the approved mutation was executed. It fails
	// with ErrInvalidTransition unless the request is approved and not yet
	// processed.
	MarkProcessed(ctx context.Context, id string) (*Request, error)
}
