package intent

// Action classifies what a goal asks the orchestrator to do.
type Action string

const (
	// Inspect asks for a review of recent conversations without any change.
	Inspect Action = "inspect"
	// InspectAndMutate asks for a review followed by a prompt update when
	// the evaluation warrants one.
	InspectAndMutate Action = "inspectAndMutate"
	// DirectMutate asks for a prompt update without any prior review.
	DirectMutate Action = "directMutate"
	// Unknown is the fallback when no rule matches.
	Unknown Action = "unknown"
)

// Intent is the structured form of a free-text goal. It is produced once per
// goal and immutable after extraction.
type Intent struct {
	Action Action

	// Count is the number of conversations to fetch (default 5).
	Count int

	// ScoreThreshold is the aggregate threshold the average score is compared
	// against (default 3.0).
	ScoreThreshold float64

	// HardThreshold, when set, forces a prompt update as soon as any single
	// score falls below it. It takes precedence over ScoreThreshold.
	HardThreshold *float64

	// ExplicitMutation is set when the goal text asks for a prompt update or
	// a pull request in so many words.
	ExplicitMutation bool

	// ListRequested is set when the goal asks to display the fetched
	// conversations (get/show/list/display).
	ListRequested bool
}

const (
	defaultCount          = 5
	defaultScoreThreshold = 3.0
)
