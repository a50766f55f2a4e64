package conversation

// Conversation represents a single chatbot exchange sourced from the remote
// query tool. It is read-only to the orchestrator.
type Conversation struct {
	ID          string `json:"id"`
	UserMessage string `json:"user_message"`
	BotResponse string `json:"bot_response"`
	Timestamp   string `json:"timestamp"`
}

// Evaluation holds the score produced by the remote evaluation tool for one
// conversation. Score is within [1,5]; the gateway enforces the contract.
type Evaluation struct {
	ConversationID string `json:"conversationId"`
	Score          int    `json:"score"`
	Comment        string `json:"comment"`
}

// Average returns the arithmetic mean of scores, 0 for an empty set.
func Average(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, score := range scores {
		total += score
	}
	return float64(total) / float64(len(scores))
}

// AnyBelow reports whether at least one score falls below threshold.
func AnyBelow(scores []int, threshold float64) bool {
	for _, score := range scores {
		if float64(score) < threshold {
			return true
		}
	}
	return false
}

// CountBelow returns the number of scores falling below threshold.
func CountBelow(scores []int, threshold float64) int {
	count := 0
	for _, score := range scores {
		if float64(score) < threshold {
			count++
		}
	}
	return count
}
