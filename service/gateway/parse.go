package gateway

import (
	"github.com/viant/toolbox"

	"github.com/promptops/steward/model/conversation"
)

// Conversations extracts the conversation list from a successful
// query_conversations result, preserving the remote order.
func Conversations(result *Result) []conversation.Conversation {
	if result == nil || !result.Success {
		return nil
	}
	items, ok := result.Payload["conversations"].([]interface{})
	if !ok {
		return nil
	}
	ret := make([]conversation.Conversation, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		ret = append(ret, conversation.Conversation{
			ID:          toolbox.AsString(record["id"]),
			UserMessage: toolbox.AsString(record["user_message"]),
			BotResponse: toolbox.AsString(record["bot_response"]),
			Timestamp:   toolbox.AsString(record["timestamp"]),
		})
	}
	return ret
}

// Evaluation extracts score and comment from a successful evaluate_response
// result. The score is clamped into [1,5]; enforcing the tool contract is
// the gateway's responsibility and callers trust the returned value.
func Evaluation(result *Result) *conversation.Evaluation {
	if result == nil || !result.Success {
		return nil
	}
	score := toolbox.AsInt(result.Payload["score"])
	if score < 1 {
		score = 1
	}
	if score > 5 {
		score = 5
	}
	return &conversation.Evaluation{
		Score:   score,
		Comment: toolbox.AsString(result.Payload["comment"]),
	}
}

// PullRequestURL extracts the created PR location from a successful
// submit_prompt_update result.
func PullRequestURL(result *Result) string {
	if result == nil || !result.Success {
		return ""
	}
	raw, ok := result.Payload["pr_url"]
	if !ok || raw == nil {
		return ""
	}
	return toolbox.AsString(raw)
}
