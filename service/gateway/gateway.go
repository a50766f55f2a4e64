// Package gateway provides a uniform invocation interface over the named
// remote tools the orchestrator coordinates: conversation query, response
// evaluation and prompt-update submission.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/viant/toolbox"

	"github.com/promptops/steward/tracing"
)

// Recognised tool names.
const (
	ToolQueryConversations = "query_conversations"
	ToolEvaluateResponse   = "evaluate_response"
	ToolSubmitPromptUpdate = "submit_prompt_update"
)

// Limit bounds accepted by the query tool.
const (
	MinLimit = 1
	MaxLimit = 10
)

// Service invokes remote tools over JSON/HTTP. Only submit_prompt_update has
// an externally visible side effect; the other two tools are pure reads.
type Service struct {
	config *Config
	client *http.Client
}

// New creates a gateway for the supplied endpoint configuration.
func New(config *Config) *Service {
	config.Init()
	return &Service{
		config: config,
		client: &http.Client{Timeout: time.Duration(config.TimeoutMs) * time.Millisecond},
	}
}

// Invoke calls the named tool with the supplied arguments and normalizes the
// response. Malformed arguments are rejected before dispatch; transport and
// remote failures are folded into the returned Result.
func (s *Service) Invoke(ctx context.Context, name string, args map[string]interface{}) *Result {
	ctx, span := tracing.StartSpan(ctx, "gateway."+name, "CLIENT")
	result := s.invoke(ctx, name, args)
	var spanErr error
	if !result.Success {
		spanErr = fmt.Errorf("%s", result.Error)
	}
	tracing.EndSpan(span, spanErr)
	return result
}

func (s *Service) invoke(ctx context.Context, name string, args map[string]interface{}) *Result {
	endpoint, err := s.endpoint(name)
	if err != nil {
		return failure("unknown tool %s", name)
	}
	if err := validateArgs(name, args); err != nil {
		return failure("invalid arguments for %s: %v", name, err)
	}

	body, err := json.Marshal(args)
	if err != nil {
		return failure("failed to encode arguments for %s: %v", name, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return failure("failed to build request for %s: %v", name, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		return failure("error calling %s: %v", name, err)
	}
	defer func() { _ = response.Body.Close() }()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return failure("error reading %s response: %v", name, err)
	}

	payload := map[string]interface{}{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return failure("malformed %s response: %v", name, err)
	}
	if response.StatusCode != http.StatusOK {
		if message, ok := payload["error"]; ok {
			return failure("%s failed: %v", name, message)
		}
		return failure("%s failed with status %d", name, response.StatusCode)
	}
	if ok, _ := payload["success"].(bool); !ok {
		if message, found := payload["error"]; found {
			return failure("%s failed: %v", name, message)
		}
		return failure("%s reported failure", name)
	}
	return success(payload)
}

func (s *Service) endpoint(name string) (string, error) {
	switch name {
	case ToolQueryConversations:
		return s.config.QueryEndpoint, nil
	case ToolEvaluateResponse:
		return s.config.EvalEndpoint, nil
	case ToolSubmitPromptUpdate:
		return s.config.MutateEndpoint, nil
	}
	return "", fmt.Errorf("unknown tool: %s", name)
}

// validateArgs rejects malformed arguments before any network dispatch.
func validateArgs(name string, args map[string]interface{}) error {
	switch name {
	case ToolQueryConversations:
		if raw, ok := args["limit"]; ok && raw != nil {
			limit := toolbox.AsInt(raw)
			if limit < MinLimit || limit > MaxLimit {
				return fmt.Errorf("limit must be between %d and %d, had: %v", MinLimit, MaxLimit, raw)
			}
		}
	case ToolEvaluateResponse:
		if err := requireString(args, "question"); err != nil {
			return err
		}
		if err := requireString(args, "answer"); err != nil {
			return err
		}
	case ToolSubmitPromptUpdate:
		if err := requireString(args, "prompt_text"); err != nil {
			return err
		}
	}
	return nil
}

func requireString(args map[string]interface{}, name string) error {
	raw, ok := args[name]
	if !ok || raw == nil || toolbox.AsString(raw) == "" {
		return fmt.Errorf("%s was empty", name)
	}
	return nil
}
