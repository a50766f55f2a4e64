// Package stub hosts in-process implementations of the three remote tool
// endpoints so that the orchestrator can be exercised end to end without any
// deployed services. The conversation data is canned; the evaluator is a
// deterministic heuristic standing in for an LLM judge.
package stub

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/promptops/steward/internal/idgen"
	"github.com/promptops/steward/model/conversation"
	"github.com/promptops/steward/service/gateway"
)

// Endpoint paths served by Handler.
const (
	QueryPath  = "/query_conversations"
	EvalPath   = "/evaluate_response"
	MutatePath = "/submit_prompt_update"
)

var conversations = []conversation.Conversation{
	{ID: "conv_001", UserMessage: "What is Python?", BotResponse: "Python is a high-level, interpreted programming language known for its simplicity and readability. It's widely used for web development, data science, automation, and more.", Timestamp: "2025-08-30T09:00:00Z"},
	{ID: "conv_002", UserMessage: "How do I install packages in Python?", BotResponse: "Use pip.", Timestamp: "2025-08-30T10:00:00Z"},
	{ID: "conv_003", UserMessage: "What is machine learning?", BotResponse: "Machine learning is a subset of artificial intelligence that enables systems to learn and improve from experience without being explicitly programmed. It uses algorithms to identify patterns in data.", Timestamp: "2025-08-30T11:00:00Z"},
	{ID: "conv_004", UserMessage: "Explain Docker containers", BotResponse: "Docker containers are lightweight, standalone packages that include everything needed to run an application: code, runtime, system tools, libraries, and settings. They ensure consistency across different environments.", Timestamp: "2025-08-30T12:00:00Z"},
	{ID: "conv_005", UserMessage: "What is REST API?", BotResponse: "REST API is an architectural style for designing networked applications. It uses HTTP requests to access and manipulate data. RESTful APIs are stateless and use standard HTTP methods like GET, POST, PUT, and DELETE.", Timestamp: "2025-08-30T13:00:00Z"},
	{ID: "conv_006", UserMessage: "How does Git work?", BotResponse: "Git tracks changes.", Timestamp: "2025-08-30T13:15:00Z"},
	{ID: "conv_007", UserMessage: "What is AWS Lambda?", BotResponse: "AWS Lambda is a serverless compute service that runs your code in response to events and automatically manages the underlying compute resources. You only pay for the compute time you consume.", Timestamp: "2025-08-30T13:30:00Z"},
	{ID: "conv_008", UserMessage: "Explain SQL databases", BotResponse: "SQL databases are relational database management systems that use Structured Query Language (SQL) for defining and manipulating data. They organize data into tables with rows and columns.", Timestamp: "2025-08-30T13:40:00Z"},
	{ID: "conv_009", UserMessage: "What is Kubernetes?", BotResponse: "Kubernetes is an open-source container orchestration platform that automates the deployment, scaling, and management of containerized applications across clusters of hosts.", Timestamp: "2025-08-30T13:50:00Z"},
	{ID: "conv_010", UserMessage: "How do I debug Python code?", BotResponse: "Print statements.", Timestamp: "2025-08-30T13:55:00Z"},
}

// Handler returns an http.Handler exposing the three tool endpoints.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(QueryPath, queryConversations)
	mux.HandleFunc(EvalPath, evaluateResponse)
	mux.HandleFunc(MutatePath, submitPromptUpdate)
	return mux
}

// Config returns a gateway configuration pointing at a server hosting
// Handler at baseURL.
func Config(baseURL string) *gateway.Config {
	return &gateway.Config{
		QueryEndpoint:  baseURL + QueryPath,
		EvalEndpoint:   baseURL + EvalPath,
		MutateEndpoint: baseURL + MutatePath,
	}
}

func queryConversations(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Limit *int `json:"limit"`
	}{}
	if err := decode(request, &input); err != nil {
		writeError(writer, http.StatusBadRequest, "malformed request body")
		return
	}
	limit := 5
	if input.Limit != nil {
		limit = *input.Limit
	}
	if limit < gateway.MinLimit || limit > gateway.MaxLimit {
		writeError(writer, http.StatusBadRequest, "Invalid limit parameter. Must be between 1 and 10.")
		return
	}
	selected := conversations[len(conversations)-limit:]
	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"success":       true,
		"count":         len(selected),
		"conversations": selected,
	})
}

func evaluateResponse(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}{}
	if err := decode(request, &input); err != nil {
		writeError(writer, http.StatusBadRequest, "malformed request body")
		return
	}
	if input.Question == "" || input.Answer == "" {
		writeError(writer, http.StatusBadRequest, "Both question and answer are required")
		return
	}
	score, comment := judge(input.Answer)
	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": input.Question,
		"answer":   input.Answer,
		"score":    score,
		"comment":  comment,
	})
}

func submitPromptUpdate(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		PromptText string `json:"prompt_text"`
		Reason     string `json:"reason"`
	}{}
	if err := decode(request, &input); err != nil {
		writeError(writer, http.StatusBadRequest, "malformed request body")
		return
	}
	if input.PromptText == "" {
		writeError(writer, http.StatusBadRequest, "prompt_text is required")
		return
	}
	suffix := strings.ReplaceAll(idgen.New(), "-", "")[:6]
	writeJSON(writer, http.StatusOK, map[string]interface{}{
		"success": true,
		"pr_url":  fmt.Sprintf("https://github.com/promptops/chatbot-prompts/pull/%s", suffix),
	})
}

// judge scores an answer with a crude completeness heuristic: terse answers
// score low, elaborated ones high.
func judge(answer string) (int, string) {
	words := len(strings.Fields(answer))
	switch {
	case words < 5:
		return 2, "Response is too terse to fully address the question."
	case words < 15:
		return 3, "Response is adequate but could use more detail and examples."
	default:
		return 4, "Response is clear, complete and addresses the question well."
	}
}

func decode(request *http.Request, target interface{}) error {
	defer func() { _ = request.Body.Close() }()
	err := json.NewDecoder(request.Body).Decode(target)
	if err == io.EOF { // empty body means default arguments
		return nil
	}
	return err
}

func writeJSON(writer http.ResponseWriter, status int, body map[string]interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(body)
}

func writeError(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
