package gateway

import "fmt"

// Result is the normalized outcome of a tool invocation. Transport failures,
// timeouts and malformed responses all surface as Success=false with a
// populated Error, never as a panic or a Go error escaping Invoke.
type Result struct {
	Success bool
	Payload map[string]interface{}
	Error   string
}

func failure(format string, args ...interface{}) *Result {
	return &Result{Error: fmt.Sprintf(format, args...)}
}

func success(payload map[string]interface{}) *Result {
	return &Result{Success: true, Payload: payload}
}
