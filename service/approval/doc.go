// Package approval defines the durable approval-request lifecycle used to
// gate mutating tool calls behind an out-of-band human decision.
package approval
