// Package llm wraps the chat-completion vendor behind a small interface so
// domain code and tests never touch the SDK directly.
package llm

import "context"

// Request is a single text-generation call.
type Request struct {
	System string
	Prompt string
}

// Generator produces text from a prompt. Implementations apply their own
// request deadline on top of the caller's context.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
