// Package chat forwards conversations to a third-party completion API and
// relays the assistant's reply.
package chat

import (
	"context"
	"errors"
)

// Message roles accepted from clients.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ErrNotConfigured is returned when no completion API key is set.
var ErrNotConfigured = errors.New("chat service is not configured")

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a completion request as received from a client.
type Request struct {
	Model    string    `json:"model"`
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
}

// Usage reports token accounting from the upstream API.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the relayed assistant reply.
type Response struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
	Usage   Usage   `json:"usage"`
}

// Completer produces a single assistant reply for a conversation.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// UpstreamError wraps a failure reported by the completion API.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "completion service unavailable: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
