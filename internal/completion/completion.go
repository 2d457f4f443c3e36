// Package completion provides language model clients behind a single
// request/response interface, plus a guard that bounds each call with a
// timeout, a rate limit, and a circuit breaker.
package completion

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the client cannot serve requests, for example
// because no credentials are configured or the circuit breaker is open.
var ErrUnavailable = errors.New("completion service unavailable")

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single completion call. An empty Model selects the provider default.
type Request struct {
	Messages    []Message
	Model       string
	MaxTokens   int
	Temperature float64
}

// Client sends one request to a language model and returns the reply text.
// Callers check Available before Complete. Implementations hold no
// per-conversation state and are safe for concurrent use.
type Client interface {
	Available() bool
	Complete(ctx context.Context, req Request) (string, error)
}

type unavailable struct{}

// Unavailable returns a Client that never serves requests.
func Unavailable() Client {
	return unavailable{}
}

func (unavailable) Available() bool { return false }

func (unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}

// Messages returns an optional system prompt followed by the user text.
func Messages(system, user string) []Message {
	if system == "" {
		return []Message{{Role: RoleUser, Content: user}}
	}
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
}
