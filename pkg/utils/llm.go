package utils

import (
	"context"
	"fmt"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLMClient is the single seam between the services and a model provider.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

type ChatMessage struct {
	Role    string
	Content string
}

// ToolParam describes one string argument of a tool.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// JSONSchema renders the tool as the JSON-schema object expected by function calling APIs.
func (t ToolSpec) JSONSchema() map[string]any {
	props := make(map[string]any, len(t.Params))
	required := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		props[p.Name] = map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

type CompletionRequest struct {
	System   string
	Messages []ChatMessage
	// JSON asks the provider for a JSON object response.
	JSON        bool
	Tools       []ToolSpec
	Temperature *float32
	MaxTokens   int
}

type ToolCall struct {
	Name      string
	Arguments string
}

// Completion carries either text content or a tool call, never both in practice.
type Completion struct {
	Content  string
	ToolCall *ToolCall
}

func Temperature(v float32) *float32 {
	return &v
}

// NewLLMClient builds the configured provider client.
func NewLLMClient(ctx context.Context, provider string, opts LLMOptions) (LLMClient, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIChatClient(opts), nil
	case "gemini":
		client, err := NewGeminiChatClient(ctx, opts)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
