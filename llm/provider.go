package llm

import (
	"context"
	"strings"
)

// Provider is a text generation backend that answers with JSON
type Provider interface {
	Name() string
	Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error)
}

// OutputSchema is a named JSON schema the model output must satisfy
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any
}

// GenerationRequest is the provider-independent request
type GenerationRequest struct {
	Model         string
	InputArray    []map[string]any
	SystemPrompt  string
	ReasoningMode string
	OutputSchema  *OutputSchema
}

// Usage is the token accounting of one generation
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// GenerationResponse carries the raw JSON text produced by the model
type GenerationResponse struct {
	RawOutput string
	Usage     Usage
}

// UserMessage builds a single user input item
func UserMessage(content string) map[string]any {
	return map[string]any{
		"role":    userRole,
		"content": content,
	}
}

// stripCodeFences removes a surrounding markdown code block
func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// Truncate shortens s to maxLen bytes for log previews
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
