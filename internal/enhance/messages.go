package enhance

import (
	"fmt"
)

const anthropicVersion = "2023-06-01"

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the part of a Claude reply we read. Bedrock returns
// the same shape for Anthropic models.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (r messagesResponse) firstText() (string, error) {
	if len(r.Content) == 0 {
		return "", fmt.Errorf("model response has no content")
	}
	if t := r.Content[0].Type; t != "" && t != "text" {
		return "", fmt.Errorf("model response starts with %q block, not text", t)
	}
	return r.Content[0].Text, nil
}

// APIError is a non-2xx reply from the Messages API.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("anthropic: http %d: %s: %s", e.StatusCode, e.Type, e.Message)
	}
	return fmt.Sprintf("anthropic: http %d: %s", e.StatusCode, e.Message)
}
