package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 300

// Doer is satisfied by *http.Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// AnthropicCompleter calls POST {baseURL}/v1/messages.
type AnthropicCompleter struct {
	http      Doer
	baseURL   string
	apiKey    string
	model     string
	maxTokens int
}

func NewAnthropic(httpClient Doer, baseURL, apiKey, model string, maxTokens int) *AnthropicCompleter {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AnthropicCompleter{
		http:      httpClient,
		baseURL:   baseURL,
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", ErrNoCredential
	}

	b, err := json.Marshal(messagesRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal messages request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	res, err := a.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic POST: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", apiError(res.StatusCode, raw)
	}

	var out messagesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("anthropic response unmarshal: %w", err)
	}
	return out.firstText()
}

func apiError(status int, raw []byte) *APIError {
	var body struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}
	e := &APIError{StatusCode: status}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		e.Type = body.Error.Type
		e.Message = body.Error.Message
		return e
	}
	e.Message = strings.ToValidUTF8(string(raw), "")
	if len(raw) > maxErrorBody {
		e.Message = strings.ToValidUTF8(string(raw[:maxErrorBody]), "") + "..."
	}
	return e
}
