package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type BedrockClient interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockCompleter runs the same Claude prompt through Bedrock Runtime with
// the Lambda execution role instead of an API key.
type BedrockCompleter struct {
	client    BedrockClient
	modelID   string
	maxTokens int
}

func NewBedrock(client BedrockClient, modelID string, maxTokens int) *BedrockCompleter {
	return &BedrockCompleter{client: client, modelID: strings.TrimSpace(modelID), maxTokens: maxTokens}
}

func (b *BedrockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if b.modelID == "" {
		return "", errors.New("bedrock model id not configured")
	}

	// Claude on Bedrock takes the Messages payload plus anthropic_version.
	payload := map[string]any{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        b.maxTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": prompt},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal bedrock payload: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock InvokeModel: %w", err)
	}

	var raw messagesResponse
	if err := json.Unmarshal(out.Body, &raw); err != nil {
		return "", fmt.Errorf("bedrock response unmarshal: %w", err)
	}
	return raw.firstText()
}
