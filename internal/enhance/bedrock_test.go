package enhance

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBedrock struct {
	in   *bedrockruntime.InvokeModelInput
	body []byte
	err  error
}

func (f *fakeBedrock) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestBedrock_Complete(t *testing.T) {
	fb := &fakeBedrock{body: []byte(`{"content":[{"type":"text","text":"gothic horror victorian asylum"}]}`)}
	b := NewBedrock(fb, " anthropic.claude-3-haiku-20240307-v1:0 ", 64)

	got, err := b.Complete(context.Background(), "the prompt")

	require.NoError(t, err)
	assert.Equal(t, "gothic horror victorian asylum", got)
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", aws.ToString(fb.in.ModelId))
	assert.Equal(t, "application/json", aws.ToString(fb.in.ContentType))

	var payload struct {
		AnthropicVersion string `json:"anthropic_version"`
		MaxTokens        int    `json:"max_tokens"`
		Messages         []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(fb.in.Body, &payload))
	assert.Equal(t, "bedrock-2023-05-31", payload.AnthropicVersion)
	assert.Equal(t, 64, payload.MaxTokens)
	require.Len(t, payload.Messages, 1)
	require.Len(t, payload.Messages[0].Content, 1)
	assert.Equal(t, "the prompt", payload.Messages[0].Content[0].Text)
}

func TestBedrock_MissingModel(t *testing.T) {
	fb := &fakeBedrock{}
	_, err := NewBedrock(fb, "", 50).Complete(context.Background(), "p")

	assert.EqualError(t, err, "bedrock model id not configured")
	assert.Nil(t, fb.in)
}

func TestBedrock_InvokeError(t *testing.T) {
	_, err := NewBedrock(&fakeBedrock{err: errors.New("throttled")}, "m", 50).Complete(context.Background(), "p")
	assert.ErrorContains(t, err, "throttled")
}

func TestBedrock_BadBody(t *testing.T) {
	_, err := NewBedrock(&fakeBedrock{body: []byte(`{`)}, "m", 50).Complete(context.Background(), "p")
	assert.Error(t, err)
}
