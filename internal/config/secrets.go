package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"
)

type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ResolveAnthropicKey fills AnthropicAPIKey from SSM when the key itself is
// not set but a parameter name is. A lookup failure is logged and leaves the
// key empty so the enhancer falls back to the raw description.
func (c *Config) ResolveAnthropicKey(ctx context.Context, client SSMClient, log *zap.Logger) {
	if c.AnthropicAPIKey != "" || c.AnthropicKeySSMParam == "" || client == nil {
		return
	}
	key, err := fetchSecureString(ctx, client, c.AnthropicKeySSMParam)
	if err != nil {
		log.Warn("anthropic key lookup failed", zap.String("param", c.AnthropicKeySSMParam), zap.Error(err))
		return
	}
	c.AnthropicAPIKey = key
}

func fetchSecureString(ctx context.Context, client SSMClient, name string) (string, error) {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("ssm GetParameter: %w", err)
	}
	if out.Parameter == nil {
		return "", fmt.Errorf("ssm parameter %s has no value", name)
	}
	v := strings.TrimSpace(aws.ToString(out.Parameter.Value))
	if v == "" {
		return "", fmt.Errorf("ssm parameter %s is empty", name)
	}
	return v, nil
}
