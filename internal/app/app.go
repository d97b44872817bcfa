// Package app wires config, AWS clients and the search handler together for
// the Lambda and the local dev server.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	bedrockruntime "github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"go.uber.org/zap"

	"booksearch/internal/books"
	"booksearch/internal/config"
	"booksearch/internal/enhance"
	"booksearch/internal/handlers"
)

// NeedsAWS reports whether cfg uses any AWS service.
func NeedsAWS(cfg config.Config) bool {
	return cfg.EnhancerProvider == config.ProviderBedrock ||
		(cfg.AnthropicAPIKey == "" && cfg.AnthropicKeySSMParam != "")
}

// LoadAWS loads the default AWS config only when cfg needs it.
func LoadAWS(ctx context.Context, cfg config.Config) (*aws.Config, error) {
	if !NeedsAWS(cfg) {
		return nil, nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &awsCfg, nil
}

// NewSearchHandler resolves secrets and builds the handler. awsCfg may be nil
// when NeedsAWS is false.
func NewSearchHandler(ctx context.Context, cfg config.Config, awsCfg *aws.Config, httpClient *http.Client, log *zap.Logger) (*handlers.SearchHandler, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if awsCfg != nil {
		cfg.ResolveAnthropicKey(ctx, ssm.NewFromConfig(*awsCfg), log)
	}

	completer, err := newCompleter(cfg, awsCfg, httpClient)
	if err != nil {
		return nil, err
	}

	enh := enhance.New(completer, log.Named("enhance"))
	search := books.NewClient(httpClient, cfg.BooksBaseURL, cfg.BooksAPIKey, log.Named("books"))

	log.Info("search handler ready",
		zap.String("enhancer", cfg.EnhancerProvider),
		zap.Bool("anthropic_key_set", cfg.AnthropicAPIKey != ""),
		zap.Int("max_results", cfg.BooksMaxResults),
	)
	return handlers.NewSearchHandler(enh, search, cfg.BooksMaxResults, log), nil
}

func newCompleter(cfg config.Config, awsCfg *aws.Config, httpClient *http.Client) (enhance.Completer, error) {
	switch cfg.EnhancerProvider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderBedrock:
		if awsCfg == nil {
			return nil, fmt.Errorf("bedrock enhancer needs aws config")
		}
		return enhance.NewBedrock(bedrockruntime.NewFromConfig(*awsCfg), cfg.BedrockModelID, cfg.AnthropicMaxTokens), nil
	default:
		return enhance.NewAnthropic(httpClient, cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicMaxTokens), nil
	}
}
