package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
	ProviderNone      = "none"
)

const (
	PayloadV1 = "1.0"
	PayloadV2 = "2.0"
)

const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultAnthropicModel   = "claude-3-haiku-20240307"
	DefaultMaxTokens        = 50
	DefaultBooksBaseURL     = "https://www.googleapis.com/books/v1"
	DefaultMaxResults       = 10

	// Google Books rejects maxResults above 40.
	maxResultsCap = 40
)

// Config is read once at cold start and handed to the constructors.
type Config struct {
	AnthropicAPIKey      string
	AnthropicKeySSMParam string
	AnthropicModel       string
	AnthropicMaxTokens   int
	AnthropicBaseURL     string

	EnhancerProvider string
	BedrockModelID   string

	BooksBaseURL    string
	BooksAPIKey     string
	BooksMaxResults int

	// PayloadVersion picks the API Gateway event shape: "1.0" for REST
	// proxy events, "2.0" for HTTP APIs and function URLs.
	PayloadVersion string

	LogLevel string
	DevAddr  string
}

// Lookup matches os.Getenv so tests can pass a map-backed func.
type Lookup func(key string) string

func FromEnv() Config {
	return Load(os.Getenv)
}

func Load(get Lookup) Config {
	c := Config{
		AnthropicAPIKey:      str(get, "ANTHROPIC_API_KEY", ""),
		AnthropicKeySSMParam: str(get, "ANTHROPIC_API_KEY_SSM_PARAM", ""),
		AnthropicModel:       str(get, "ANTHROPIC_MODEL", DefaultAnthropicModel),
		AnthropicMaxTokens:   positiveInt(get, "ANTHROPIC_MAX_TOKENS", DefaultMaxTokens),
		AnthropicBaseURL:     strings.TrimRight(str(get, "ANTHROPIC_BASE_URL", DefaultAnthropicBaseURL), "/"),

		EnhancerProvider: strings.ToLower(str(get, "ENHANCER_PROVIDER", ProviderAnthropic)),
		BedrockModelID:   str(get, "BEDROCK_MODEL_ID", ""),

		BooksBaseURL:    strings.TrimRight(str(get, "GOOGLE_BOOKS_BASE_URL", DefaultBooksBaseURL), "/"),
		BooksAPIKey:     str(get, "GOOGLE_BOOKS_API_KEY", ""),
		BooksMaxResults: positiveInt(get, "BOOKS_MAX_RESULTS", DefaultMaxResults),

		PayloadVersion: str(get, "LAMBDA_PAYLOAD_VERSION", PayloadV1),

		LogLevel: strings.ToLower(str(get, "LOG_LEVEL", "info")),
		DevAddr:  str(get, "DEV_ADDR", ":8080"),
	}

	if c.BooksMaxResults > maxResultsCap {
		c.BooksMaxResults = maxResultsCap
	}
	if c.PayloadVersion != PayloadV2 {
		c.PayloadVersion = PayloadV1
	}
	switch c.EnhancerProvider {
	case ProviderAnthropic, ProviderBedrock, ProviderNone:
	default:
		c.EnhancerProvider = ProviderAnthropic
	}
	return c
}

func str(get Lookup, key, def string) string {
	v := strings.TrimSpace(get(key))
	if v == "" {
		return def
	}
	return v
}

func positiveInt(get Lookup, key string, def int) int {
	v := strings.TrimSpace(get(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
