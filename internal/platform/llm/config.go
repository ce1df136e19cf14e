package llm

import "time"

// Config selects a provider and its credentials.
type Config struct {
	// Provider is one of "gemini", "anthropic", "openai" or "mock".
	Provider  string
	Gemini    ModelConfig
	Anthropic ModelConfig
	OpenAI    ModelConfig
	Retry     RetryConfig
}

// ModelConfig holds one provider's credentials and model.
// BaseURL is honoured by the OpenAI compatible client only.
type ModelConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is used when a Config leaves Retry empty.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2.0,
	}
}
