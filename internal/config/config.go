package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Speech   SpeechConfig   `mapstructure:"speech" validate:"required"`
	Game     GameConfig     `mapstructure:"game" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat       string        `mapstructure:"log_format" validate:"required,oneof=json text"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gt=0"`
}

// AuthConfig contains the settings of the bearer tokens the chat transport
// presents on every turn.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig selects and configures the AI text provider used for example
// generation and translation verification.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider" validate:"required,oneof=gemini anthropic openai mock"`
	GeminiAPIKey    string        `mapstructure:"gemini_api_key" validate:"required_if=Provider gemini"`
	GeminiModel     string        `mapstructure:"gemini_model"`
	AnthropicAPIKey string        `mapstructure:"anthropic_api_key" validate:"required_if=Provider anthropic"`
	AnthropicModel  string        `mapstructure:"anthropic_model"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key" validate:"required_if=Provider openai"`
	OpenAIModel     string        `mapstructure:"openai_model"`
	OpenAIBaseURL   string        `mapstructure:"openai_base_url" validate:"omitempty,url"`
	MaxAttempts     int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	InitialBackoff  time.Duration `mapstructure:"initial_backoff" validate:"gt=0"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff" validate:"gtefield=InitialBackoff"`
}

// VoiceConfig identifies a text-to-speech voice.
type VoiceConfig struct {
	LanguageCode string `mapstructure:"language_code" validate:"required"`
	Name         string `mapstructure:"name" validate:"required"`
}

// SpeechConfig configures the text-to-speech client.
type SpeechConfig struct {
	APIKey           string        `mapstructure:"api_key" validate:"required"`
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	SampleRateHertz  int           `mapstructure:"sample_rate_hertz" validate:"gte=8000,lte=48000"`
	ValueVoice       VoiceConfig   `mapstructure:"value_voice" validate:"required"`
	TranslationVoice VoiceConfig   `mapstructure:"translation_voice" validate:"required"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// GameConfig holds the tunables of the learning game.
type GameConfig struct {
	MinChosenWords  int           `mapstructure:"min_chosen_words" validate:"gte=1"`
	DueWordsLimit   int           `mapstructure:"due_words_limit" validate:"gtefield=MinChosenWords"`
	DistractorCount int           `mapstructure:"distractor_count" validate:"gte=1,lte=8"`
	TopMix          float64       `mapstructure:"top_mix" validate:"gte=0,lt=1"`
	VerificationTTL time.Duration `mapstructure:"verification_ttl" validate:"gt=0"`
	AITimeout       time.Duration `mapstructure:"ai_timeout" validate:"gt=0"`
	TTSTimeout      time.Duration `mapstructure:"tts_timeout" validate:"gt=0"`
	CacheTimeout    time.Duration `mapstructure:"cache_timeout" validate:"gt=0"`
	ListenMaxWords  int           `mapstructure:"listen_max_words" validate:"gte=1"`
	ClipSilence     time.Duration `mapstructure:"clip_silence" validate:"gte=0"`
}

// TaskConfig contains background processing settings.
type TaskConfig struct {
	WorkerCount            int           `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize              int           `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAgeMinutes    int           `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
	StuckTaskCheckInterval time.Duration `mapstructure:"stuck_task_check_interval" validate:"gt=0"`
	CacheSweepInterval     time.Duration `mapstructure:"cache_sweep_interval" validate:"gt=0"`
	EnrichmentTimeout      time.Duration `mapstructure:"enrichment_timeout" validate:"gt=0"`
}
