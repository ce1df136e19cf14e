package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "LINGUA"

// Load reads configuration from an optional config.yaml in the working
// directory and from LINGUA_* environment variables, which take precedence.
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile behaves like Load but reads the given YAML file when path is
// not empty. A missing explicit file is an error.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"database.url",
		"auth.jwt_secret",
		"llm.gemini_api_key",
		"llm.anthropic_api_key",
		"llm.openai_api_key",
		"llm.openai_base_url",
		"speech.api_key",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("auth.token_lifetime_minutes", 60*24)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.gemini_model", "gemini-flash")
	v.SetDefault("llm.anthropic_model", "claude-haiku")
	v.SetDefault("llm.openai_model", "gpt-4o-mini")
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.initial_backoff", 500*time.Millisecond)
	v.SetDefault("llm.max_backoff", 5*time.Second)

	v.SetDefault("speech.base_url", "https://texttospeech.googleapis.com")
	v.SetDefault("speech.sample_rate_hertz", 24000)
	v.SetDefault("speech.value_voice.language_code", "en-GB")
	v.SetDefault("speech.value_voice.name", "en-GB-Standard-A")
	v.SetDefault("speech.translation_voice.language_code", "ru-RU")
	v.SetDefault("speech.translation_voice.name", "ru-RU-Standard-C")
	v.SetDefault("speech.request_timeout", 15*time.Second)

	v.SetDefault("game.min_chosen_words", 5)
	v.SetDefault("game.due_words_limit", 10)
	v.SetDefault("game.distractor_count", 4)
	v.SetDefault("game.top_mix", 0.0)
	v.SetDefault("game.verification_ttl", 30*24*time.Hour)
	v.SetDefault("game.ai_timeout", 20*time.Second)
	v.SetDefault("game.tts_timeout", 10*time.Second)
	v.SetDefault("game.cache_timeout", 2*time.Second)
	v.SetDefault("game.listen_max_words", 10)
	v.SetDefault("game.clip_silence", 500*time.Millisecond)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)
	v.SetDefault("task.stuck_task_check_interval", 5*time.Minute)
	v.SetDefault("task.cache_sweep_interval", 24*time.Hour)
	v.SetDefault("task.enrichment_timeout", time.Minute)
}
