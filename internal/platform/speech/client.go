package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/lingua-bot/internal/redact"
)

const (
	synthesizePath     = "/v1/text:synthesize"
	maxErrorBodyBytes  = 4096
	defaultSampleRate  = 24000
	defaultHTTPTimeout = 10 * time.Second
)

var (
	// ErrInvalidConfig is returned by NewClient for unusable settings.
	ErrInvalidConfig = errors.New("invalid speech configuration")
	// ErrEmptyText is returned when there is nothing to pronounce.
	ErrEmptyText = errors.New("text to synthesize is empty")
	// ErrUnavailable marks throttling, outages and network failures.
	ErrUnavailable = errors.New("speech service unavailable")
	// ErrRejected marks requests the service refused, such as an unknown voice.
	ErrRejected = errors.New("speech request rejected")
)

// Voice selects the language and voice of a synthesized clip.
type Voice struct {
	LanguageCode string
	Name         string
}

// Config holds the client settings.
type Config struct {
	APIKey          string
	BaseURL         string
	SampleRateHertz int
	Timeout         time.Duration
}

// Client calls the text:synthesize endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	sampleRate int
	logger     *slog.Logger
}

// NewClient validates cfg and builds a client. A nil httpClient gets one with
// cfg.Timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidConfig)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if cfg.SampleRateHertz == 0 {
		cfg.SampleRateHertz = defaultSampleRate
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + synthesizePath,
		apiKey:     cfg.APIKey,
		sampleRate: cfg.SampleRateHertz,
		logger:     logger.With(slog.String("component", "speech")),
	}, nil
}

type synthesizeRequest struct {
	Input       synthesisInput `json:"input"`
	Voice       voiceParams    `json:"voice"`
	AudioConfig audioConfig    `json:"audioConfig"`
}

type synthesisInput struct {
	Text string `json:"text"`
}

type voiceParams struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name,omitempty"`
}

type audioConfig struct {
	AudioEncoding   string `json:"audioEncoding"`
	SampleRateHertz int    `json:"sampleRateHertz"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize pronounces text with voice and returns WAV bytes.
func (c *Client) Synthesize(ctx context.Context, text string, voice Voice) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(synthesizeRequest{
		Input: synthesisInput{Text: text},
		Voice: voiceParams{LanguageCode: voice.LanguageCode, Name: voice.Name},
		AudioConfig: audioConfig{
			AudioEncoding:   "LINEAR16",
			SampleRateHertz: c.sampleRate,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, redact.Error(err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.WarnContext(ctx, "speech synthesis failed",
			slog.Int("status", resp.StatusCode),
			slog.String("voice", voice.Name),
			slog.String("body", redact.Payload(raw, maxErrorBodyBytes)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode synthesize response: %w", err)
	}
	audio, err := base64.StdEncoding.DecodeString(decoded.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio content: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio content", ErrRejected)
	}

	c.logger.DebugContext(ctx, "synthesized speech",
		slog.String("voice", voice.Name),
		slog.Int("text_length", len(text)),
		slog.Int("audio_bytes", len(audio)),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()))
	return audio, nil
}
