package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/platform/llm"
)

// ExampleCount is how many sentences a generation request asks for.
const ExampleCount = 3

var examplesSchema = &llm.Schema{
	Name:        "word_examples",
	Description: "Example sentences using a word with their translations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"examples": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"value":       map[string]any{"type": "string"},
						"translation": map[string]any{"type": "string"},
					},
					"required":             []string{"value", "translation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"examples"},
		"additionalProperties": false,
	},
}

var verificationSchema = &llm.Schema{
	Name:        "translation_checks",
	Description: "Boolean judgements about a guessed translation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"uses_word":         map[string]any{"type": "boolean"},
			"same_meaning":      map[string]any{"type": "boolean"},
			"syntactic_match":   map[string]any{"type": "boolean"},
			"logical_match":     map[string]any{"type": "boolean"},
			"valid_translation": map[string]any{"type": "boolean"},
			"same_tense":        map[string]any{"type": "boolean"},
		},
		"required": []string{
			"uses_word", "same_meaning", "syntactic_match",
			"logical_match", "valid_translation", "same_tense",
		},
		"additionalProperties": false,
	},
}

// Options tune the LLM-backed generator.
type Options struct {
	SourceLanguage string
	TargetLanguage string
	// MaxTokens caps each response; zero selects a default per use case.
	MaxTokens int
}

// DefaultOptions matches the English to Russian course.
func DefaultOptions() Options {
	return Options{SourceLanguage: "English", TargetLanguage: "Russian"}
}

// LLMGenerator implements ExampleGenerator and TranslationVerifier on top of
// an llm.Provider.
type LLMGenerator struct {
	provider llm.Provider
	opts     Options
	logger   *slog.Logger
}

var (
	_ ExampleGenerator    = (*LLMGenerator)(nil)
	_ TranslationVerifier = (*LLMGenerator)(nil)
)

// NewLLMGenerator creates a generator. The provider is required.
func NewLLMGenerator(provider llm.Provider, opts Options, logger *slog.Logger) (*LLMGenerator, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
	}
	if opts.SourceLanguage == "" || opts.TargetLanguage == "" {
		return nil, fmt.Errorf("%w: source and target languages are required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMGenerator{
		provider: provider,
		opts:     opts,
		logger:   logger.With(slog.String("component", "generation")),
	}, nil
}

type examplesResponse struct {
	Examples []struct {
		Value       string `json:"value"`
		Translation string `json:"translation"`
	} `json:"examples"`
}

// GenerateExamples asks the model for example sentences in different tenses.
// Blank pairs are dropped; a response with no usable pair is invalid.
func (g *LLMGenerator) GenerateExamples(ctx context.Context, word *domain.Word) ([]domain.Example, error) {
	if word == nil || strings.TrimSpace(word.Value) == "" {
		return nil, fmt.Errorf("%w: word value", ErrEmptyInput)
	}

	prompt, err := render(examplesTemplate, examplesPromptData{
		Label:          word.Label(),
		SourceLanguage: g.opts.SourceLanguage,
		TargetLanguage: g.opts.TargetLanguage,
	})
	if err != nil {
		return nil, err
	}

	req := llm.UserPrompt(systemPrompt, prompt, examplesSchema, g.maxTokens(1024))
	req.Temperature = 0.5

	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExamples), req)
	if err != nil {
		return nil, mapProviderError(err)
	}

	var parsed examplesResponse
	if err := json.Unmarshal(resp.Content, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse,
			&llm.ErrInvalidResponse{Content: resp.Content, Err: err})
	}

	examples := make([]domain.Example, 0, len(parsed.Examples))
	for _, e := range parsed.Examples {
		ex, err := domain.NewExample(e.Value, e.Translation)
		if err != nil {
			g.logger.DebugContext(ctx, "skipping blank example",
				slog.String("word_id", word.ID.String()))
			continue
		}
		examples = append(examples, ex)
		if len(examples) == ExampleCount {
			break
		}
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse,
			&llm.ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("no examples returned")})
	}

	g.logger.DebugContext(ctx, "generated examples",
		slog.String("word_id", word.ID.String()),
		slog.Int("count", len(examples)))
	return examples, nil
}

// VerifyTranslation asks the model the six check questions and reduces the
// answers with Checks.Verdict.
func (g *LLMGenerator) VerifyTranslation(ctx context.Context, req VerificationRequest) (Verification, error) {
	if req.Word == nil || strings.TrimSpace(req.Submitted) == "" || strings.TrimSpace(req.Sentence) == "" {
		return Verification{}, fmt.Errorf("%w: word, sentence and submission are required", ErrEmptyInput)
	}

	shown, reference := strings.ToLower(g.opts.SourceLanguage), strings.ToLower(g.opts.TargetLanguage)
	if req.TargetShown {
		shown, reference = reference, shown
	}
	prompt, err := render(verificationTemplate, verificationPromptData{
		Label:                req.Word.Label(),
		ShownLanguage:        shown,
		ReferenceLanguage:    reference,
		Sentence:             req.Sentence,
		ReferenceTranslation: req.ReferenceTranslation,
		Submitted:            req.Submitted,
	})
	if err != nil {
		return Verification{}, err
	}

	resp, err := g.provider.Generate(
		llm.WithPurpose(ctx, llm.PurposeVerification),
		llm.UserPrompt(systemPrompt, prompt, verificationSchema, g.maxTokens(256)),
	)
	if err != nil {
		return Verification{}, mapProviderError(err)
	}

	var checks Checks
	if err := json.Unmarshal(resp.Content, &checks); err != nil {
		return Verification{}, fmt.Errorf("%w: %w", ErrInvalidResponse,
			&llm.ErrInvalidResponse{Content: resp.Content, Err: err})
	}
	return checks.Verdict(), nil
}

func (g *LLMGenerator) maxTokens(fallback int) int {
	if g.opts.MaxTokens > 0 {
		return g.opts.MaxTokens
	}
	return fallback
}
