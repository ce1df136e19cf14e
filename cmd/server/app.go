package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lingua-bot/internal/config"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/events"
	"github.com/phrazzld/lingua-bot/internal/generation"
	"github.com/phrazzld/lingua-bot/internal/platform/llm"
	"github.com/phrazzld/lingua-bot/internal/platform/postgres"
	"github.com/phrazzld/lingua-bot/internal/platform/speech"
	"github.com/phrazzld/lingua-bot/internal/service/auth"
	"github.com/phrazzld/lingua-bot/internal/service/enrichment"
	"github.com/phrazzld/lingua-bot/internal/service/learning_game"
	"github.com/phrazzld/lingua-bot/internal/service/listen"
	"github.com/phrazzld/lingua-bot/internal/task"
)

// application holds the wired dependencies and owns their shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	tokens auth.TokenService
	game   learning_game.Service
	listen listen.Service

	taskRunner   *task.TaskRunner
	cacheSweeper *task.CacheSweeper
}

// newApplication builds every store and service on top of an open database.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{config: cfg, logger: logger, db: db}

	var err error
	app.tokens, err = auth.NewTokenService(cfg.Auth, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	wordStore := postgres.NewPostgresWordStore(db, logger)
	userWordStore := postgres.NewPostgresUserWordStore(db, logger)
	cacheStore := postgres.NewPostgresVerificationCacheStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)

	provider, err := llm.NewProvider(ctx, llmConfig(cfg.LLM), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	generator, err := generation.NewLLMGenerator(provider, generation.DefaultOptions(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	logger.Info("LLM generator initialized", slog.String("provider", cfg.LLM.Provider))

	tts, err := speech.NewClient(speech.Config{
		APIKey:          cfg.Speech.APIKey,
		BaseURL:         cfg.Speech.BaseURL,
		SampleRateHertz: cfg.Speech.SampleRateHertz,
		Timeout:         cfg.Speech.RequestTimeout,
	}, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}

	enricher := enrichment.NewService(wordStore, generator, tts, enrichment.Voices{
		Value:       speech.Voice{LanguageCode: cfg.Speech.ValueVoice.LanguageCode, Name: cfg.Speech.ValueVoice.Name},
		Translation: speech.Voice{LanguageCode: cfg.Speech.TranslationVoice.LanguageCode, Name: cfg.Speech.TranslationVoice.Name},
	}, logger)

	factory := task.NewEnrichWordTaskFactory(enricher, logger)
	registry := task.NewRegistry()
	registry.Register(task.TaskTypeWordEnrichment, factory)
	app.taskRunner = task.NewTaskRunner(taskStore, registry, taskRunnerConfig(cfg.Task), logger)

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.TypeWordEnrichment, task.NewEnrichmentEventHandler(factory, app.taskRunner, logger))

	app.cacheSweeper = task.NewCacheSweeper(cacheStore, cfg.Task.CacheSweepInterval, logger)

	table, err := game.NewTable(game.DefaultTiers(), game.DefaultTopRating, cfg.Game.TopMix)
	if err != nil {
		return nil, fmt.Errorf("failed to build tier table: %w", err)
	}
	app.game, err = learning_game.NewService(learning_game.Deps{
		Words:      wordStore,
		UserWords:  userWordStore,
		Cache:      cacheStore,
		Verifier:   generator,
		Enrichment: enricher,
		Events:     emitter,
		Table:      table,
		Config:     gameConfig(cfg.Game),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create learning game service: %w", err)
	}

	app.listen, err = listen.NewService(wordStore, userWordStore, enricher, listen.Config{
		MaxWords:   cfg.Game.ListenMaxWords,
		Silence:    cfg.Game.ClipSilence,
		TTSTimeout: cfg.Game.TTSTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create listen service: %w", err)
	}

	logger.Info("application initialized")
	return app, nil
}

// Run starts the background workers and serves HTTP until ctx is canceled.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.taskRunner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start task runner: %w", err)
	}
	app.cacheSweeper.Start(ctx)

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.cacheSweeper != nil {
		app.cacheSweeper.Stop()
	}
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}

func llmConfig(cfg config.LLMConfig) llm.Config {
	return llm.Config{
		Provider:  cfg.Provider,
		Gemini:    llm.ModelConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel},
		Anthropic: llm.ModelConfig{APIKey: cfg.AnthropicAPIKey, Model: cfg.AnthropicModel},
		OpenAI:    llm.ModelConfig{APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		Retry: llm.RetryConfig{
			MaxAttempts: cfg.MaxAttempts,
			InitialWait: cfg.InitialBackoff,
			MaxWait:     cfg.MaxBackoff,
			Multiplier:  2.0,
		},
	}
}

func gameConfig(cfg config.GameConfig) learning_game.Config {
	gc := learning_game.DefaultConfig()
	gc.MinChosenWords = cfg.MinChosenWords
	gc.DueWordsLimit = cfg.DueWordsLimit
	gc.DistractorCount = cfg.DistractorCount
	gc.VerificationTTL = cfg.VerificationTTL
	gc.AITimeout = cfg.AITimeout
	gc.TTSTimeout = cfg.TTSTimeout
	gc.CacheTimeout = cfg.CacheTimeout
	return gc
}

func taskRunnerConfig(cfg config.TaskConfig) task.TaskRunnerConfig {
	rc := task.DefaultTaskRunnerConfig()
	rc.WorkerCount = cfg.WorkerCount
	rc.QueueSize = cfg.QueueSize
	rc.StuckTaskAge = time.Duration(cfg.StuckTaskAgeMinutes) * time.Minute
	rc.StuckTaskCheckInterval = cfg.StuckTaskCheckInterval
	rc.TaskTimeout = cfg.EnrichmentTimeout
	return rc
}
