package learning_game

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/events"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/service/enrichment"
	"golang.org/x/sync/errgroup"
)

// BuildRequest is the input of QuestionBuilder.Build. Candidates are the
// other due words of the group, already in distractor preference order.
type BuildRequest struct {
	SessionID  string
	UserID     uuid.UUID
	GroupID    uuid.UUID
	Word       *domain.Word
	Tier       game.Tier
	Candidates []*domain.Word
}

// QuestionBuilder turns a word and a tier into a pending question and what
// to render for it. Missing assets are produced inline within the configured
// timeouts; when that fails the tier is lowered and the asset is requested
// in the background instead.
type QuestionBuilder struct {
	table    *game.Table
	enricher enrichment.Service
	emitter  events.EventEmitter
	rng      *lockedRand
	cfg      Config
	now      func() time.Time
	logger   *slog.Logger
}

// NewQuestionBuilder creates a builder. emitter may be nil, which disables
// background enrichment requests.
func NewQuestionBuilder(
	table *game.Table,
	enricher enrichment.Service,
	emitter events.EventEmitter,
	rng *lockedRand,
	cfg Config,
	logger *slog.Logger,
) *QuestionBuilder {
	if table == nil {
		panic("table cannot be nil")
	}
	if enricher == nil {
		panic("enricher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QuestionBuilder{
		table:    table,
		enricher: enricher,
		emitter:  emitter,
		rng:      newLockedRandIfNil(rng),
		cfg:      cfg,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "question_builder")),
	}
}

func newLockedRandIfNil(r *lockedRand) *lockedRand {
	if r == nil {
		return newLockedRand(nil)
	}
	return r
}

// Build produces the question for req. It fails only on invalid input;
// asset failures lower the tier.
func (b *QuestionBuilder) Build(ctx context.Context, req BuildRequest) (*PendingQuestion, RenderPayload, error) {
	word := req.Word
	if word == nil {
		return nil, RenderPayload{}, ErrMissingWord
	}
	if err := word.Validate(); err != nil {
		return nil, RenderPayload{}, err
	}

	example := b.prepareAssets(ctx, word, req.Tier)
	tier, needs := b.table.Degrade(req.Tier, game.Assets{
		HasExamples:      word.HasExamples(),
		HasWordAudio:     len(word.ValueAudio) > 0,
		HasSentenceAudio: example != nil && len(example.ValueAudio) > 0,
	})
	if len(needs) > 0 {
		var exampleID *uuid.UUID
		if example != nil {
			exampleID = &example.ID
		}
		b.requestEnrichment(ctx, word.ID, needs, exampleID)
		logger.FromContextOrDefault(ctx, b.logger).Info("question tier lowered",
			slog.String("word_id", word.ID.String()),
			slog.Int("selected_tier", req.Tier.ID),
			slog.Int("served_tier", tier.ID))
	}

	q := &PendingQuestion{
		ID:                uuid.New(),
		SessionID:         req.SessionID,
		UserID:            req.UserID,
		GroupID:           req.GroupID,
		WordID:            word.ID,
		Tier:              tier,
		PresentSourceSide: b.rng.IntN(2) == 0,
		WordValue:         word.Value,
		WordTranslation:   word.Translation,
		CreatedAt:         b.now().UTC(),
	}

	var payload RenderPayload
	switch tier.Form {
	case game.FormChoicePress, game.FormChoiceType:
		payload = b.renderChoice(q, word, req.Candidates)
	case game.FormWord:
		q.ExpectedAnswer = word.Side(!q.PresentSourceSide)
		payload = RenderPayload{Text: prompt(tier, word.Side(q.PresentSourceSide))}
	case game.FormAudioWord:
		q.PresentSourceSide = true
		q.ExpectedAnswer = word.Value
		payload = RenderPayload{Text: tier.PromptLabel, Audio: word.ValueAudio}
	case game.FormSentence, game.FormAudioSentence:
		if tier.Form == game.FormAudioSentence {
			q.PresentSourceSide = true
		}
		q.ExampleID = &example.ID
		shown, expected := example.Value, example.Translation
		if !q.PresentSourceSide {
			shown, expected = expected, shown
		}
		q.Sentence, q.ReferenceTranslation, q.ExpectedAnswer = shown, expected, expected
		if tier.Form == game.FormAudioSentence {
			payload = RenderPayload{Text: tier.PromptLabel, Audio: example.ValueAudio}
		} else {
			payload = RenderPayload{Text: prompt(tier, shown)}
		}
	}

	if payload.Buttons == nil {
		payload.Buttons = [][]Button{finishRow()}
	}
	return q, payload, nil
}

// prepareAssets fills in what the selected tier needs and returns the example
// a sentence tier will use. Independent fetches run concurrently; each one
// records its own failure and never cancels the others.
func (b *QuestionBuilder) prepareAssets(ctx context.Context, word *domain.Word, tier game.Tier) *domain.Example {
	log := logger.FromContextOrDefault(ctx, b.logger).With(slog.String("word_id", word.ID.String()))

	needExamples := tier.UsesSentence() && !word.HasExamples()
	// A sentence question without examples falls back to the audio word form.
	needWordAudio := len(word.ValueAudio) == 0 &&
		(tier.Form == game.FormAudioWord || (tier.Form == game.FormSentence && needExamples))

	var g errgroup.Group
	if needExamples {
		g.Go(func() error {
			aiCtx, cancel := context.WithTimeout(ctx, b.cfg.AITimeout)
			defer cancel()
			if _, err := b.enricher.EnsureExamples(aiCtx, word); err != nil {
				log.Warn("inline example generation failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}
	if needWordAudio {
		g.Go(func() error {
			ttsCtx, cancel := context.WithTimeout(ctx, b.cfg.TTSTimeout)
			defer cancel()
			if _, _, err := b.enricher.EnsureWordAudio(ttsCtx, word); err != nil {
				log.Warn("inline word audio synthesis failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}
	_ = g.Wait()

	if !tier.UsesSentence() {
		return nil
	}
	picked, ok := word.RandomExample(b.rng.IntN)
	if !ok {
		return nil
	}
	if tier.Form == game.FormAudioSentence && len(picked.ValueAudio) == 0 {
		ttsCtx, cancel := context.WithTimeout(ctx, b.cfg.TTSTimeout)
		defer cancel()
		withAudio, err := b.enricher.EnsureExampleAudio(ttsCtx, word, picked.ID)
		if err != nil {
			log.Warn("inline example audio synthesis failed",
				slog.String("example_id", picked.ID.String()),
				slog.String("error", err.Error()))
		} else {
			picked = withAudio
		}
	}
	return &picked
}

// renderChoice fills the options of a multiple-choice question. Options show
// the side opposite to the prompt; candidates whose option text would read
// the same as another option are skipped.
func (b *QuestionBuilder) renderChoice(q *PendingQuestion, word *domain.Word, candidates []*domain.Word) RenderPayload {
	answerSide := !q.PresentSourceSide
	q.ExpectedAnswer = word.Side(answerSide)

	seen := map[string]bool{Normalize(q.ExpectedAnswer): true}
	options := []Option{{WordID: word.ID, Text: q.ExpectedAnswer}}
	for _, c := range candidates {
		if len(options)-1 >= b.cfg.DistractorCount {
			break
		}
		if c == nil || c.ID == word.ID {
			continue
		}
		text := c.Side(answerSide)
		if key := Normalize(text); key == "" || seen[key] {
			continue
		} else {
			seen[key] = true
		}
		options = append(options, Option{WordID: c.ID, Text: text})
	}
	b.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	q.Options = options

	rows := make([][]Button, 0, len(options)+1)
	text := prompt(q.Tier, word.Side(q.PresentSourceSide))
	if q.Tier.AcceptsButtons() {
		for _, opt := range options {
			rows = append(rows, []Button{{Label: opt.Text, Payload: AnswerPayload(q.ID, opt.WordID)}})
		}
	} else {
		lines := make([]string, 0, len(options))
		for _, opt := range options {
			lines = append(lines, "• "+opt.Text)
			rows = append(rows, []Button{{Label: opt.Text, Payload: PayloadNoop}})
		}
		text += "\n\n" + strings.Join(lines, "\n")
	}
	rows = append(rows, finishRow())
	return RenderPayload{Text: text, Buttons: rows}
}

// requestEnrichment hands missing assets to background work. It must not
// fail the question, so errors are only logged.
func (b *QuestionBuilder) requestEnrichment(
	ctx context.Context,
	wordID uuid.UUID,
	needs []game.Enrichment,
	exampleID *uuid.UUID,
) {
	if b.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, b.logger)

	kinds := make([]string, 0, len(needs))
	for _, n := range needs {
		kinds = append(kinds, string(n))
	}
	event, err := events.NewWordEnrichmentEvent(events.WordEnrichmentPayload{
		WordID:    wordID,
		Kinds:     kinds,
		ExampleID: exampleID,
	})
	if err != nil {
		log.Error("failed to build enrichment event", slog.String("error", err.Error()))
		return
	}

	// The request may already be cancelled; the submission must still land.
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.EnrichmentSubmitTimeout)
	defer cancel()
	if err := b.emitter.EmitEvent(submitCtx, event); err != nil {
		log.Warn("failed to request background enrichment",
			slog.String("word_id", wordID.String()),
			slog.Any("kinds", kinds),
			slog.String("error", err.Error()))
	}
}

func prompt(tier game.Tier, shown string) string {
	return tier.PromptLabel + "\n\n" + shown
}
