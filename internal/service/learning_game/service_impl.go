package learning_game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingua-bot/internal/domain"
	"github.com/phrazzld/lingua-bot/internal/domain/game"
	"github.com/phrazzld/lingua-bot/internal/events"
	"github.com/phrazzld/lingua-bot/internal/generation"
	"github.com/phrazzld/lingua-bot/internal/platform/logger"
	"github.com/phrazzld/lingua-bot/internal/service/enrichment"
	"github.com/phrazzld/lingua-bot/internal/store"
)

// Deps are the collaborators of the game service. Cache, Events, Sessions,
// Table, Rand and Clock are optional.
type Deps struct {
	Words      store.WordStore
	UserWords  store.UserWordStore
	Cache      store.VerificationCacheStore
	Verifier   generation.TranslationVerifier
	Enrichment enrichment.Service
	Events     events.EventEmitter
	Sessions   SessionStore
	Table      *game.Table
	Config     Config
	Rand       *rand.Rand
	Clock      func() time.Time
	Logger     *slog.Logger
}

type serviceImpl struct {
	words     store.WordStore
	userWords store.UserWordStore
	ratings   *RatingStore
	sessions  SessionStore
	table     *game.Table
	evaluator *Evaluator
	builder   *QuestionBuilder
	rng       *lockedRand
	cfg       Config
	logger    *slog.Logger
}

var _ Service = (*serviceImpl)(nil)

// NewService wires the game service.
func NewService(deps Deps) (Service, error) {
	if deps.Words == nil {
		return nil, errors.New("words store cannot be nil")
	}
	if deps.UserWords == nil {
		return nil, errors.New("user words store cannot be nil")
	}
	if deps.Verifier == nil {
		return nil, errors.New("verifier cannot be nil")
	}
	if deps.Enrichment == nil {
		return nil, errors.New("enrichment service cannot be nil")
	}
	if deps.Config.MinChosenWords < 1 || deps.Config.DueWordsLimit < 1 {
		return nil, errors.New("word limits must be positive")
	}

	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	table := deps.Table
	if table == nil {
		table = game.DefaultTable()
	}
	sessions := deps.Sessions
	if sessions == nil {
		sessions = NewInMemorySessionStore()
	}
	rng := newLockedRand(deps.Rand)

	evaluator := NewEvaluator(deps.Cache, deps.Verifier, deps.Config, log)
	builder := NewQuestionBuilder(table, deps.Enrichment, deps.Events, rng, deps.Config, log)
	if deps.Clock != nil {
		evaluator.now = deps.Clock
		builder.now = deps.Clock
	}

	return &serviceImpl{
		words:     deps.Words,
		userWords: deps.UserWords,
		ratings:   NewRatingStore(deps.UserWords),
		sessions:  sessions,
		table:     table,
		evaluator: evaluator,
		builder:   builder,
		rng:       rng,
		cfg:       deps.Config,
		logger:    log.With(slog.String("component", "learning_game")),
	}, nil
}

// HandleTurn implements Service.HandleTurn.
func (s *serviceImpl) HandleTurn(ctx context.Context, req TurnRequest) (RenderPayload, error) {
	if req.SessionID == "" || req.UserID == uuid.Nil {
		return RenderPayload{}, fmt.Errorf("%w: session and user are required", ErrInvalidTurn)
	}

	unlock, ok := s.sessions.TryLock(req.SessionID)
	if !ok {
		return message(MsgAnswerInProgress), nil
	}
	defer unlock()

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", req.SessionID),
		slog.String("user_id", req.UserID.String()))
	ctx = logger.WithLogger(ctx, log)

	ev := req.Event
	if ev.Kind == EventFinish || (ev.Kind == EventButton && ev.Payload == PayloadFinish) {
		s.sessions.Clear(req.SessionID)
		return RenderPayload{Text: MsgFinished, Finished: true}, nil
	}

	switch ev.Kind {
	case EventStart:
		if ev.GroupID == uuid.Nil {
			return RenderPayload{}, fmt.Errorf("%w: start requires a group", ErrInvalidTurn)
		}
		s.sessions.Clear(req.SessionID)
		log.Info("learning started", slog.String("group_id", ev.GroupID.String()))
		return s.nextQuestion(ctx, req.SessionID, req.UserID, ev.GroupID, "")
	case EventText, EventButton:
		return s.answer(ctx, req)
	default:
		return RenderPayload{}, fmt.Errorf("%w: unknown event kind %q", ErrInvalidTurn, ev.Kind)
	}
}

// answer grades an answer to the pending question and moves on.
func (s *serviceImpl) answer(ctx context.Context, req TurnRequest) (RenderPayload, error) {
	ev := req.Event
	q, ok := s.sessions.Get(req.SessionID)
	if !ok || q.UserID != req.UserID {
		if _, _, isAnswer := ParseAnswerPayload(ev.Payload); ev.Kind == EventButton && isAnswer {
			return message(MsgStaleQuestion), nil
		}
		return message(MsgStartHint), nil
	}

	eval := Evaluation{Question: q}
	if ev.Kind == EventButton {
		if ev.Payload == PayloadNoop {
			return message(MsgTypeAnswer), nil
		}
		qID, wordID, isAnswer := ParseAnswerPayload(ev.Payload)
		if !isAnswer || qID != q.ID {
			return message(MsgStaleQuestion), nil
		}
		if !q.Tier.AcceptsButtons() {
			return message(MsgTypeAnswer), nil
		}
		eval.PressedWordID = wordID
		eval.Submitted = optionText(q, wordID)
	} else {
		if q.Tier.AcceptsButtons() {
			return message(MsgChooseOption), nil
		}
		eval.Submitted = strings.TrimSpace(ev.Text)
	}

	verdict, err := s.evaluator.Evaluate(ctx, eval)
	if err != nil {
		return s.fail(ctx, req.SessionID, "evaluate", "failed to grade answer", err)
	}

	rating, err := s.ratings.ApplyVerdict(ctx, q.UserID, q.WordID, q.Tier, verdict.Correct)
	if err != nil {
		return s.fail(ctx, req.SessionID, "apply_rating", "failed to update rating", err)
	}

	shown := eval.Submitted
	if q.Tier.AcceptsButtons() && !verdict.Correct {
		shown = wrongButtonText
	}
	feedback := ComposeFeedback(q, shown, verdict, rating)

	logger.FromContextOrDefault(ctx, s.logger).Info("answer graded",
		slog.String("word_id", q.WordID.String()),
		slog.Int("tier", q.Tier.ID),
		slog.Bool("correct", verdict.Correct),
		slog.Bool("via_ai", verdict.ViaAI),
		slog.Float64("rating", rating))

	return s.nextQuestion(ctx, req.SessionID, q.UserID, q.GroupID, feedback)
}

// nextQuestion picks a due word and renders its question. feedback is
// attached to whatever is returned.
func (s *serviceImpl) nextQuestion(
	ctx context.Context,
	sessionID string,
	userID, groupID uuid.UUID,
	feedback string,
) (RenderPayload, error) {
	chosen, err := s.userWords.CountChosen(ctx, userID, groupID)
	if err != nil {
		return s.fail(ctx, sessionID, "next_question", "failed to count chosen words", err)
	}
	if chosen < s.cfg.MinChosenWords {
		s.sessions.Clear(sessionID)
		return RenderPayload{Feedback: feedback, Text: MsgChooseMoreWords(s.cfg.MinChosenWords)}, nil
	}

	due, err := s.userWords.FindDue(ctx, userID, groupID, s.cfg.DueWordsLimit)
	if err != nil {
		return s.fail(ctx, sessionID, "next_question", "failed to load due words", err)
	}
	if len(due) == 0 {
		s.sessions.Clear(sessionID)
		return RenderPayload{Feedback: feedback, Text: MsgChooseMoreWords(s.cfg.MinChosenWords)}, nil
	}
	s.rng.Shuffle(len(due), func(i, j int) { due[i], due[j] = due[j], due[i] })
	target := due[len(due)-1]

	ids := make([]uuid.UUID, 0, len(due))
	for _, uw := range due {
		ids = append(ids, uw.WordID)
	}
	words, err := s.words.GetByIDs(ctx, ids)
	if err != nil {
		return s.fail(ctx, sessionID, "next_question", "failed to load words", err)
	}
	byID := make(map[uuid.UUID]*domain.Word, len(words))
	for _, w := range words {
		byID[w.ID] = w
	}
	word, ok := byID[target.WordID]
	if !ok {
		return s.fail(ctx, sessionID, "next_question", "due word not found", ErrMissingWord)
	}
	candidates := make([]*domain.Word, 0, len(due)-1)
	for _, uw := range due[:len(due)-1] {
		if w, ok := byID[uw.WordID]; ok {
			candidates = append(candidates, w)
		}
	}

	tier := s.table.Select(target.Rating, s.rng.Float64)
	q, payload, err := s.builder.Build(ctx, BuildRequest{
		SessionID:  sessionID,
		UserID:     userID,
		GroupID:    groupID,
		Word:       word,
		Tier:       tier,
		Candidates: candidates,
	})
	if err != nil {
		return s.fail(ctx, sessionID, "next_question", "failed to build question", err)
	}
	s.sessions.Put(q)

	logger.FromContextOrDefault(ctx, s.logger).Debug("question asked",
		slog.String("question_id", q.ID.String()),
		slog.String("word_id", word.ID.String()),
		slog.Int("tier", q.Tier.ID),
		slog.Uint64("turn", q.Turn))

	payload.Feedback = feedback
	return payload, nil
}

// fail resets the session after a turn-fatal error.
func (s *serviceImpl) fail(ctx context.Context, sessionID, op, msg string, err error) (RenderPayload, error) {
	s.sessions.Clear(sessionID)
	logger.FromContextOrDefault(ctx, s.logger).Error(msg,
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return RenderPayload{}, newServiceError(op, msg, err)
}

func optionText(q *PendingQuestion, wordID uuid.UUID) string {
	for _, opt := range q.Options {
		if opt.WordID == wordID {
			return opt.Text
		}
	}
	return ""
}
