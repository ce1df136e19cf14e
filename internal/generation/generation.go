package generation

import (
	"context"

	"github.com/phrazzld/lingua-bot/internal/domain"
)

// ExampleGenerator produces example sentences that use a word.
type ExampleGenerator interface {
	// GenerateExamples returns new examples with fresh IDs. They are not
	// persisted; the caller attaches them to the word.
	GenerateExamples(ctx context.Context, word *domain.Word) ([]domain.Example, error)
}

// TranslationVerifier judges a free-text sentence translation.
type TranslationVerifier interface {
	VerifyTranslation(ctx context.Context, req VerificationRequest) (Verification, error)
}

// VerificationRequest carries what the model needs to judge an answer.
// Sentence is the side of the example that was shown and ReferenceTranslation
// the side expected back; Submitted is the learner's attempt at it.
// TargetShown reports that Sentence is in the target language, so the
// learner translates back into the source language.
type VerificationRequest struct {
	Word                 *domain.Word
	Sentence             string
	ReferenceTranslation string
	Submitted            string
	TargetShown          bool
}

// Checks are the individual judgements the model makes about a submission.
type Checks struct {
	UsesWord         bool `json:"uses_word"`
	SameMeaning      bool `json:"same_meaning"`
	SyntacticMatch   bool `json:"syntactic_match"`
	LogicalMatch     bool `json:"logical_match"`
	ValidTranslation bool `json:"valid_translation"`
	SameTense        bool `json:"same_tense"`
}

// Verification is the outcome of a translation check. Explanation is empty
// when Correct is true.
type Verification struct {
	Correct     bool
	Explanation string
	Checks      Checks
}

// failedCheckMessages pairs each check with the learner-facing message shown
// when it is the first to fail.
var failedCheckMessages = []struct {
	passed  func(Checks) bool
	message string
}{
	{func(c Checks) bool { return c.UsesWord }, "Перевод не содержит загаданное слово"},
	{func(c Checks) bool { return c.SameMeaning }, "Перевод содержит ошибки"},
	{func(c Checks) bool { return c.SyntacticMatch }, "Перевод составлен синтаксически неверно"},
	{func(c Checks) bool { return c.LogicalMatch }, "Перевод составлен логически неверно"},
	{func(c Checks) bool { return c.ValidTranslation }, "Неверный перевод"},
	{func(c Checks) bool { return c.SameTense }, "Перевод имеет неверное время"},
}

// Verdict reduces the checks to a decision: correct only when every check
// passed, otherwise explained by the first failure.
func (c Checks) Verdict() Verification {
	for _, f := range failedCheckMessages {
		if !f.passed(c) {
			return Verification{Correct: false, Explanation: f.message, Checks: c}
		}
	}
	return Verification{Correct: true, Checks: c}
}
