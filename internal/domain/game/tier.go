package game

import (
	"errors"
	"fmt"
)

// Form is the presentation form a tier requires.
type Form int

// Tier forms ordered by the recall effort they demand.
const (
	FormChoicePress   Form = iota + 1 // pick the translation from buttons
	FormChoiceType                    // options are shown but the choice must be typed
	FormWord                          // free-type single word translation
	FormAudioWord                     // listen to the word and type it
	FormSentence                      // free-type translation of a sentence
	FormAudioSentence                 // listen to a sentence and type its translation
)

// DefaultTopRating is the rating from which the top tier becomes certain.
const DefaultTopRating = 90.0

var (
	// ErrUnknownTier is returned when a tier ID is not part of the table.
	ErrUnknownTier = errors.New("unknown tier")

	// ErrInvalidTable is returned when a tier table violates its ordering rules.
	ErrInvalidTable = errors.New("invalid tier table")
)

// Tier is one difficulty level of the game.
type Tier struct {
	ID          int
	MinRating   float64 // breakpoint at which the tier starts to be mixed in
	Delta       float64 // reward on success and penalty on failure
	PromptLabel string
	Form        Form
}

// MultipleChoice reports whether the tier shows answer options.
func (t Tier) MultipleChoice() bool {
	return t.Form == FormChoicePress || t.Form == FormChoiceType
}

// AcceptsButtons reports whether an answer is given by pressing an option button.
func (t Tier) AcceptsButtons() bool {
	return t.Form == FormChoicePress
}

// UsesSentence reports whether the question is built around an example sentence.
func (t Tier) UsesSentence() bool {
	return t.Form == FormSentence || t.Form == FormAudioSentence
}

// UsesAudio reports whether the prompt is delivered as audio only.
func (t Tier) UsesAudio() bool {
	return t.Form == FormAudioWord || t.Form == FormAudioSentence
}

// DefaultTiers returns the production tier table rows.
func DefaultTiers() []Tier {
	return []Tier{
		{ID: 1, MinRating: 0, Delta: 10, Form: FormChoicePress, PromptLabel: "👇 ВЫБЕРИ верный перевод"},
		{ID: 2, MinRating: 5, Delta: 10, Form: FormChoiceType, PromptLabel: "✍️ Найди и ВВЕДИ верный перевод"},
		{ID: 3, MinRating: 15, Delta: 12, Form: FormWord, PromptLabel: "✍️ ВВЕДИ верный перевод"},
		{ID: 4, MinRating: 30, Delta: 12, Form: FormAudioWord, PromptLabel: "✍️ Прослушай аудио и введи верное слово"},
		{ID: 5, MinRating: 50, Delta: 15, Form: FormSentence, PromptLabel: "✍️ ВВЕДИ верный перевод предложения"},
		{ID: 6, MinRating: 70, Delta: 15, Form: FormAudioSentence, PromptLabel: "✍️ Прослушай аудио и введи перевод предложения"},
	}
}

// Table is the ordered list of tiers plus the selection parameters.
type Table struct {
	tiers     []Tier
	topRating float64
	topMix    float64
}

// NewTable validates and builds a tier table.
//
// Tiers must be listed with IDs 1..n, one per Form in Form order, with strictly
// increasing MinRating starting at 0 and positive deltas. topRating must lie
// above the last breakpoint and below MaxRating; topMix is the share of the
// second-to-top tier once the rating reaches topRating and must be in [0, 1).
func NewTable(tiers []Tier, topRating, topMix float64) (*Table, error) {
	if len(tiers) != int(FormAudioSentence) {
		return nil, fmt.Errorf("%w: expected %d tiers, got %d", ErrInvalidTable, FormAudioSentence, len(tiers))
	}
	for i, t := range tiers {
		if t.ID != i+1 || t.Form != Form(i+1) {
			return nil, fmt.Errorf("%w: tier at position %d has id %d form %d", ErrInvalidTable, i, t.ID, t.Form)
		}
		if t.Delta <= 0 {
			return nil, fmt.Errorf("%w: tier %d delta must be positive", ErrInvalidTable, t.ID)
		}
		if i == 0 && t.MinRating != 0 {
			return nil, fmt.Errorf("%w: first tier must start at 0", ErrInvalidTable)
		}
		if i > 0 && t.MinRating <= tiers[i-1].MinRating {
			return nil, fmt.Errorf("%w: breakpoints must strictly increase at tier %d", ErrInvalidTable, t.ID)
		}
	}
	if topRating <= tiers[len(tiers)-1].MinRating || topRating > MaxRating {
		return nil, fmt.Errorf("%w: top rating %.2f out of range", ErrInvalidTable, topRating)
	}
	if topMix < 0 || topMix >= 1 {
		return nil, fmt.Errorf("%w: top mix %.2f must be in [0, 1)", ErrInvalidTable, topMix)
	}

	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return &Table{tiers: cp, topRating: topRating, topMix: topMix}, nil
}

// DefaultTable returns the production table with no top-tier mixing.
func DefaultTable() *Table {
	t, err := NewTable(DefaultTiers(), DefaultTopRating, 0)
	if err != nil {
		// ALLOW-PANIC: the default rows are constant
		panic(err)
	}
	return t
}

// Len returns the number of tiers.
func (t *Table) Len() int {
	return len(t.tiers)
}

// Tier looks a tier up by ID.
func (t *Table) Tier(id int) (Tier, error) {
	if id < 1 || id > len(t.tiers) {
		return Tier{}, fmt.Errorf("%w: %d", ErrUnknownTier, id)
	}
	return t.tiers[id-1], nil
}

// ByForm returns the tier that presents questions in the given form.
func (t *Table) ByForm(f Form) Tier {
	return t.tiers[int(f)-1]
}

// Tiers returns a copy of the ordered tier rows.
func (t *Table) Tiers() []Tier {
	cp := make([]Tier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

// breakpoint returns the upper bound of the band whose high tier has index i.
func (t *Table) breakpoint(i int) float64 {
	if i+1 < len(t.tiers) {
		return t.tiers[i+1].MinRating
	}
	return t.topRating
}
