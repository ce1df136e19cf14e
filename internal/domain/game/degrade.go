package game

// Enrichment names a missing asset that background work should fill in.
type Enrichment string

// Enrichment kinds.
const (
	EnrichExamples     Enrichment = "examples"
	EnrichWordAudio    Enrichment = "word_audio"
	EnrichExampleAudio Enrichment = "example_audio"
)

// Assets describes what a word currently has available for question building.
type Assets struct {
	HasExamples      bool
	HasWordAudio     bool
	HasSentenceAudio bool // audio of the example picked for a sentence tier
}

// Degrade lowers a tier until the word's assets can serve it and returns the
// enrichments needed to serve the original tier next time.
//
// Sentence tiers without examples drop to audio-word (from sentence) or
// free-word (from audio-sentence). Audio-sentence without sentence audio drops
// to sentence. Audio-word without word audio drops to free-word.
func (t *Table) Degrade(tier Tier, a Assets) (Tier, []Enrichment) {
	var needs []Enrichment
	add := func(e Enrichment) {
		for _, n := range needs {
			if n == e {
				return
			}
		}
		needs = append(needs, e)
	}

	for {
		switch {
		case tier.Form == FormAudioSentence && !a.HasExamples:
			add(EnrichExamples)
			tier = t.ByForm(FormWord)
		case tier.Form == FormSentence && !a.HasExamples:
			add(EnrichExamples)
			tier = t.ByForm(FormAudioWord)
		case tier.Form == FormAudioSentence && !a.HasSentenceAudio:
			add(EnrichExampleAudio)
			tier = t.ByForm(FormSentence)
		case tier.Form == FormAudioWord && !a.HasWordAudio:
			add(EnrichWordAudio)
			tier = t.ByForm(FormWord)
		default:
			return tier, needs
		}
	}
}
