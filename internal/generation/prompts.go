package generation

import (
	"bytes"
	"fmt"
	"text/template"
)

const examplesPrompt = `Three sentences in different tenses with word "{{.Label}}" ` +
	`in JSON with keys "value" and "translation" {{.SourceLanguage}} to {{.TargetLanguage}}.`

const verificationPrompt = `Read the next sentences and answer the questions about them.

Data: {"correct-sentence-{{.ShownLanguage}}": {{printf "%q" .Sentence}}, ` +
	`"correct-sentence-{{.ReferenceLanguage}}": {{printf "%q" .ReferenceTranslation}}, ` +
	`"guess-sentence": {{printf "%q" .Submitted}}}

Questions:
uses_word: Is the guess-sentence using the word "{{.Label}}"?
same_meaning: Does the guess-sentence imply the same as correct-sentence?
syntactic_match: Are the guess-sentence and the correct-sentence syntactic similar?
logical_match: Are the guess-sentence and the correct-sentence logically similar?
valid_translation: Could the guess-sentence be the correct translation of the correct-sentence?
same_tense: Are the guess-sentence and the correct-sentence in the same tense?`

const systemPrompt = "You are a precise language teacher. Answer only with JSON matching the requested schema."

var (
	examplesTemplate     = template.Must(template.New("examples").Parse(examplesPrompt))
	verificationTemplate = template.Must(template.New("verification").Parse(verificationPrompt))
)

type examplesPromptData struct {
	Label          string
	SourceLanguage string
	TargetLanguage string
}

type verificationPromptData struct {
	Label                string
	ShownLanguage        string
	ReferenceLanguage    string
	Sentence             string
	ReferenceTranslation string
	Submitted            string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s prompt template: %w", t.Name(), err)
	}
	return buf.String(), nil
}
