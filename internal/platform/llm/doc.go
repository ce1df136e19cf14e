// Package llm abstracts the AI text providers used to generate example
// sentences and to judge free-text translations.
//
// Providers return JSON that has already been validated against the
// request's schema. Retry and logging are decorators so every provider
// behaves the same way toward callers.
package llm
