// Package generation holds the AI text use cases of the game: generating
// example sentences for a word and judging a learner's free-text sentence
// translation. Both are expressed as interfaces so the game can run against
// fakes, with implementations backed by an llm.Provider that returns
// schema-validated JSON.
package generation
