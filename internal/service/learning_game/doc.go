// Package learning_game runs the adaptive vocabulary game: it keeps one
// pending question per chat session, evaluates the learner's answer, moves
// the word rating and immediately builds the next question.
//
// The single entry point is Service.HandleTurn. A session evaluates at most
// one answer at a time; a concurrent turn is rejected rather than queued.
package learning_game
