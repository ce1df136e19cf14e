// Package task runs background work outside the request path.
//
// Tasks are persisted before they are queued so that a restart can recover
// them. Persisted records are turned back into executable tasks by the
// Factory registered for their type. Word enrichment and the daily
// verification cache sweep are the two jobs the game relies on.
package task
