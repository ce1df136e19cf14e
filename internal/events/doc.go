// Package events decouples request handling from background work.
//
// The game service emits a TaskRequestEvent when a question had to be served
// at a lower tier because a word lacked examples or audio. Handlers registered
// for the event type turn it into a persisted background task, so the request
// path never waits on enrichment it did not need.
package events
