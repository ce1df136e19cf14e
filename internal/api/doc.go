// Package api is the HTTP transport adapter of the game. It authenticates
// the chat transport, turns JSON requests into game turns and listening
// requests and renders the results back as JSON.
package api
