// Package auth issues and validates the bearer tokens the chat transport
// presents on every request. A token binds a user to one chat, and the chat
// identifier doubles as the game session identifier.
package auth
