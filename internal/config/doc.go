// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to server, database, AI provider, speech synthesis and game settings
// while keeping configuration details separate from game logic.
package config
