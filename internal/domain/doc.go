// Package domain contains the core vocabulary entities of the application:
// learnable words with their examples and cached pronunciations, per-user
// progress on those words, and verification verdicts produced while grading
// free-text answers. It is independent of storage and transport concerns.
package domain
