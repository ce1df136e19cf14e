// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is missing or malformed.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required text is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrRatingOutOfRange is returned when a rating is negative or above MaxRating.
	ErrRatingOutOfRange = errors.New("rating out of range")

	// ErrExampleNotFound is returned when a word does not carry the requested example.
	ErrExampleNotFound = errors.New("example not found on word")
)
