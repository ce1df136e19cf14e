// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the game and listening services, so rating arithmetic, question building
// and answer verification stay independent of any database technology.
package store
