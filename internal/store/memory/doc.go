// Package memory provides mutex-guarded in-memory implementations of the
// store interfaces. They back service tests and the database-free "memory"
// storage mode used for local runs.
package memory
