// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in internal/store and internal/task, together with the
// embedded goose migrations that create the schema they rely on.
package postgres
