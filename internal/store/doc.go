// Package store persists executed rename operations in an embedded DuckDB
// database so they can be listed and undone across invocations.
//
// Each operation row carries the directory, the stripped prefix, and an
// execution timestamp; its files live in a child table keyed by operation id
// and application order. Undo never deletes: it stamps undone_at and keeps
// the rows, so history stays complete.
package store
