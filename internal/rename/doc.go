// Package rename turns a detected prefix group into a concrete rename plan
// and applies it file by file.
//
// Planning and execution are separate so a plan can be shown (and confirmed
// or dry-run) before anything touches the filesystem. Execution is
// per-file: one failing rename is recorded and the rest proceed, so a batch
// can partially succeed. [ExecuteUndo] reverses a previously applied plan in
// reverse order with the same per-file independence.
package rename
