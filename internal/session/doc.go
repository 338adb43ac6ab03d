// Package session drives the interactive flows: scanning directories,
// offering detected prefix groups for confirmation, executing confirmed
// renames, recording them, and the list/undo history flows.
//
// Confirmation input is an injected io.Reader so the flows are scriptable in
// tests and so a watch session can read confirmations from the controlling
// terminal while batch lines arrive on stdin.
package session
