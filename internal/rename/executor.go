package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileStatus is the per-file outcome of an executed plan.
type FileStatus int

const (
	StatusRenamed FileStatus = iota
	StatusSkipped            // Unchanged mapping; nothing to do.
	StatusFailed
)

// FailReason classifies why a single rename failed.
type FailReason string

const (
	ReasonNotFound     FailReason = "not found"
	ReasonTargetExists FailReason = "target exists"
	ReasonPermission   FailReason = "permission denied"
)

// RenameError is a single file's rename failure. Failures never abort the
// batch; they are collected per file.
type RenameError struct {
	OldPath string
	NewPath string
	Reason  FailReason
	Err     error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("rename %s -> %s: %s", e.OldPath, e.NewPath, e.Reason)
}

func (e *RenameError) Unwrap() error { return e.Err }

// FileResult pairs a mapping with its outcome.
type FileResult struct {
	Mapping
	Status FileStatus
	Err    *RenameError // Set when Status is StatusFailed.
}

// Result is the outcome of one executed plan.
type Result struct {
	Files     []FileResult
	Succeeded int
	Failed    int
	Skipped   int
}

// Execute applies a plan one file at a time. Each mapping is pre-checked
// (source present, target free) before the rename syscall, so the common
// failure causes get a precise reason instead of a raw errno. Unchanged
// mappings are skipped; conflicting mappings fail as target-exists without
// being attempted, the same outcome a target occupied on disk gets.
func Execute(plan Plan) Result {
	var res Result
	for _, m := range plan.Mappings {
		fr := FileResult{Mapping: m}
		switch {
		case m.Unchanged:
			fr.Status = StatusSkipped
			res.Skipped++
		case m.Conflict:
			fr.Status = StatusFailed
			fr.Err = &RenameError{OldPath: m.OldPath, NewPath: m.NewPath, Reason: ReasonTargetExists}
			res.Failed++
		default:
			if err := renameOne(m.OldPath, m.NewPath); err != nil {
				fr.Status = StatusFailed
				fr.Err = err
				res.Failed++
			} else {
				fr.Status = StatusRenamed
				res.Succeeded++
			}
		}
		res.Files = append(res.Files, fr)
	}
	return res
}

func renameOne(oldPath, newPath string) *RenameError {
	if _, err := os.Lstat(oldPath); err != nil {
		return &RenameError{OldPath: oldPath, NewPath: newPath, Reason: ReasonNotFound, Err: err}
	}
	if _, err := os.Lstat(newPath); err == nil {
		return &RenameError{OldPath: oldPath, NewPath: newPath, Reason: ReasonTargetExists}
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return &RenameError{OldPath: oldPath, NewPath: newPath, Reason: classify(err), Err: err}
	}
	return nil
}

// classify maps a rename syscall error to a reason. The pre-checks make
// these rare; anything racing past them lands here.
func classify(err error) FailReason {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ReasonNotFound
	case errors.Is(err, fs.ErrExist):
		return ReasonTargetExists
	default:
		return ReasonPermission
	}
}
