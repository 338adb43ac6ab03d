package rename

import (
	"fmt"
	"os"
)

// UndoReason classifies why a single file could not be restored.
type UndoReason string

const (
	UndoNotFound     UndoReason = "renamed file not found"
	UndoTargetExists UndoReason = "original name occupied"
	UndoFailed       UndoReason = "rename failed"
)

// UndoError is a single file's restore failure.
type UndoError struct {
	NewPath string
	OldPath string
	Reason  UndoReason
	Err     error
}

func (e *UndoError) Error() string {
	return fmt.Sprintf("restore %s -> %s: %s", e.NewPath, e.OldPath, e.Reason)
}

func (e *UndoError) Unwrap() error { return e.Err }

// UndoFileResult is the outcome of restoring one file.
type UndoFileResult struct {
	OldPath  string
	NewPath  string
	Restored bool
	Err      *UndoError // Set when Restored is false.
}

// UndoResult is the outcome of one undo pass.
type UndoResult struct {
	Files    []UndoFileResult
	Restored int
	Failed   int
}

// ExecuteUndo restores the files of a recorded operation: each mapping's
// NewPath is renamed back to its OldPath, in reverse application order.
// Like [Execute], failures are per-file: a file missing from its renamed
// location or an occupied original name is recorded and the rest of the
// batch still runs.
func ExecuteUndo(mappings []Mapping) UndoResult {
	var res UndoResult
	for i := len(mappings) - 1; i >= 0; i-- {
		m := mappings[i]
		fr := UndoFileResult{OldPath: m.OldPath, NewPath: m.NewPath}
		if err := undoOne(m.NewPath, m.OldPath); err != nil {
			fr.Err = err
			res.Failed++
		} else {
			fr.Restored = true
			res.Restored++
		}
		res.Files = append(res.Files, fr)
	}
	return res
}

func undoOne(newPath, oldPath string) *UndoError {
	if _, err := os.Lstat(newPath); err != nil {
		return &UndoError{NewPath: newPath, OldPath: oldPath, Reason: UndoNotFound, Err: err}
	}
	if _, err := os.Lstat(oldPath); err == nil {
		return &UndoError{NewPath: newPath, OldPath: oldPath, Reason: UndoTargetExists}
	}
	if err := os.Rename(newPath, oldPath); err != nil {
		return &UndoError{NewPath: newPath, OldPath: oldPath, Reason: UndoFailed, Err: err}
	}
	return nil
}
