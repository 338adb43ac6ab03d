package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/backmassage/unprefix/internal/display"
	"github.com/backmassage/unprefix/internal/rename"
	"github.com/backmassage/unprefix/internal/store"
)

// listLimit caps how many operations the history listing shows.
const listLimit = 20

// ListRecent prints the most recent operations, newest first.
func (s *Session) ListRecent(ctx context.Context) error {
	if s.Store == nil {
		return errors.New("operation log unavailable")
	}
	ops, err := s.Store.List(ctx, listLimit)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		s.Log.Info("no recorded operations")
		return nil
	}
	for _, op := range ops {
		fmt.Fprint(s.Out, display.RenderOperation(op))
	}
	return nil
}

// Undo restores a recorded operation: the one with the given id, or the
// most recent not-yet-undone operation when id is empty. The operation is
// shown and must be confirmed (default no) before anything is renamed.
func (s *Session) Undo(ctx context.Context, id string) error {
	if s.Store == nil {
		return errors.New("operation log unavailable")
	}

	var op *store.Operation
	var err error
	if id == "" {
		op, err = s.Store.MostRecent(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return errors.New("nothing to undo")
		}
	} else {
		op, err = s.Store.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no operation with id %s", id)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprint(s.Out, display.RenderUndoPreview(op))
	if op.Undone() {
		s.Log.Warn("operation %s was already undone, files are likely gone from their renamed locations", op.ID)
	}
	if !s.promptUndo(op.ID) {
		s.Log.Info("undo cancelled")
		return nil
	}

	mappings := make([]rename.Mapping, len(op.Files))
	for i, f := range op.Files {
		mappings[i] = rename.Mapping{OldPath: f.OldPath, NewPath: f.NewPath}
	}
	res := rename.ExecuteUndo(mappings)
	fmt.Fprint(s.Out, display.RenderUndoResult(&res))

	// Only a pass that actually moved something flips the marker; an undo
	// where every file was missing leaves the record as-is.
	if res.Restored > 0 && !op.Undone() {
		if err := s.Store.MarkUndone(ctx, op.ID, s.now()); err != nil {
			s.Log.Warn("files restored but operation %s could not be marked undone: %v", op.ID, err)
		}
	}
	if res.Failed > 0 {
		s.Log.Warn("%d of %d files could not be restored", res.Failed, len(op.Files))
	}
	return nil
}

// promptUndo asks for confirmation before restoring. Unlike the rename
// prompt this defaults to no: undo moves files the user may have touched
// since.
func (s *Session) promptUndo(id string) bool {
	fmt.Fprintf(s.Out, "Undo operation %s? [y/N]: ", id)
	line, err := s.confirm.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
