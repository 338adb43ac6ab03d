package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/unprefix/internal/config"
	"github.com/backmassage/unprefix/internal/logging"
	"github.com/backmassage/unprefix/internal/prefix"
	"github.com/backmassage/unprefix/internal/store"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	return cfg
}

func newTestSession(t *testing.T, cfg *config.Config, input string) (*Session, *store.Store, *bytes.Buffer) {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Open(filepath.Join(t.TempDir(), "renames.duckdb"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	s := New(cfg, log, st, strings.NewReader(input))
	var out bytes.Buffer
	s.Out = &out
	return s, st, &out
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestProcessDirectoriesRenamesOnConfirm(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, st, out := newTestSession(t, &cfg, "y\n")

	stats, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesRenamed != 2 || stats.GroupsRenamed != 1 {
		t.Errorf("stats = %+v, want 2 files / 1 group", stats)
	}
	if !exists(filepath.Join(dir, "a.txt")) || !exists(filepath.Join(dir, "b.txt")) {
		t.Error("files not renamed")
	}
	if !strings.Contains(out.String(), "Rename files with prefix [X]?") {
		t.Errorf("prompt missing:\n%s", out.String())
	}

	n, err := st.Count(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("stored operations = %d, want 1", n)
	}
}

func TestEmptyInputDefaultsToYes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "\n")

	stats, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesRenamed != 2 {
		t.Errorf("FilesRenamed = %d, want 2", stats.FilesRenamed)
	}
}

func TestDeclineLeavesFilesAlone(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "n\n")

	stats, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesRenamed != 0 {
		t.Errorf("FilesRenamed = %d, want 0", stats.FilesRenamed)
	}
	if !exists(filepath.Join(dir, "[X] a.txt")) {
		t.Error("declined file was renamed")
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("stored operations = %d, want 0", n)
	}
}

func TestSkipAffectsOnlyOneGroup(t *testing.T) {
	dir := t.TempDir()
	// Two groups tied at two files each; skipping the first must still
	// offer the second.
	writeFiles(t, dir, "[A] 1.txt", "[A] 2.txt", "[B] 1.txt", "[B] 2.txt")

	cfg := testConfig()
	s, _, out := newTestSession(t, &cfg, "s\ny\n")

	stats, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.GroupsSkipped != 1 || stats.GroupsRenamed != 1 {
		t.Errorf("stats = %+v, want 1 skipped / 1 renamed", stats)
	}
	if !exists(filepath.Join(dir, "[A] 1.txt")) {
		t.Error("skipped group was renamed")
	}
	if !exists(filepath.Join(dir, "1.txt")) {
		t.Error("confirmed group was not renamed")
	}
	if !strings.Contains(out.String(), "prefix [B]?") {
		t.Errorf("second group was not offered:\n%s", out.String())
	}
}

func TestDryRunNeverTouchesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	cfg.DryRun = true
	s, st, out := newTestSession(t, &cfg, "") // No input needed: dry run never prompts.

	stats, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesRenamed != 0 {
		t.Errorf("FilesRenamed = %d, want 0", stats.FilesRenamed)
	}
	if !exists(filepath.Join(dir, "[X] a.txt")) {
		t.Error("dry run renamed a file")
	}
	if !strings.Contains(out.String(), "[X] a.txt -> a.txt") {
		t.Errorf("dry run did not show the mapping:\n%s", out.String())
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("stored operations = %d, want 0", n)
	}
}

func TestZeroSuccessNotPersisted(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")
	// Occupy both targets so every rename fails.
	writeFiles(t, dir, "a.txt", "b.txt")

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "y\n")

	stats, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesFailed != 2 || stats.FilesRenamed != 0 {
		t.Errorf("stats = %+v, want 0 renamed / 2 failed", stats)
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("stored operations = %d, want 0 (nothing succeeded)", n)
	}
}

func TestPartialSuccessPersistsOnlyRenamedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")
	writeFiles(t, dir, "b.txt") // Blocks one of the two renames.

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "y\n")

	ctx := context.Background()
	stats, err := s.ProcessDirectories(ctx, []string{dir}, false)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesRenamed != 1 || stats.FilesFailed != 1 {
		t.Fatalf("stats = %+v, want 1 renamed / 1 failed", stats)
	}

	ops, err := st.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 {
		t.Fatalf("stored operations = %d, want 1", len(ops))
	}
	if len(ops[0].Files) != 1 {
		t.Errorf("stored files = %d, want only the successful rename", len(ops[0].Files))
	}
}

func TestBadFilterPatternIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	cfg.FilterPattern = `[`
	s, _, _ := newTestSession(t, &cfg, "y\n")

	_, err := s.ProcessDirectories(context.Background(), []string{dir}, false)
	if err == nil {
		t.Fatal("expected error for invalid filter pattern")
	}
}

func TestBadFilterPatternReportedBeforeScanning(t *testing.T) {
	// With a bad pattern AND a missing directory the pattern error must win:
	// it is checked before any directory is read.
	cfg := testConfig()
	cfg.FilterPattern = `[`
	s, _, _ := newTestSession(t, &cfg, "")

	bad := filepath.Join(t.TempDir(), "nope")
	_, err := s.ProcessDirectories(context.Background(), []string{bad}, false)
	var ferr *prefix.FilterError
	if !errors.As(err, &ferr) {
		t.Fatalf("err = %v (%T), want *prefix.FilterError", err, err)
	}
}

func TestRescanAfterRenameFindsNothing(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "y\n")
	if _, err := s.ProcessDirectories(context.Background(), []string{dir}, false); err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}

	// The stripped names carry no shared prefix, so a second run over the
	// same directory has nothing to offer.
	groups, err := prefix.Scan(dir, prefix.DefaultOptions())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	selected, err := prefix.Select(groups, cfg.FilterPattern, cfg.NoFilter)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 0 {
		t.Errorf("second scan still selects %d groups: %+v", len(selected), selected)
	}
}

func TestUndoRestoresMostRecent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "y\ny\n") // Confirm rename, then confirm undo.

	ctx := context.Background()
	if _, err := s.ProcessDirectories(ctx, []string{dir}, false); err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if err := s.Undo(ctx, ""); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !exists(filepath.Join(dir, "[X] a.txt")) || !exists(filepath.Join(dir, "[X] b.txt")) {
		t.Error("files not restored")
	}

	ops, err := st.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 1 || !ops[0].Undone() {
		t.Errorf("operation not marked undone: %+v", ops)
	}
}

func TestUndoDefaultIsNo(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "y\n\n") // Confirm rename; empty answer to undo.

	ctx := context.Background()
	if _, err := s.ProcessDirectories(ctx, []string{dir}, false); err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if err := s.Undo(ctx, ""); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if !exists(filepath.Join(dir, "a.txt")) {
		t.Error("undo ran despite default-no answer")
	}
	ops, _ := st.List(ctx, 10)
	if len(ops) != 1 || ops[0].Undone() {
		t.Error("operation marked undone without confirmation")
	}
}

func TestUndoUnknownID(t *testing.T) {
	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "")
	err := s.Undo(context.Background(), "op_0_missing")
	if err == nil || !strings.Contains(err.Error(), "no operation with id") {
		t.Fatalf("err = %v, want unknown-id error", err)
	}
}

func TestListRecentEmpty(t *testing.T) {
	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "")
	if err := s.ListRecent(context.Background()); err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
}

func TestMissingDirectoryFatalInBatchMode(t *testing.T) {
	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "")
	_, err := s.ProcessDirectories(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, false)
	if err == nil {
		t.Fatal("expected scan error for missing directory")
	}
}

func TestMissingDirectorySkippedWhenLenient(t *testing.T) {
	good := t.TempDir()
	writeFiles(t, good, "[X] a.txt", "[X] b.txt")
	bad := filepath.Join(t.TempDir(), "nope")

	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "y\n")

	stats, err := s.ProcessDirectories(context.Background(), []string{bad, good}, true)
	if err != nil {
		t.Fatalf("ProcessDirectories: %v", err)
	}
	if stats.FilesRenamed != 2 {
		t.Errorf("FilesRenamed = %d, want 2 (good directory still processed)", stats.FilesRenamed)
	}
}
