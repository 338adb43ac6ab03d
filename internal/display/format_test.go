package display

import (
	"strings"
	"testing"
	"time"

	"github.com/backmassage/unprefix/internal/config"
	"github.com/backmassage/unprefix/internal/rename"
	"github.com/backmassage/unprefix/internal/store"
	"github.com/backmassage/unprefix/internal/term"
)

func plainColors(t *testing.T) {
	t.Helper()
	term.Configure(config.ColorNever)
}

func TestRenderPlan(t *testing.T) {
	plainColors(t)
	p := &rename.Plan{
		Display: "[X]",
		Mappings: []rename.Mapping{
			{OldPath: "/d/[X] a.txt", NewPath: "/d/a.txt"},
			{OldPath: "/d/[X] b.txt", NewPath: "/d/[X] b.txt", Unchanged: true},
			{OldPath: "/d/[X]_a.txt", NewPath: "/d/a.txt", Conflict: true},
		},
	}
	out := RenderPlan(p)
	for _, want := range []string{
		"Prefix [X] (3 files):",
		"[X] a.txt -> a.txt",
		"(unchanged)",
		"(target taken)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResultListsFailures(t *testing.T) {
	plainColors(t)
	res := &rename.Result{
		Succeeded: 1,
		Failed:    1,
		Files: []rename.FileResult{
			{Mapping: rename.Mapping{OldPath: "/d/[X] a.txt"}, Status: rename.StatusRenamed},
			{
				Mapping: rename.Mapping{OldPath: "/d/[X] b.txt", NewPath: "/d/b.txt"},
				Status:  rename.StatusFailed,
				Err: &rename.RenameError{
					OldPath: "/d/[X] b.txt",
					NewPath: "/d/b.txt",
					Reason:  rename.ReasonTargetExists,
				},
			},
		},
	}
	out := RenderResult(res)
	if !strings.Contains(out, "1 renamed, 1 failed") {
		t.Errorf("missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "target exists") {
		t.Errorf("missing failure reason:\n%s", out)
	}
}

func TestRenderOperation(t *testing.T) {
	plainColors(t)
	undoneAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	op := &store.Operation{
		ID:         "op_1_abcd1234",
		Directory:  "/music",
		Prefix:     "[Live]",
		ExecutedAt: time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC),
		UndoneAt:   &undoneAt,
		Files: []store.FileRecord{
			{OldPath: "/music/[Live] a.flac", NewPath: "/music/a.flac"},
			{OldPath: "/music/[Live] b.flac", NewPath: "/music/b.flac"},
			{OldPath: "/music/[Live] c.flac", NewPath: "/music/c.flac"},
			{OldPath: "/music/[Live] d.flac", NewPath: "/music/d.flac"},
		},
	}
	out := RenderOperation(op)
	for _, want := range []string{
		"op_1_abcd1234",
		"(undone 2026-08-20 10:00)",
		"stripped [Live] from 4 files",
		"... and 1 more",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "d.flac") {
		t.Errorf("sample limit not applied:\n%s", out)
	}
}

func TestRenderUndoPreviewReversesMapping(t *testing.T) {
	plainColors(t)
	op := &store.Operation{
		ID:        "op_2_ef",
		Directory: "/music",
		Prefix:    "[Live]",
		Files: []store.FileRecord{
			{OldPath: "/music/[Live] a.flac", NewPath: "/music/a.flac"},
		},
	}
	out := RenderUndoPreview(op)
	if !strings.Contains(out, "a.flac -> [Live] a.flac") {
		t.Errorf("mapping not reversed:\n%s", out)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{3 * 1024 * 1024, "3.0 MiB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
