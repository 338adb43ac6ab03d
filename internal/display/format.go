// Package display renders groups, plans, results, and stored operations for
// the terminal. Styling honors the resolved color mode: when colors are off
// every renderer degrades to plain text.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/backmassage/unprefix/internal/rename"
	"github.com/backmassage/unprefix/internal/store"
	"github.com/backmassage/unprefix/internal/term"
)

var (
	prefixStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	oldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func styled(s lipgloss.Style, text string) string {
	if !term.Enabled() {
		return text
	}
	return s.Render(text)
}

// RenderPlan shows a plan as the user will confirm it: a header naming the
// prefix and file count, then one old -> new line per file.
func RenderPlan(p *rename.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Prefix %s (%d files):\n", styled(prefixStyle, p.Display), len(p.Mappings))
	for _, m := range p.Mappings {
		old := baseOf(m.OldPath)
		switch {
		case m.Unchanged:
			fmt.Fprintf(&b, "  %s %s\n", styled(dimStyle, old), styled(dimStyle, "(unchanged)"))
		case m.Conflict:
			fmt.Fprintf(&b, "  %s %s\n", styled(oldStyle, old), styled(warnStyle, "(target taken)"))
		default:
			fmt.Fprintf(&b, "  %s -> %s\n", styled(oldStyle, old), styled(newStyle, baseOf(m.NewPath)))
		}
	}
	return b.String()
}

// RenderResult summarizes one executed plan, listing failures with their
// reasons.
func RenderResult(res *rename.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s renamed, %s failed, %s skipped\n",
		styled(newStyle, fmt.Sprintf("%d", res.Succeeded)),
		styled(oldStyle, fmt.Sprintf("%d", res.Failed)),
		styled(dimStyle, fmt.Sprintf("%d", res.Skipped)))
	for _, fr := range res.Files {
		if fr.Status == rename.StatusFailed {
			fmt.Fprintf(&b, "  %s: %s\n", styled(oldStyle, baseOf(fr.OldPath)), fr.Err.Reason)
		}
	}
	return b.String()
}

// RenderOperation shows one stored operation for the history listing: id,
// timestamp, directory, prefix, and a sample of the renamed files. Undone
// operations carry a marker.
func RenderOperation(op *store.Operation) string {
	const sampleLimit = 3

	var b strings.Builder
	marker := ""
	if op.Undone() {
		marker = " " + styled(warnStyle, "(undone "+op.UndoneAt.Format("2006-01-02 15:04")+")")
	}
	fmt.Fprintf(&b, "%s  %s%s\n",
		styled(prefixStyle, op.ID),
		op.ExecutedAt.Format("2006-01-02 15:04:05"),
		marker)
	fmt.Fprintf(&b, "  %s: stripped %s from %d files\n",
		op.Directory, styled(prefixStyle, op.Prefix), len(op.Files))
	for i, f := range op.Files {
		if i == sampleLimit {
			fmt.Fprintf(&b, "    %s\n", styled(dimStyle, fmt.Sprintf("... and %d more", len(op.Files)-sampleLimit)))
			break
		}
		fmt.Fprintf(&b, "    %s -> %s\n", styled(oldStyle, baseOf(f.OldPath)), styled(newStyle, baseOf(f.NewPath)))
	}
	return b.String()
}

// RenderUndoPreview shows the full reverse mapping of an operation, the
// direction the undo will move files, before anything is confirmed.
func RenderUndoPreview(op *store.Operation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Undo %s: restore %s onto %d files in %s\n",
		styled(prefixStyle, op.ID), styled(prefixStyle, op.Prefix), len(op.Files), op.Directory)
	if op.Undone() {
		fmt.Fprintf(&b, "  %s\n", styled(warnStyle, "already undone "+op.UndoneAt.Format("2006-01-02 15:04")))
	}
	for _, f := range op.Files {
		fmt.Fprintf(&b, "  %s -> %s\n", styled(oldStyle, baseOf(f.NewPath)), styled(newStyle, baseOf(f.OldPath)))
	}
	return b.String()
}

// RenderUndoResult summarizes a restore pass.
func RenderUndoResult(res *rename.UndoResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s restored, %s failed\n",
		styled(newStyle, fmt.Sprintf("%d", res.Restored)),
		styled(oldStyle, fmt.Sprintf("%d", res.Failed)))
	for _, fr := range res.Files {
		if fr.Err != nil {
			fmt.Fprintf(&b, "  %s: %s\n", styled(oldStyle, baseOf(fr.NewPath)), fr.Err.Reason)
		}
	}
	return b.String()
}

func baseOf(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 && i < len(path)-1 {
		return path[i+1:]
	}
	return path
}
