package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/backmassage/unprefix/internal/config"
	"github.com/backmassage/unprefix/internal/display"
	"github.com/backmassage/unprefix/internal/logging"
	"github.com/backmassage/unprefix/internal/prefix"
	"github.com/backmassage/unprefix/internal/rename"
	"github.com/backmassage/unprefix/internal/store"
)

// answer is the user's response to a group prompt. Decline and skip both
// leave the group untouched; they differ only in how the session reports
// them.
type answer int

const (
	answerYes answer = iota
	answerDecline
	answerSkip
)

// Session holds the shared pieces of one invocation. Store may be nil when
// the operation log could not be opened; renames then proceed without undo.
type Session struct {
	Cfg     *config.Config
	Log     *logging.Logger
	Store   *store.Store
	Out     io.Writer
	confirm *bufio.Reader
	now     func() time.Time
}

// New builds a session reading confirmations from confirmIn.
func New(cfg *config.Config, log *logging.Logger, st *store.Store, confirmIn io.Reader) *Session {
	return &Session{
		Cfg:     cfg,
		Log:     log,
		Store:   st,
		Out:     os.Stdout,
		confirm: bufio.NewReader(confirmIn),
		now:     time.Now,
	}
}

// Stats aggregates one batch of directories.
type Stats struct {
	Directories    int
	GroupsOffered  int
	GroupsRenamed  int
	GroupsDeclined int
	GroupsSkipped  int
	FilesRenamed   int
	FilesFailed    int
}

// ProcessDirectories scans each directory, offers the selected groups, and
// executes confirmed renames. A directory that cannot be scanned aborts the
// batch unless lenient is set, in which case it is reported and skipped.
func (s *Session) ProcessDirectories(ctx context.Context, dirs []string, lenient bool) (Stats, error) {
	var stats Stats
	// A bad filter pattern is fatal and surfaces before any directory is
	// read: no group must be renamed under a filter the user did not get.
	if s.usesFilter() {
		if _, err := prefix.CompileFilter(s.Cfg.FilterPattern); err != nil {
			return stats, err
		}
	}
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.processDirectory(ctx, dir, &stats); err != nil {
			var serr *prefix.ScanError
			if lenient && errors.As(err, &serr) {
				s.Log.Warn("%v, skipping", serr)
				continue
			}
			return stats, err
		}
		stats.Directories++
	}
	s.report(stats)
	return stats, nil
}

func (s *Session) processDirectory(ctx context.Context, dir string, stats *Stats) error {
	opts := s.scanOptions()
	groups, err := prefix.Scan(dir, opts)
	if err != nil {
		return err
	}
	selected, err := prefix.Select(groups, s.Cfg.FilterPattern, s.Cfg.NoFilter)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		s.Log.Info("no matching prefixes in %s", dir)
		return nil
	}

	for i := range selected {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.GroupsOffered++
		if err := s.offerGroup(ctx, dir, &selected[i], stats); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) offerGroup(ctx context.Context, dir string, g *prefix.Group, stats *Stats) error {
	plan := rename.BuildPlan(g)
	fmt.Fprint(s.Out, display.RenderPlan(&plan))
	if plan.Changed() == 0 {
		s.Log.Info("nothing to rename for %s", plan.Display)
		return nil
	}
	if s.Cfg.DryRun {
		s.Log.Info("dry run, %d files left untouched", plan.Changed())
		return nil
	}

	switch s.promptGroup(plan.Display) {
	case answerDecline:
		stats.GroupsDeclined++
		s.Log.Info("declined %s", plan.Display)
		return nil
	case answerSkip:
		stats.GroupsSkipped++
		s.Log.Info("skipped %s", plan.Display)
		return nil
	}

	res := rename.Execute(plan)
	fmt.Fprint(s.Out, display.RenderResult(&res))
	stats.FilesRenamed += res.Succeeded
	stats.FilesFailed += res.Failed
	if res.Succeeded > 0 {
		stats.GroupsRenamed++
		s.persist(ctx, dir, plan.Display, &res)
	}
	return nil
}

// promptGroup asks whether to apply the shown plan. Empty input means yes;
// anything unrecognized (and EOF) is treated as a decline.
func (s *Session) promptGroup(displayPrefix string) answer {
	fmt.Fprintf(s.Out, "Rename files with prefix %s? [Y/n/s]: ", displayPrefix)
	line, err := s.confirm.ReadString('\n')
	if err != nil && line == "" {
		return answerDecline
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return answerYes
	case "s", "skip":
		return answerSkip
	default:
		return answerDecline
	}
}

// persist records the successfully renamed files. Operations with zero
// successes never reach here. A failing store does not abort (the renames
// already happened) but is reported louder than a per-file failure: the
// batch has become unrecoverable via undo.
func (s *Session) persist(ctx context.Context, dir, displayPrefix string, res *rename.Result) {
	if s.Store == nil {
		s.Log.Error("operation log unavailable, undo will NOT work for this batch")
		return
	}
	now := s.now()
	op := &store.Operation{
		ID:         store.NewOperationID(now),
		Directory:  dir,
		Prefix:     displayPrefix,
		ExecutedAt: now,
	}
	for _, fr := range res.Files {
		if fr.Status == rename.StatusRenamed {
			op.Files = append(op.Files, store.FileRecord{
				OldPath: fr.OldPath,
				NewPath: fr.NewPath,
				Status:  store.StatusSucceeded,
			})
		}
	}
	if err := s.Store.Append(ctx, op); err != nil {
		s.Log.Error("could not record operation (%v), undo will NOT work for this batch", err)
		return
	}
	s.Log.Info("recorded operation %s (revert with --undo %s)", op.ID, op.ID)
}

func (s *Session) report(stats Stats) {
	if stats.FilesRenamed == 0 && stats.FilesFailed == 0 {
		return
	}
	s.Log.Success("%d files renamed across %d prefix groups (%d failed)",
		stats.FilesRenamed, stats.GroupsRenamed, stats.FilesFailed)
}

// usesFilter reports whether the configured flow will compile FilterPattern:
// selection filtering unless --no-filter, and always in longest-match mode.
func (s *Session) usesFilter() bool {
	return !s.Cfg.NoFilter || s.Cfg.Mode == config.ModeLongest
}

func (s *Session) scanOptions() prefix.Options {
	opts := prefix.Options{MinOccurrences: s.Cfg.MinOccurrences}
	switch s.Cfg.Mode {
	case config.ModeDelimited:
		opts.Mode = prefix.DelimiterOnly()
	case config.ModeSpecific:
		opts.Mode = prefix.SpecificPrefixes(s.Cfg.Prefixes...)
	case config.ModeLongest:
		opts.Mode = prefix.LongestMatch(s.Cfg.FilterPattern)
	default:
		opts.Mode = prefix.DetectAll()
	}
	return opts
}
