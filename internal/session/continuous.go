package session

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/backmassage/unprefix/internal/pathextract"
)

// debounceQuiet is how long the input must stay silent before a pending
// batch of lines is processed. Piped producers emit bursts of lines; the
// quiet period lets a whole burst land in one batch.
const debounceQuiet = 200 * time.Millisecond

// Watch consumes lines from input until it closes or ctx is cancelled.
// Lines are buffered and flushed after a quiet period: every line restarts
// the timer, so a burst is handled as one batch. Each flush extracts
// directory paths from the buffered text and runs the usual scan/confirm
// flow on them; unscannable directories are reported and skipped so a
// long-running watch survives bad input.
func (s *Session) Watch(ctx context.Context, input io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(input)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			s.Log.Warn("input error: %v", err)
		}
	}()

	timer := time.NewTimer(debounceQuiet)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false
	var batch []string

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		text := strings.Join(batch, "\n")
		batch = batch[:0]
		return s.processBatch(ctx, text)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if armed && !timer.Stop() {
					<-timer.C
				}
				return flush()
			}
			batch = append(batch, line)
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(debounceQuiet)
			armed = true
		case <-timer.C:
			armed = false
			if err := flush(); err != nil {
				return err
			}
		}
	}
}

func (s *Session) processBatch(ctx context.Context, text string) error {
	dirs := s.batchDirs(text)
	if len(dirs) == 0 {
		s.Log.Debug(s.Cfg.Verbose, "no directories in batch")
		return nil
	}
	_, err := s.ProcessDirectories(ctx, dirs, true)
	return err
}

// batchDirs extracts path tokens from the batch text and keeps the ones
// that are directories on disk.
func (s *Session) batchDirs(text string) []string {
	var dirs []string
	for _, p := range pathextract.FromText(text) {
		fi, err := os.Stat(p)
		switch {
		case err != nil:
			s.Log.Warn("%s does not exist, skipping", p)
		case !fi.IsDir():
			s.Log.Debug(s.Cfg.Verbose, "%s is not a directory, skipping", p)
		default:
			dirs = append(dirs, p)
		}
	}
	return dirs
}
