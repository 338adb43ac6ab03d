// Command unprefix detects shared filename prefixes in directories and
// strips them in confirmed, reversible bulk renames.
//
// It parses flags, validates configuration, and dispatches to diagnostics
// (--check), history (--list), undo (--undo), the stdin watch loop
// (--continuous), or the one-shot scan of the given directories.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/unprefix/internal/check"
	"github.com/backmassage/unprefix/internal/config"
	"github.com/backmassage/unprefix/internal/display"
	"github.com/backmassage/unprefix/internal/logging"
	"github.com/backmassage/unprefix/internal/prefix"
	"github.com/backmassage/unprefix/internal/session"
	"github.com/backmassage/unprefix/internal/store"
	"github.com/backmassage/unprefix/internal/term"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "unprefix: %v\n", err)
		return 1
	}
	if cfg.StorePath == "" {
		p, err := config.DefaultStorePath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "unprefix: %v\n", err)
			return 1
		}
		cfg.StorePath = p
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "unprefix: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unprefix: %v\n", err)
		return 1
	}
	defer log.Close()

	// An unusable --regex aborts here, before the store directory is
	// created or anything is scanned.
	if !cfg.NoFilter || cfg.Mode == config.ModeLongest {
		if _, err := prefix.CompileFilter(cfg.FilterPattern); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Phase 2: Signal handling — cancel the context on SIGINT/SIGTERM so
	// scans and the watch loop stop between files, never mid-rename.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Interrupt received, stopping…")
		cancel()
	}()

	if cfg.CheckOnly {
		check.RunCheck(ctx, &cfg, log)
		return 0
	}

	// Phase 3: Operation store. History flows need it; the rename flows
	// degrade to working without undo when it cannot be opened.
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		if cfg.List || cfg.Undo {
			log.Error("%v", err)
			return 1
		}
		log.Warn("operation log unavailable (%v), undo disabled", err)
		st = nil
	}
	if st != nil {
		defer st.Close()
	}

	s := session.New(&cfg, log, st, confirmReader(&cfg, log))

	// Phase 4: Dispatch.
	switch {
	case cfg.List:
		if err := s.ListRecent(ctx); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0

	case cfg.Undo:
		if err := s.Undo(ctx, cfg.UndoID); err != nil {
			log.Error("%v", err)
			return 1
		}
		return 0

	case cfg.Continuous:
		display.PrintBanner()
		log.Info("Watching stdin for directory paths (ctrl-c to stop)")
		if err := s.Watch(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("%v", err)
			return 1
		}
		return 0

	default:
		display.PrintBanner()
		dirs := cfg.Directories
		if len(dirs) == 0 {
			dirs = []string{"."}
		}
		if cfg.DryRun {
			log.Warn("DRY RUN — no files will be renamed")
		}
		// Partial per-file failures are reported inline and do not fail
		// the invocation; only fatal errors do.
		if _, err := s.ProcessDirectories(ctx, dirs, false); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("%v", err)
			return 1
		}
		return 0
	}
}

// confirmReader picks where confirmations come from. When stdin carries
// piped data (watch mode, or a non-terminal stdin) prompts read from the
// controlling terminal instead, so input lines are not consumed as answers.
func confirmReader(cfg *config.Config, log *logging.Logger) io.Reader {
	if cfg.Continuous || !term.IsTerminal(os.Stdin) {
		if tty, err := os.Open("/dev/tty"); err == nil {
			return tty
		}
		if cfg.Continuous {
			log.Warn("no controlling terminal, confirmations will consume stdin lines")
		}
	}
	return os.Stdin
}
