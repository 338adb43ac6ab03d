// Package check provides environment diagnostics (--check mode): operation
// store health, its location and size, and terminal capabilities.
package check

import (
	"context"
	"os"

	"github.com/backmassage/unprefix/internal/config"
	"github.com/backmassage/unprefix/internal/display"
	"github.com/backmassage/unprefix/internal/store"
	"github.com/backmassage/unprefix/internal/term"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: opens the operation store,
// verifies it answers queries, and reports its size and contents. This is
// informational only, it does not stop on failure.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) {
	log.Info("=== Environment Check ===")

	checkStore(ctx, cfg, log)
	checkTerminal(log)
}

func checkStore(ctx context.Context, cfg *config.Config, log Logger) {
	log.Info("Operation store: %s", cfg.StorePath)

	s, err := store.Open(cfg.StorePath)
	if err != nil {
		log.Error("could not open store: %v", err)
		return
	}
	defer s.Close()

	if err := s.TestConnection(ctx); err != nil {
		log.Error("store does not answer queries: %v", err)
		return
	}
	log.Success("store reachable")

	if fi, err := os.Stat(cfg.StorePath); err == nil {
		log.Info("  size: %s, modified %s",
			display.FormatBytes(fi.Size()),
			fi.ModTime().Format("2006-01-02 15:04:05"))
	}
	n, err := s.Count(ctx)
	if err != nil {
		log.Warn("could not count operations: %v", err)
		return
	}
	log.Info("  %d recorded operations", n)
}

func checkTerminal(log Logger) {
	if term.IsTerminal(os.Stdout) {
		log.Success("stdout is a terminal")
	} else {
		log.Info("stdout is not a terminal (colors off unless --color always)")
	}
	if _, err := os.Stat("/dev/tty"); err == nil {
		log.Info("controlling terminal available for confirmations")
	} else {
		log.Warn("no controlling terminal, piped runs cannot prompt")
	}
}
