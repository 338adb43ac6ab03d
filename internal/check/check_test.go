package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/unprefix/internal/config"
)

// memLog collects log lines for assertions.
type memLog struct{ lines []string }

func (m *memLog) record(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}

func (m *memLog) Info(f string, a ...interface{})    { m.record("INFO", f, a...) }
func (m *memLog) Success(f string, a ...interface{}) { m.record("SUCCESS", f, a...) }
func (m *memLog) Warn(f string, a ...interface{})    { m.record("WARN", f, a...) }
func (m *memLog) Error(f string, a ...interface{})   { m.record("ERROR", f, a...) }
func (m *memLog) Debug(v bool, f string, a ...interface{}) {
	if v {
		m.record("DEBUG", f, a...)
	}
}

func (m *memLog) contains(sub string) bool {
	for _, l := range m.lines {
		if strings.Contains(l, sub) {
			return true
		}
	}
	return false
}

func TestRunCheckHealthyStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.StorePath = filepath.Join(t.TempDir(), "renames.duckdb")

	var log memLog
	RunCheck(context.Background(), &cfg, &log)

	if !log.contains("store reachable") {
		t.Errorf("missing store health line: %v", log.lines)
	}
	if !log.contains("0 recorded operations") {
		t.Errorf("missing operation count: %v", log.lines)
	}
}

func TestRunCheckUnopenableStore(t *testing.T) {
	// A regular file where the parent directory should be makes the store
	// impossible to open.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.StorePath = filepath.Join(blocker, "renames.duckdb")

	var log memLog
	RunCheck(context.Background(), &cfg, &log)

	if !log.contains("could not open store") {
		t.Errorf("missing open failure line: %v", log.lines)
	}
}
