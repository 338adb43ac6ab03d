package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatchProcessesBatchOnEOF(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "y\n")

	input := strings.NewReader(dir + "\n")
	if err := s.Watch(context.Background(), input); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if !exists(filepath.Join(dir, "a.txt")) {
		t.Error("file not renamed from watched input")
	}
	if n, _ := st.Count(context.Background()); n != 1 {
		t.Errorf("stored operations = %d, want 1", n)
	}
}

func TestWatchFlushesAfterQuietPeriod(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "[X] a.txt", "[X] b.txt")

	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "y\n")

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- s.Watch(context.Background(), pr) }()

	fmt.Fprintln(pw, dir)

	// The batch must be processed while the input is still open: only the
	// quiet-period timer can trigger that.
	renamed := filepath.Join(dir, "a.txt")
	deadline := time.Now().Add(5 * time.Second)
	for !exists(renamed) && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if !exists(renamed) {
		t.Error("batch not flushed while input stayed open")
	}

	pw.Close()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}

func TestWatchIgnoresNonPathLines(t *testing.T) {
	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "")

	input := strings.NewReader("processing complete\nall ok\n")
	if err := s.Watch(context.Background(), input); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("stored operations = %d, want 0", n)
	}
}

func TestWatchSkipsMissingDirectories(t *testing.T) {
	good := t.TempDir()
	writeFiles(t, good, "[X] a.txt", "[X] b.txt")
	bad := filepath.Join(t.TempDir(), "gone")

	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "y\n")

	input := strings.NewReader(bad + "\n" + good + "\n")
	if err := s.Watch(context.Background(), input); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if !exists(filepath.Join(good, "a.txt")) {
		t.Error("good directory not processed after bad one")
	}
}

func TestWatchSkipsFilePaths(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "plain.txt")

	cfg := testConfig()
	s, st, _ := newTestSession(t, &cfg, "")

	input := strings.NewReader(filepath.Join(dir, "plain.txt") + "\n")
	if err := s.Watch(context.Background(), input); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if n, _ := st.Count(context.Background()); n != 0 {
		t.Errorf("stored operations = %d, want 0", n)
	}
	if !exists(filepath.Join(dir, "plain.txt")) {
		t.Error("file path input caused a rename")
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "")

	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, pr) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancel")
	}
}

func TestWatchHandlesWindowsStylePathsInText(t *testing.T) {
	// Windows drive paths in the text are extracted but will not exist on
	// the test host; they must be skipped without error.
	cfg := testConfig()
	s, _, _ := newTestSession(t, &cfg, "")

	input := strings.NewReader(`wrote C:\Users\test\out` + "\n")
	if err := s.Watch(context.Background(), input); err != nil {
		t.Fatalf("Watch: %v", err)
	}
}
