// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. Defaults match the interactive prefix-removal behavior users
// expect: detect-all scanning, bracket filter, two-file minimum.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// DetectionMode selects how the scanner extracts candidate prefixes.
type DetectionMode string

const (
	ModeDetectAll DetectionMode = "detect-all" // Delimiter + separator + character candidates (default).
	ModeDelimited DetectionMode = "delimited"  // Only delimiter-bound prefixes like [Artist], (Draft).
	ModeSpecific  DetectionMode = "specific"   // Only the literal prefixes given via --prefix.
	ModeLongest   DetectionMode = "longest"    // Detect-all, retaining only pattern-matching prefixes.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DefaultFilterPattern is the prefix filter applied unless --regex or
// --no-filter overrides it. It matches bracket-delimited leading tokens
// such as "[Artist]".
const DefaultFilterPattern = `\[.*\]`

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Directories to process (positional args; --undo consumes the first
	// positional as an operation id instead).
	Directories []string

	// Detection settings.
	Mode           DetectionMode
	Prefixes       []string // Literal prefixes for "specific" mode.
	MinOccurrences int      // Default: 2.
	FilterPattern  string   // Default: DefaultFilterPattern. Overridden by --regex.
	NoFilter       bool     // --no-filter: accept all prefixes.

	// Action selection. Checked in order: CheckOnly, List, Undo, scan.
	Continuous bool
	Undo       bool
	UndoID     string // Empty means undo the most recent operation.
	List       bool
	CheckOnly  bool

	// Behavior flags.
	DryRun bool // Preview the old→new mapping; never touch the filesystem.

	// Operation store. Empty means [DefaultStorePath] is used.
	StorePath string

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied. Used as the base
// before [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		Mode:           ModeDetectAll,
		MinOccurrences: 2,
		FilterPattern:  DefaultFilterPattern,
		ColorMode:      ColorAuto,
	}
}

// DefaultStorePath returns the well-known operation store location,
// ~/.unprefix/renames.duckdb. The parent directory is not created here;
// the store does that on first open.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate home directory: %w", err)
	}
	return filepath.Join(home, ".unprefix", "renames.duckdb"), nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and cross-flag consistency. It does not touch
// the filesystem; directory existence is checked when each directory is
// actually scanned.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDetectAll, ModeDelimited, ModeSpecific, ModeLongest:
		// valid
	default:
		return errors.New("invalid mode (use 'detect-all', 'delimited', 'specific' or 'longest')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.MinOccurrences < 1 {
		return errors.New("minimum occurrences must be at least 1")
	}
	if c.Mode == ModeSpecific && len(c.Prefixes) == 0 {
		return errors.New("specific mode needs at least one --prefix")
	}
	if c.Mode != ModeSpecific && len(c.Prefixes) > 0 {
		return errors.New("--prefix only applies with --mode specific")
	}
	if c.Continuous && len(c.Directories) > 0 {
		return errors.New("continuous mode reads directories from stdin; drop the positional arguments")
	}
	return nil
}
