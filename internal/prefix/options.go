package prefix

import (
	"fmt"
	"path/filepath"
)

// Delimiter is an (open, close) pair that can bind a prefix at the start of
// a filename, e.g. {"[", "]"} binds "[Artist]".
type Delimiter struct {
	Open  string
	Close string
}

// DefaultDelimiters are the pairs consulted by DetectAll and by
// DelimiterOnly when the caller declares none.
var DefaultDelimiters = []Delimiter{
	{"(", ")"},
	{"[", "]"},
	{"{", "}"},
	{`"`, `"`},
	{"'", "'"},
}

// ModeKind discriminates the detection mode variants.
type ModeKind int

const (
	KindDetectAll ModeKind = iota
	KindDelimiterOnly
	KindSpecificPrefixes
	KindLongestMatch
)

// Mode is a tagged detection-mode variant. Only the fields of the active
// Kind are consulted.
type Mode struct {
	Kind       ModeKind
	Delimiters []Delimiter // DelimiterOnly, DetectAll, LongestMatch.
	Prefixes   []string    // SpecificPrefixes.
	Pattern    string      // LongestMatch: regex a display prefix must match.
}

// DetectAll matches delimiter-bound and free-form common prefixes.
func DetectAll() Mode {
	return Mode{Kind: KindDetectAll, Delimiters: DefaultDelimiters}
}

// DelimiterOnly matches only prefixes bound by the given pairs
// (DefaultDelimiters when none are given).
func DelimiterOnly(delims ...Delimiter) Mode {
	if len(delims) == 0 {
		delims = DefaultDelimiters
	}
	return Mode{Kind: KindDelimiterOnly, Delimiters: delims}
}

// SpecificPrefixes matches only the given literal prefixes.
func SpecificPrefixes(prefixes ...string) Mode {
	return Mode{Kind: KindSpecificPrefixes, Prefixes: prefixes}
}

// LongestMatch behaves like DetectAll but retains only prefixes whose
// display form matches pattern.
func LongestMatch(pattern string) Mode {
	return Mode{Kind: KindLongestMatch, Delimiters: DefaultDelimiters, Pattern: pattern}
}

// Options carries the scan parameters: the detection mode and the minimum
// number of files that must share a prefix before it becomes a candidate.
type Options struct {
	Mode           Mode
	MinOccurrences int
}

// DefaultOptions returns DetectAll with a two-file minimum.
func DefaultOptions() Options {
	return Options{Mode: DetectAll(), MinOccurrences: 2}
}

// Group is one detected prefix and the files sharing it. Paths are full
// paths in scanner order (filename-sorted). Every path's base name begins
// with the prefix under the mode's matching rule.
type Group struct {
	Prefix    string
	Delimiter *Delimiter // Non-nil when the prefix is delimiter-bound.
	Paths     []string
}

// Occurrences is the number of files sharing the prefix.
func (g *Group) Occurrences() int { return len(g.Paths) }

// Display returns the prefix as it appears in filenames: delimiter-bound
// prefixes include their delimiters ("[Artist]"), literal and free-form
// prefixes are returned as-is.
func (g *Group) Display() string {
	if g.Delimiter != nil {
		return g.Delimiter.Open + g.Prefix + g.Delimiter.Close
	}
	return g.Prefix
}

// ScanError reports a directory that could not be listed: it does not
// exist, is not a directory, or is unreadable. It is fatal for the
// invocation that triggered the scan.
type ScanError struct {
	Dir string
	Err error
}

func (e *ScanError) Error() string { return fmt.Sprintf("cannot scan %s: %v", e.Dir, e.Err) }

func (e *ScanError) Unwrap() error { return e.Err }

// baseNames returns the base filenames of a group's paths.
func (g *Group) baseNames() []string {
	names := make([]string, len(g.Paths))
	for i, p := range g.Paths {
		names[i] = filepath.Base(p)
	}
	return names
}
