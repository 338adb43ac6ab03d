// Package pathextract pulls filesystem paths out of free-form text, such as
// lines pasted into a watch session or piped in from another tool.
package pathextract

import (
	"regexp"
	"sort"
	"strings"
)

// pathRegex matches Unix absolute paths, ./ and ../ relative paths, Windows
// drive-letter paths, and UNC paths, each bounded by whitespace, quotes, or
// line edges.
var pathRegex = regexp.MustCompile(`(?:^|[\s"'])` +
	`(` +
	`/(?:[^/\s"']+/)*[^/\s"']+` + // Unix absolute
	`|\.\.?/(?:[^/\s"']+/)*[^/\s"']+` + // ./ or ../ relative
	`|[A-Za-z]:\\(?:[^\\/:*?"<>|\s]+\\)*[^\\/:*?"<>|\s]+` + // drive letter
	`|\\\\[^\\/:*?"<>|\s]+\\[^\\/:*?"<>|\s]+(?:\\[^\\/:*?"<>|\s]+)*` + // UNC
	`)`)

// FromText extracts every path-looking token from text, drops paths that
// are parents of another extracted path, and returns the survivors sorted.
func FromText(text string) []string {
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		for _, m := range pathRegex.FindAllStringSubmatch(line, -1) {
			if m[1] != "" {
				seen[m[1]] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	return Deduplicate(paths)
}

// Deduplicate removes every path that is a strict parent of another path in
// the set, then sorts the remainder. When both /a and /a/b are present only
// /a/b survives; sibling paths are untouched.
func Deduplicate(paths []string) []string {
	sort.Slice(paths, func(i, j int) bool { return len(paths[i]) > len(paths[j]) })

	var result []string
	for _, p := range paths {
		sub := false
		for _, kept := range result {
			if isParentOf(p, kept) {
				sub = true
				break
			}
		}
		if !sub {
			result = append(result, p)
		}
	}
	sort.Strings(result)
	return result
}

// isParentOf reports whether p is a strict ancestor directory of other,
// comparing with separators normalized so Windows and Unix spellings of the
// same path match.
func isParentOf(p, other string) bool {
	np := normalize(p)
	no := normalize(other)
	if np == no {
		return false
	}
	if !strings.HasPrefix(no, np) {
		return false
	}
	rest := no[len(np):]
	return strings.HasPrefix(rest, "/")
}

func normalize(p string) string {
	return strings.TrimRight(strings.ReplaceAll(p, `\`, "/"), "/")
}
