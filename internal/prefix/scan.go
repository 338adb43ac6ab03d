package prefix

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Scan lists dir (non-recursive) and returns one Group per detected prefix
// meeting opts.MinOccurrences, ordered by display prefix ascending. It does
// not resolve ties; that is [Select]'s job. Returns a *ScanError when the
// directory cannot be listed and an error when a LongestMatch pattern fails
// to compile.
func Scan(dir string, opts Options) ([]Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ScanError{Dir: dir, Err: err}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var groups []Group
	switch opts.Mode.Kind {
	case KindSpecificPrefixes:
		groups = scanSpecific(names, opts.Mode.Prefixes, opts.MinOccurrences)
	case KindDelimiterOnly:
		groups = scanDelimited(names, opts.Mode.Delimiters, opts.MinOccurrences)
	case KindDetectAll:
		groups = scanDetectAll(names, opts.Mode.Delimiters, opts.MinOccurrences)
	case KindLongestMatch:
		all := scanDetectAll(names, opts.Mode.Delimiters, opts.MinOccurrences)
		groups, err = retainMatching(all, opts.Mode.Pattern)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown detection mode %d", opts.Mode.Kind)
	}

	for i := range groups {
		for j, name := range groups[i].Paths {
			groups[i].Paths[j] = filepath.Join(dir, name)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Display() < groups[j].Display() })
	return groups, nil
}

// scanSpecific collects, per literal prefix, the files whose name starts
// with it.
func scanSpecific(names, prefixes []string, min int) []Group {
	var groups []Group
	for _, p := range prefixes {
		var files []string
		for _, name := range names {
			if strings.HasPrefix(name, p) {
				files = append(files, name)
			}
		}
		if len(files) >= min {
			groups = append(groups, Group{Prefix: p, Paths: files})
		}
	}
	return groups
}

// scanDelimited groups files by the substring bound by each declared
// delimiter pair at the start of the filename.
func scanDelimited(names []string, delims []Delimiter, min int) []Group {
	type key struct {
		prefix string
		delim  int
	}
	buckets := make(map[key][]string)
	for _, name := range names {
		for di, d := range delims {
			if inner, ok := extractDelimited(name, d); ok {
				k := key{inner, di}
				buckets[k] = append(buckets[k], name)
			}
		}
	}

	var groups []Group
	for k, files := range buckets {
		if len(files) >= min {
			d := delims[k.delim]
			groups = append(groups, Group{Prefix: k.prefix, Delimiter: &d, Paths: files})
		}
	}
	return groups
}

// extractDelimited returns the substring between d.Open at the start of the
// filename and the first following d.Close. Filenames that do not start
// with d.Open contribute no candidate, nor do empty inner substrings.
func extractDelimited(name string, d Delimiter) (string, bool) {
	if !strings.HasPrefix(name, d.Open) {
		return "", false
	}
	rest := name[len(d.Open):]
	end := strings.Index(rest, d.Close)
	if end <= 0 {
		return "", false
	}
	return rest[:end], true
}

// scanDetectAll combines delimiter-bound groups with free-form common
// leading substrings. Free-form candidates that duplicate a delimiter group
// or that are a shorter version of a longer kept prefix over the same files
// are pruned, so each file set is reported once under its longest shared
// prefix.
func scanDetectAll(names []string, delims []Delimiter, min int) []Group {
	delimited := scanDelimited(names, delims, min)

	buckets := make(map[string]map[string]bool)
	for _, name := range names {
		for _, cand := range prefixCandidates(name) {
			set := buckets[cand]
			if set == nil {
				set = make(map[string]bool)
				buckets[cand] = set
			}
			set[name] = true
		}
	}

	var free []Group
	for cand, set := range buckets {
		if len(set) < min {
			continue
		}
		if coveredByDelimited(set, delimited) {
			continue
		}
		files := make([]string, 0, len(set))
		for name := range set {
			files = append(files, name)
		}
		sort.Strings(files)
		free = append(free, Group{Prefix: cand, Paths: files})
	}

	return append(delimited, pruneSubsets(free)...)
}

// openDelimiterChars are the characters a free-form candidate must not end
// with; such candidates are partial delimiter matches.
const openDelimiterChars = `[({"'`

// prefixCandidates generates the free-form prefix candidates of one
// filename: separator-bounded joins and raw character prefixes, extension
// excluded.
func prefixCandidates(filename string) []string {
	name := filename
	if pos := strings.LastIndex(name, "."); pos >= 0 {
		name = name[:pos]
	}

	var candidates []string
	for _, sep := range []string{"_", "-", ".", " "} {
		parts := strings.Split(name, sep)
		if len(parts) < 2 {
			continue
		}
		for i := 1; i < len(parts); i++ {
			cand := strings.Join(parts[:i], sep)
			if cand == "" || strings.Contains(openDelimiterChars, cand[len(cand)-1:]) {
				continue
			}
			candidates = append(candidates, cand)
		}
	}

	// Character prefixes catch shared stems without separators. Single
	// runes are skipped to avoid noise; long names are capped. Slicing on
	// rune boundaries keeps multi-byte names from producing torn
	// candidates.
	runes := 0
	for i := range name {
		if runes >= 2 && runes < 20 {
			cand := name[:i]
			if !strings.Contains(openDelimiterChars, cand[len(cand)-1:]) {
				candidates = append(candidates, cand)
			}
		}
		runes++
	}
	return candidates
}

// coveredByDelimited reports whether every file of a free-form candidate is
// already claimed by some delimiter-bound group.
func coveredByDelimited(set map[string]bool, delimited []Group) bool {
	for _, g := range delimited {
		claimed := make(map[string]bool, len(g.Paths))
		for _, f := range g.Paths {
			claimed[f] = true
		}
		all := true
		for name := range set {
			if !claimed[name] {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// pruneSubsets keeps, among free-form groups, only the longest prefix for
// each covered file set: a candidate is dropped when a longer kept prefix
// extends it and claims all of its files.
func pruneSubsets(groups []Group) []Group {
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Prefix) != len(groups[j].Prefix) {
			return len(groups[i].Prefix) > len(groups[j].Prefix)
		}
		return groups[i].Occurrences() > groups[j].Occurrences()
	})

	var kept []Group
	for _, cand := range groups {
		redundant := false
		for i := range kept {
			if strings.HasPrefix(kept[i].Prefix, cand.Prefix) && containsAll(kept[i].Paths, cand.Paths) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, cand)
		}
	}
	return kept
}

// containsAll reports whether every element of sub is present in super.
func containsAll(super, sub []string) bool {
	set := make(map[string]bool, len(super))
	for _, s := range super {
		set[s] = true
	}
	for _, s := range sub {
		if !set[s] {
			return false
		}
	}
	return true
}

// retainMatching keeps groups whose display prefix matches pattern.
func retainMatching(groups []Group, pattern string) ([]Group, error) {
	re, err := CompileFilter(pattern)
	if err != nil {
		return nil, err
	}
	var kept []Group
	for _, g := range groups {
		if re.MatchString(g.Display()) {
			kept = append(kept, g)
		}
	}
	return kept, nil
}
