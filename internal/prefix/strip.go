package prefix

import "strings"

// Strip removes displayPrefix from the front of filename, then trims the
// spaces and underscores that separated the prefix from the rest of the
// name. Filenames that do not start with the prefix are returned unchanged,
// as are filenames that would become empty after stripping.
func Strip(filename, displayPrefix string) string {
	if !strings.HasPrefix(filename, displayPrefix) {
		return filename
	}
	stripped := strings.TrimLeft(filename[len(displayPrefix):], " _")
	if stripped == "" {
		return filename
	}
	return stripped
}

// StrippedNames returns, in path order, the new base name of each file in
// the group. Entries already free of the prefix map to themselves.
func (g *Group) StrippedNames() []string {
	display := g.Display()
	names := g.baseNames()
	for i, name := range names {
		names[i] = Strip(name, display)
	}
	return names
}
