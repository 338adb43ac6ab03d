// Package prefix detects shared naming prefixes among the files of a single
// directory and computes the stripped names a rename would produce.
//
// Detection is driven by a tagged [Mode] value; each variant's matching rule
// is a pure function over filenames:
//
//   - DelimiterOnly: prefixes bound by declared (open, close) pairs at the
//     start of the filename, e.g. "[Artist]" or "(Draft)".
//   - SpecificPrefixes: literal prefixes given by the caller.
//   - DetectAll: delimiter-bound prefixes plus separator- and
//     character-derived common leading substrings, with subset pruning so
//     only the longest common prefix of a file set survives.
//   - LongestMatch: DetectAll, retaining only prefixes whose display form
//     matches a pattern (default: a bracket-delimited leading token).
//
// [Scan] output is always ordered by display prefix, ascending, for stable
// output and testability. [Select] applies the optional filter pattern and
// returns every group tied at the maximum occurrence count.
package prefix
