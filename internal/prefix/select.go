package prefix

import (
	"fmt"
	"regexp"
)

// FilterError reports a filter pattern that failed to compile. It is fatal:
// a bad pattern means the user's intent cannot be honored, so no fallback
// selection is attempted.
type FilterError struct {
	Pattern string
	Err     error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter pattern %q: %v", e.Pattern, e.Err)
}

func (e *FilterError) Unwrap() error { return e.Err }

// CompileFilter compiles a filter pattern, wrapping a compile failure in a
// *FilterError. Callers that will eventually filter should compile up front,
// before touching the filesystem, so a bad pattern aborts with nothing
// scanned or renamed.
func CompileFilter(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &FilterError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Select narrows scanned groups to the ones worth offering: groups whose
// display prefix matches pattern (all groups when noFilter is set), then
// among those every group tied at the maximum occurrence count. Scan order
// is preserved, so the result stays sorted by display prefix.
func Select(groups []Group, pattern string, noFilter bool) ([]Group, error) {
	candidates := groups
	if !noFilter {
		re, err := CompileFilter(pattern)
		if err != nil {
			return nil, err
		}
		candidates = nil
		for _, g := range groups {
			if re.MatchString(g.Display()) {
				candidates = append(candidates, g)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	max := 0
	for _, g := range candidates {
		if g.Occurrences() > max {
			max = g.Occurrences()
		}
	}
	var selected []Group
	for _, g := range candidates {
		if g.Occurrences() == max {
			selected = append(selected, g)
		}
	}
	return selected, nil
}
