package rename

import (
	"path/filepath"

	"github.com/backmassage/unprefix/internal/prefix"
)

// Mapping is one planned rename. Unchanged marks files whose name does not
// carry the prefix (or would become empty); Conflict marks files whose
// target name is already claimed by an earlier mapping in the same plan.
type Mapping struct {
	OldPath   string
	NewPath   string
	Unchanged bool
	Conflict  bool
}

// Plan is the set of mappings produced for one group in one directory.
type Plan struct {
	Display  string // The prefix as shown to the user.
	Mappings []Mapping
}

// Changed counts mappings that would actually rename a file.
func (p *Plan) Changed() int {
	n := 0
	for _, m := range p.Mappings {
		if !m.Unchanged && !m.Conflict {
			n++
		}
	}
	return n
}

// BuildPlan maps every file of the group to its stripped name. Targets are
// claimed first-come: a later file stripping to an already-claimed name is
// marked Conflict and left alone rather than silently overwriting.
func BuildPlan(g *prefix.Group) Plan {
	display := g.Display()
	stripped := g.StrippedNames()

	owners := make(map[string]bool, len(g.Paths))
	mappings := make([]Mapping, 0, len(g.Paths))
	for i, old := range g.Paths {
		newPath := filepath.Join(filepath.Dir(old), stripped[i])
		m := Mapping{OldPath: old, NewPath: newPath}
		switch {
		case newPath == old:
			m.Unchanged = true
			owners[newPath] = true
		case owners[newPath]:
			m.Conflict = true
		default:
			owners[newPath] = true
		}
		mappings = append(mappings, m)
	}
	return Plan{Display: display, Mappings: mappings}
}
