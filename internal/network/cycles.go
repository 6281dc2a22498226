package network

import "strings"

// CycleError reports a directed cycle. Path is the walk that discovered it,
// ending with the node that closed the loop.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "directed cycle: " + strings.Join(e.Path, " -> ")
}

// FindCycle returns the first directed cycle found, or nil. Every variable is
// tried as an entry point in registry order so cycles unreachable from a
// root are still caught. Subtrees proven acyclic are cleared and never
// walked again.
func (g *Graph) FindCycle() *CycleError {
	cleared := make([]bool, len(g.vars))
	for _, v := range g.vars {
		if path := walk(v, nil, cleared); path != nil {
			return &CycleError{Path: path}
		}
	}
	return nil
}

// walk descends from v. path holds the current branch only; each level gets
// its own copy so siblings never observe each other's visits.
func walk(v *Variable, path []*Variable, cleared []bool) []string {
	if cleared[v.ID] {
		return nil
	}
	for _, p := range path {
		if p == v {
			names := make([]string, 0, len(path)+1)
			for _, q := range path {
				names = append(names, q.Name)
			}
			return append(names, v.Name)
		}
	}

	branch := make([]*Variable, len(path)+1)
	copy(branch, path)
	branch[len(path)] = v

	for _, c := range v.children {
		if found := walk(c, branch, cleared); found != nil {
			return found
		}
	}
	cleared[v.ID] = true
	return nil
}
