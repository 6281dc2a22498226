package dataset

import (
	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

// ValuePair is a value of the first and second variable of a Compatibility.
type ValuePair struct {
	A, B int
}

// Compatibility lists the value combinations of two variables that never
// occur together in the dataset.
type Compatibility struct {
	A, B    *network.Variable
	Missing []ValuePair
}

// Compatible reports whether every value combination was observed.
func (c Compatibility) Compatible() bool { return len(c.Missing) == 0 }

// Compat checks every pair of distinct variables, in registry order, for
// value combinations observed zero times.
func Compat(ix *Index, g *network.Graph) []Compatibility {
	vars := g.Variables()
	var out []Compatibility
	for i, a := range vars {
		for _, b := range vars[i+1:] {
			c := Compatibility{A: a, B: b}
			for va := range a.Domain {
				for vb := range b.Domain {
					n := ix.Count(Query{
						Var:   a,
						Value: va,
						Given: condition.Condition{{Var: b, Value: vb}},
					})
					if n == 0 {
						c.Missing = append(c.Missing, ValuePair{A: va, B: vb})
					}
				}
			}
			out = append(out, c)
		}
	}
	return out
}
