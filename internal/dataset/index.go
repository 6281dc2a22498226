package dataset

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

// AnyValue in Query.Value counts records holding any value of the variable.
const AnyValue = -1

// Query asks how many records have Var = Value (or any value of Var) and
// satisfy every pair in Given.
type Query struct {
	Var   *network.Variable
	Value int
	Given condition.Condition
}

// Index maps every (variable, value) to the set of records holding it.
// It is read-only after Build and safe for concurrent queries.
type Index struct {
	n    int
	sets [][]*bitset.BitSet // [variable ID][value index]
	any  []*bitset.BitSet   // [variable ID], union of sets[id]
}

// Build validates t against g and indexes it in one pass. Every column bound
// to a variable must be in the header and every present value must belong to
// the variable's domain.
func Build(t *Table, g *network.Graph) (*Index, error) {
	if t.Len() == 0 {
		return nil, &DataError{Msg: "dataset is empty"}
	}
	vars := g.Variables()
	for _, v := range vars {
		if !t.HasColumn(v.Column) {
			return nil, &DataError{Column: v.Column, Msg: fmt.Sprintf("column for node '%s' not found in header", v.Name)}
		}
	}

	ix := &Index{
		n:    t.Len(),
		sets: make([][]*bitset.BitSet, len(vars)),
		any:  make([]*bitset.BitSet, len(vars)),
	}
	for _, v := range vars {
		ix.sets[v.ID] = make([]*bitset.BitSet, v.Cardinality())
		for j := range ix.sets[v.ID] {
			ix.sets[v.ID][j] = bitset.New(uint(ix.n))
		}
	}

	for r, rec := range t.Records {
		for _, v := range vars {
			val, ok := rec[v.Column]
			if !ok {
				continue
			}
			j, ok := v.ValueIndex(val)
			if !ok {
				return nil, &DataError{
					Row:    r + 1,
					Column: v.Column,
					Msg:    fmt.Sprintf("value %q is not in the domain of node '%s' [%s]", val, v.Name, strings.Join(v.Domain, ", ")),
					Record: rec,
				}
			}
			ix.sets[v.ID][j].Set(uint(r))
		}
	}

	for _, v := range vars {
		all := bitset.New(uint(ix.n))
		for _, s := range ix.sets[v.ID] {
			all.InPlaceUnion(s)
		}
		ix.any[v.ID] = all
	}
	return ix, nil
}

// Len returns the number of indexed records.
func (ix *Index) Len() int { return ix.n }

// Count answers q by intersecting precomputed sets. Raw records are never
// scanned.
func (ix *Index) Count(q Query) int {
	var base *bitset.BitSet
	if q.Value == AnyValue {
		base = ix.any[q.Var.ID]
	} else {
		base = ix.sets[q.Var.ID][q.Value]
	}
	switch len(q.Given) {
	case 0:
		return int(base.Count())
	case 1:
		p := q.Given[0]
		return int(base.IntersectionCardinality(ix.sets[p.Var.ID][p.Value]))
	}
	acc := base.Clone()
	for _, p := range q.Given {
		acc.InPlaceIntersection(ix.sets[p.Var.ID][p.Value])
	}
	return int(acc.Count())
}
