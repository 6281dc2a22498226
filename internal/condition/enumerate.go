package condition

import (
	"math"

	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

// Complexity is the number of conditions of a node with the given parents,
// the product of the parents' domain sizes. It saturates at math.MaxInt64.
func Complexity(parents []*network.Variable) int64 {
	n := int64(1)
	for _, p := range parents {
		c := int64(p.Cardinality())
		if c != 0 && n > math.MaxInt64/c {
			return math.MaxInt64
		}
		n *= c
	}
	return n
}

// Enumerator walks the cartesian product of the parents' domains as an
// odometer: the last parent varies fastest. A node without parents yields
// exactly one empty condition.
type Enumerator struct {
	parents []*network.Variable
	digits  []int
	started bool
	done    bool
}

// Enumerate returns an enumerator positioned before the first condition.
func Enumerate(parents []*network.Variable) *Enumerator {
	return &Enumerator{
		parents: parents,
		digits:  make([]int, len(parents)),
	}
}

// Next returns the next condition. The returned slice is owned by the caller.
func (e *Enumerator) Next() (Condition, bool) {
	if e.done {
		return nil, false
	}
	if e.started {
		if !e.advance() {
			e.done = true
			return nil, false
		}
	}
	e.started = true

	c := make(Condition, len(e.parents))
	for i, p := range e.parents {
		c[i] = Pair{Var: p, Value: e.digits[i]}
	}
	return c, true
}

func (e *Enumerator) advance() bool {
	for i := len(e.digits) - 1; i >= 0; i-- {
		e.digits[i]++
		if e.digits[i] < e.parents[i].Cardinality() {
			return true
		}
		e.digits[i] = 0
	}
	return false
}

// All collects every condition. Use Enumerate for large products.
func All(parents []*network.Variable) []Condition {
	var out []Condition
	e := Enumerate(parents)
	for c, ok := e.Next(); ok; c, ok = e.Next() {
		out = append(out, c)
	}
	return out
}
