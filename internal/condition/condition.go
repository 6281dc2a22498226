package condition

import (
	"strings"

	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

// Pair constrains one parent to one value of its domain.
type Pair struct {
	Var   *network.Variable
	Value int // index into Var.Domain
}

// Label returns the value label of the pair.
func (p Pair) Label() string { return p.Var.Domain[p.Value] }

// Condition is one row key of a CPD: a pair per parent, in parent order.
type Condition []Pair

// String renders the condition as "Coin=Heads, Weather=Rain".
func (c Condition) String() string {
	if len(c) == 0 {
		return "(none)"
	}
	parts := make([]string, len(c))
	for i, p := range c {
		parts[i] = p.Var.Name + "=" + p.Label()
	}
	return strings.Join(parts, ", ")
}

// Labels returns the value labels of the condition in parent order.
func (c Condition) Labels() []string {
	out := make([]string, len(c))
	for i, p := range c {
		out[i] = p.Label()
	}
	return out
}
