package engine

import (
	"math"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

// LargeTableWarning is the condition count above which a run logs a warning
// for the node before estimating it.
const LargeTableWarning = 10000

// NodePlan is the precomputed size of one node's CPD.
type NodePlan struct {
	Var        *network.Variable
	Conditions int64 // number of rows, saturating at math.MaxInt64
	Cells      int64 // rows times domain size, saturating
}

// Plan computes the CPD size of every node in registry order.
func Plan(g *network.Graph) []NodePlan {
	vars := g.Variables()
	plans := make([]NodePlan, len(vars))
	for i, v := range vars {
		n := condition.Complexity(v.Parents())
		cells := n * int64(v.Cardinality())
		if n != 0 && cells/n != int64(v.Cardinality()) {
			cells = math.MaxInt64
		}
		plans[i] = NodePlan{Var: v, Conditions: n, Cells: cells}
	}
	return plans
}
