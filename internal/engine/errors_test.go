package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
	"github.com/gyaneshwarpardhi/bayesnet/internal/prob"
)

func TestConsistencyError_CarriesRow(t *testing.T) {
	a := &network.Variable{Name: "A", Domain: []string{"a0", "a1"}}
	row := prob.Row{decimal.RequireFromString("0.6"), decimal.RequireFromString("0.5")}
	_, cause := prob.Correct(row)
	err := &ConsistencyError{
		Node:      "C",
		Condition: condition.Condition{{Var: a, Value: 1}},
		Row:       row,
		Err:       cause,
	}

	assert.True(t, errors.Is(err, prob.ErrExcessMass))
	assert.Contains(t, err.Error(), "node 'C'")
	assert.Contains(t, err.Error(), "A=a1")
	assert.Contains(t, err.Error(), "row [0.6000000000000000 0.5000000000000000]")
}
