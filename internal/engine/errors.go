package engine

import (
	"fmt"
	"strings"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/prob"
)

// ConsistencyError reports a CPD row that could not be made to sum to
// exactly 1. It indicates a defect, never bad input.
type ConsistencyError struct {
	Node      string
	Condition condition.Condition
	Row       prob.Row // values before correction
	Err       error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency error: node '%s', condition %s, row [%s]: %v",
		e.Node, e.Condition, strings.Join(e.Row.Strings(), " "), e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }
