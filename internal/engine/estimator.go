package engine

import (
	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/dataset"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
	"github.com/gyaneshwarpardhi/bayesnet/internal/prob"
)

type estimator struct {
	index     *dataset.Index
	threshold int
}

type rowEstimate struct {
	row      prob.Row
	fallback bool
	uniform  int // single-parent contributions replaced by the uniform row
}

// estimate fills one CPD row: the direct frequency when more than threshold
// records match the condition, the single-parent average otherwise.
func (es *estimator) estimate(v *network.Variable, c condition.Condition) (rowEstimate, error) {
	var est rowEstimate
	denom := es.index.Count(dataset.Query{Var: v, Value: dataset.AnyValue, Given: c})
	if denom > es.threshold {
		est.row = make(prob.Row, v.Cardinality())
		for i := range v.Domain {
			n := es.index.Count(dataset.Query{Var: v, Value: i, Given: c})
			est.row[i] = prob.Ratio(int64(n), int64(denom))
		}
	} else {
		est.fallback = true
		est.row, est.uniform = es.fallback(v, c)
	}

	fixed, err := prob.Correct(est.row)
	if err != nil {
		return est, &ConsistencyError{Node: v.Name, Condition: c, Row: est.row, Err: err}
	}
	est.row = fixed
	return est, nil
}

// fallback averages, over the parents, the distribution of v given that
// parent's value alone. A parent whose marginal is itself at or below the
// threshold contributes the uniform row. A root has nothing to average and
// gets the uniform row.
func (es *estimator) fallback(v *network.Variable, c condition.Condition) (prob.Row, int) {
	if len(c) == 0 {
		return prob.Average([]prob.Fraction{prob.Uniform(v.Cardinality())}), 0
	}
	uniform := 0
	contributions := make([]prob.Fraction, 0, len(c))
	for _, p := range c {
		single := condition.Condition{p}
		denom := es.index.Count(dataset.Query{Var: v, Value: dataset.AnyValue, Given: single})
		if denom <= es.threshold {
			contributions = append(contributions, prob.Uniform(v.Cardinality()))
			uniform++
			continue
		}
		f := prob.Fraction{Num: make([]int64, v.Cardinality()), Den: int64(denom)}
		for i := range v.Domain {
			f.Num[i] = int64(es.index.Count(dataset.Query{Var: v, Value: i, Given: single}))
		}
		contributions = append(contributions, f)
	}
	return prob.Average(contributions), uniform
}
