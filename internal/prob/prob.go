// Package prob implements fixed-precision probability rows: every value is a
// decimal with at most Precision fractional digits, floored on creation, and
// a finished row sums to exactly 1.
package prob

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional decimal digits kept.
const Precision = 16

var (
	one  = decimal.NewFromInt(1)
	unit = decimal.New(1, -Precision)
)

var (
	ErrExcessMass = errors.New("row sums to more than 1")
	ErrNoSupport  = errors.New("row has no non-zero entry to carry missing mass")
	ErrPrecision  = errors.New("row exceeds fixed precision")
)

// Row is one probability per domain value, in domain order.
type Row []decimal.Decimal

// Sum adds the entries exactly.
func (r Row) Sum() decimal.Decimal {
	s := decimal.Zero
	for _, d := range r {
		s = s.Add(d)
	}
	return s
}

// SumsToOne reports whether the row sums to exactly 1.
func (r Row) SumsToOne() bool { return r.Sum().Equal(one) }

// Strings renders each entry with exactly Precision fractional digits.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, d := range r {
		out[i] = d.StringFixed(Precision)
	}
	return out
}

// Ratio returns num/den floored to Precision digits. den must be positive.
func Ratio(num, den int64) decimal.Decimal {
	q, _ := decimal.NewFromInt(num).QuoRem(decimal.NewFromInt(den), Precision)
	return q
}

// Fraction is a row of rationals sharing one denominator:
// entry v is Num[v]/Den.
type Fraction struct {
	Num []int64
	Den int64
}

// Uniform is the fraction row 1/n for every one of n values.
func Uniform(n int) Fraction {
	num := make([]int64, n)
	for i := range num {
		num[i] = 1
	}
	return Fraction{Num: num, Den: int64(n)}
}

// Average returns the unweighted elementwise mean of the fraction rows,
// computed exactly over a common denominator and floored once at the end.
// All rows must have the same length.
func Average(rows []Fraction) Row {
	if len(rows) == 0 {
		return nil
	}
	k := len(rows)

	// others[i] is the product of every denominator except rows[i].Den
	others := make([]decimal.Decimal, k)
	total := decimal.NewFromInt(int64(k))
	for i := range rows {
		p := one
		for j, r := range rows {
			if j != i {
				p = p.Mul(decimal.NewFromInt(r.Den))
			}
		}
		others[i] = p
		total = total.Mul(decimal.NewFromInt(rows[i].Den))
	}
	out := make(Row, len(rows[0].Num))
	for v := range out {
		n := decimal.Zero
		for i, r := range rows {
			n = n.Add(decimal.NewFromInt(r.Num[v]).Mul(others[i]))
		}
		out[v], _ = n.QuoRem(total, Precision)
	}
	return out
}

// Correct distributes the mass a floored row lacks, in units of 10^-16,
// round-robin over the non-zero entries in domain order. Zero entries stay
// zero. The input row is not modified.
func Correct(r Row) (Row, error) {
	missing := one.Sub(r.Sum()).Shift(Precision)
	if !missing.IsInteger() {
		return nil, fmt.Errorf("%w: sum %s", ErrPrecision, r.Sum().String())
	}
	if missing.IsNegative() {
		return nil, fmt.Errorf("%w: sum %s", ErrExcessMass, r.Sum().String())
	}

	out := make(Row, len(r))
	copy(out, r)
	units := missing.IntPart()
	if units == 0 {
		return out, nil
	}

	var support []int
	for i, d := range r {
		if !d.IsZero() {
			support = append(support, i)
		}
	}
	if len(support) == 0 {
		return nil, fmt.Errorf("%w: %d units owed", ErrNoSupport, units)
	}

	m := int64(len(support))
	base, extra := units/m, units%m
	for pos, i := range support {
		add := base
		if int64(pos) < extra {
			add++
		}
		out[i] = out[i].Add(unit.Mul(decimal.NewFromInt(add)))
	}

	if !out.SumsToOne() {
		return nil, fmt.Errorf("corrected row sums to %s", out.Sum().String())
	}
	return out, nil
}
