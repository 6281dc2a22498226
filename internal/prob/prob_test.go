package prob

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(vals ...string) Row {
	r := make(Row, len(vals))
	for i, v := range vals {
		r[i] = decimal.RequireFromString(v)
	}
	return r
}

func TestRatio_Floors(t *testing.T) {
	assert.Equal(t, "0.6666666666666666", Ratio(4, 6).StringFixed(Precision))
	assert.Equal(t, "0.3333333333333333", Ratio(2, 6).StringFixed(Precision))
	assert.Equal(t, "1.0000000000000000", Ratio(7, 7).StringFixed(Precision))
	assert.Equal(t, "0.0000000000000000", Ratio(0, 3).StringFixed(Precision))
}

func TestCorrect_Coin(t *testing.T) {
	r := Row{Ratio(4, 6), Ratio(2, 6)}
	assert.False(t, r.SumsToOne())

	got, err := Correct(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.6666666666666667", "0.3333333333333333"}, got.Strings())
	assert.True(t, got.SumsToOne())
	// input untouched
	assert.Equal(t, "0.6666666666666666", r[0].StringFixed(Precision))
}

func TestCorrect_RoundRobinSkipsZeros(t *testing.T) {
	// seven floored sevenths lose four units; a zero entry sits among them
	s := Ratio(1, 7)
	r := Row{s, s, decimal.Zero, s, s, s, s, s}
	got, err := Correct(r)
	require.NoError(t, err)
	assert.True(t, got.SumsToOne())
	assert.Equal(t, []string{
		"0.1428571428571429", "0.1428571428571429", "0.0000000000000000",
		"0.1428571428571429", "0.1428571428571429", "0.1428571428571428",
		"0.1428571428571428", "0.1428571428571428",
	}, got.Strings())
}

func TestCorrect_Wraps(t *testing.T) {
	// three entries owed five units: two full passes plus two more
	r := row("0.1000000000000000", "0.2000000000000000", "0.6999999999999995")
	got, err := Correct(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.1000000000000002", "0.2000000000000002", "0.6999999999999996"}, got.Strings())
}

func TestCorrect_AlreadyExact(t *testing.T) {
	r := row("0.25", "0.75")
	got, err := Correct(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.2500000000000000", "0.7500000000000000"}, got.Strings())
}

func TestCorrect_Errors(t *testing.T) {
	_, err := Correct(row("0.6", "0.5"))
	assert.True(t, errors.Is(err, ErrExcessMass))

	_, err = Correct(row("0", "0"))
	assert.True(t, errors.Is(err, ErrNoSupport))

	_, err = Correct(row("0.5", "0.49999999999999999"))
	assert.True(t, errors.Is(err, ErrPrecision))
}

func TestAverage_Exact(t *testing.T) {
	// (1/3 + 1/2) / 2 = 5/12 and (2/3 + 1/2) / 2 = 7/12
	got := Average([]Fraction{
		{Num: []int64{1, 2}, Den: 3},
		{Num: []int64{1, 1}, Den: 2},
	})
	assert.Equal(t, []string{"0.4166666666666666", "0.5833333333333333"}, got.Strings())

	fixed, err := Correct(got)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.4166666666666667", "0.5833333333333333"}, fixed.Strings())
}

func TestAverage_NoIntermediateRounding(t *testing.T) {
	// 2/3, 1/4, 4/6, 4/6 average to exactly 9/16; summing rounded quotients
	// first would leave a stray unit in the last digit
	got := Average([]Fraction{
		{Num: []int64{2, 1}, Den: 3},
		{Num: []int64{1, 3}, Den: 4},
		{Num: []int64{4, 2}, Den: 6},
		{Num: []int64{4, 2}, Den: 6},
	})
	assert.Equal(t, []string{"0.5625000000000000", "0.4375000000000000"}, got.Strings())

	fixed, err := Correct(got)
	require.NoError(t, err)
	assert.Equal(t, got.Strings(), fixed.Strings())
}

func TestAverage_UniformOnly(t *testing.T) {
	got := Average([]Fraction{Uniform(4), Uniform(4)})
	assert.Equal(t, []string{"0.2500000000000000", "0.2500000000000000", "0.2500000000000000", "0.2500000000000000"}, got.Strings())
	assert.True(t, got.SumsToOne())

	assert.Nil(t, Average(nil))
}

// Identical rows average back to themselves.
func TestAverage_RoundsOnce(t *testing.T) {
	got := Average([]Fraction{
		{Num: []int64{1, 2}, Den: 3},
		{Num: []int64{1, 2}, Den: 3},
		{Num: []int64{1, 2}, Den: 3},
	})
	assert.Equal(t, []string{"0.3333333333333333", "0.6666666666666666"}, got.Strings())
}
