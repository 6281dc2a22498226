package dataset_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/dataset"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

func weatherGraph(t *testing.T) *network.Graph {
	t.Helper()
	g, err := network.Build(&config.NetworkConfig{
		Nodes: []config.NodeDecl{
			{Name: "Weather", Column: "weather", Values: []string{"sun", "rain"}, Position: "(1,1)"},
			{Name: "Traffic", Column: "traffic", Values: []string{"low", "high"}, Position: "(1,2)"},
			{Name: "Late", Column: "late", Values: []string{"yes", "no"}, Position: "(2,1)"},
		},
		Edges: []string{"Weather -> Late", "Traffic -> Late"},
	})
	require.NoError(t, err)
	return g
}

const weatherCSV = "weather,traffic,late,note\n" +
	"sun,low,no,a\n" +
	"sun,high,yes,b\n" +
	"rain,high,yes,c\n" +
	"rain,high,yes,d\n" +
	"sun,low,no,e\n" +
	"rain,low\n" + // late missing
	"sun,,no,f\n" // empty traffic is rejected later in a separate test

func weatherIndex(t *testing.T) (*network.Graph, *dataset.Index) {
	t.Helper()
	g := weatherGraph(t)
	tbl, err := dataset.ReadCSV(strings.NewReader(strings.TrimSuffix(weatherCSV, "sun,,no,f\n")), ',')
	require.NoError(t, err)
	ix, err := dataset.Build(tbl, g)
	require.NoError(t, err)
	return g, ix
}

func TestIndex_Count(t *testing.T) {
	g, ix := weatherIndex(t)
	weather, traffic, late := g.Variable("Weather"), g.Variable("Traffic"), g.Variable("Late")
	require.Equal(t, 6, ix.Len())

	cases := []struct {
		name string
		q    dataset.Query
		want int
	}{
		{"any late", dataset.Query{Var: late, Value: dataset.AnyValue}, 5},
		{"any weather", dataset.Query{Var: weather, Value: dataset.AnyValue}, 6},
		{"late yes", dataset.Query{Var: late, Value: 0}, 3},
		{"late yes given rain", dataset.Query{Var: late, Value: 0, Given: condition.Condition{{Var: weather, Value: 1}}}, 2},
		{"any late given rain", dataset.Query{Var: late, Value: dataset.AnyValue, Given: condition.Condition{{Var: weather, Value: 1}}}, 2},
		{"late no given rain,high", dataset.Query{Var: late, Value: 1, Given: condition.Condition{{Var: weather, Value: 1}, {Var: traffic, Value: 1}}}, 0},
		{"late no given sun,low", dataset.Query{Var: late, Value: 1, Given: condition.Condition{{Var: weather, Value: 0}, {Var: traffic, Value: 0}}}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ix.Count(tc.q))
		})
	}
}

func TestIndex_PartitionLaw(t *testing.T) {
	g, ix := weatherIndex(t)
	late := g.Variable("Late")
	for _, cond := range condition.All(late.Parents()) {
		total := ix.Count(dataset.Query{Var: late, Value: dataset.AnyValue, Given: cond})
		sum := 0
		for v := range late.Domain {
			sum += ix.Count(dataset.Query{Var: late, Value: v, Given: cond})
		}
		assert.Equal(t, total, sum, cond.String())
	}
}

func TestIndex_CountAcrossWords(t *testing.T) {
	g := weatherGraph(t)
	var b strings.Builder
	b.WriteString("weather,traffic,late\n")
	for i := 0; i < 130; i++ {
		weather, traffic, late := "rain", "low", "no"
		if i%2 == 0 {
			weather = "sun"
		}
		if i%3 == 0 {
			traffic = "high"
		}
		if i%5 == 0 {
			late = "yes"
		}
		fmt.Fprintf(&b, "%s,%s,%s\n", weather, traffic, late)
	}
	tbl, err := dataset.ReadCSV(strings.NewReader(b.String()), ',')
	require.NoError(t, err)
	ix, err := dataset.Build(tbl, g)
	require.NoError(t, err)

	weather, traffic, late := g.Variable("Weather"), g.Variable("Traffic"), g.Variable("Late")
	sunHigh := condition.Condition{{Var: weather, Value: 0}, {Var: traffic, Value: 1}}

	assert.Equal(t, 5, ix.Count(dataset.Query{Var: late, Value: 0, Given: sunHigh}))
	assert.Equal(t, 22, ix.Count(dataset.Query{Var: late, Value: dataset.AnyValue, Given: sunHigh}))
	// intersections leave the stored sets untouched
	assert.Equal(t, 26, ix.Count(dataset.Query{Var: late, Value: 0}))
	assert.Equal(t, 65, ix.Count(dataset.Query{Var: weather, Value: 0}))
	assert.Equal(t, 5, ix.Count(dataset.Query{Var: late, Value: 0, Given: sunHigh}))
	assert.Equal(t, 130, ix.Count(dataset.Query{Var: late, Value: dataset.AnyValue}))
}

func TestBuild_DataErrors(t *testing.T) {
	g := weatherGraph(t)

	t.Run("empty", func(t *testing.T) {
		tbl, err := dataset.ReadCSV(strings.NewReader("weather,traffic,late\n"), ',')
		require.NoError(t, err)
		_, err = dataset.Build(tbl, g)
		var derr *dataset.DataError
		require.True(t, errors.As(err, &derr))
		assert.Contains(t, derr.Msg, "empty")
	})

	t.Run("missing column", func(t *testing.T) {
		tbl, err := dataset.ReadCSV(strings.NewReader("weather,late\nsun,yes\n"), ',')
		require.NoError(t, err)
		_, err = dataset.Build(tbl, g)
		var derr *dataset.DataError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "traffic", derr.Column)
	})

	t.Run("out of domain", func(t *testing.T) {
		tbl, err := dataset.ReadCSV(strings.NewReader(weatherCSV), ',')
		require.NoError(t, err)
		_, err = dataset.Build(tbl, g)
		var derr *dataset.DataError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, 7, derr.Row)
		assert.Equal(t, "traffic", derr.Column)
		assert.Contains(t, err.Error(), "row 7")
		assert.Contains(t, err.Error(), `note="f"`)
	})
}

func TestCompat(t *testing.T) {
	g, ix := weatherIndex(t)
	report := dataset.Compat(ix, g)

	// Weather-Traffic, Weather-Late, Traffic-Late
	require.Len(t, report, 3)
	assert.Equal(t, "Weather", report[0].A.Name)
	assert.Equal(t, "Traffic", report[0].B.Name)
	assert.True(t, report[0].Compatible())

	// rain never observed with late=no
	assert.Equal(t, []dataset.ValuePair{{A: 1, B: 1}}, report[1].Missing)
	// low traffic never late, high traffic always late
	assert.Equal(t, []dataset.ValuePair{{A: 0, B: 0}, {A: 1, B: 1}}, report[2].Missing)
}
