package condition_test

import (
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

func vars(t *testing.T, domains ...[]string) []*network.Variable {
	t.Helper()
	g := network.NewGraph()
	out := make([]*network.Variable, len(domains))
	for i, d := range domains {
		name := string(rune('A' + i))
		v, err := g.AddVariable(name, name, d, 1, 1)
		if err != nil {
			t.Fatalf("AddVariable: %v", err)
		}
		out[i] = v
	}
	return out
}

func TestEnumerate_NoParents(t *testing.T) {
	all := condition.All(nil)
	if len(all) != 1 {
		t.Fatalf("got %d conditions, want 1", len(all))
	}
	if len(all[0]) != 0 {
		t.Errorf("condition should be empty, got %v", all[0])
	}
	if got := condition.Complexity(nil); got != 1 {
		t.Errorf("Complexity = %d, want 1", got)
	}
}

func TestEnumerate_LastParentFastest(t *testing.T) {
	ps := vars(t, []string{"a0", "a1"}, []string{"b0", "b1", "b2"})
	var got [][]string
	for _, c := range condition.All(ps) {
		got = append(got, c.Labels())
	}
	want := [][]string{
		{"a0", "b0"}, {"a0", "b1"}, {"a0", "b2"},
		{"a1", "b0"}, {"a1", "b1"}, {"a1", "b2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order mismatch\n got: %v\nwant: %v", got, want)
	}
	if c := condition.Complexity(ps); c != int64(len(want)) {
		t.Errorf("Complexity = %d, want %d", c, len(want))
	}
}

func TestEnumerate_ConditionsAreIndependent(t *testing.T) {
	ps := vars(t, []string{"x", "y"})
	e := condition.Enumerate(ps)
	first, _ := e.Next()
	second, _ := e.Next()
	if first[0].Value != 0 || second[0].Value != 1 {
		t.Fatalf("returned conditions share storage: %v %v", first, second)
	}
	if _, ok := e.Next(); ok {
		t.Error("expected exhaustion after two conditions")
	}
	if _, ok := e.Next(); ok {
		t.Error("exhausted enumerator must stay exhausted")
	}
}

func TestComplexity_Saturates(t *testing.T) {
	big := make([]string, 1<<16)
	for i := range big {
		big[i] = strconv.Itoa(i)
	}
	doms := make([][]string, 5)
	for i := range doms {
		doms[i] = big
	}
	if got := condition.Complexity(vars(t, doms...)); got != math.MaxInt64 {
		t.Errorf("Complexity = %d, want saturation", got)
	}
}

func TestCondition_String(t *testing.T) {
	ps := vars(t, []string{"Heads", "Tails"}, []string{"Rain", "Sun"})
	c := condition.Condition{{Var: ps[0], Value: 1}, {Var: ps[1], Value: 0}}
	if got, want := c.String(), "A=Tails, B=Rain"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (condition.Condition{}).String(); got != "(none)" {
		t.Errorf("empty String() = %q", got)
	}
}
