package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gyaneshwarpardhi/bayesnet/internal/dataset"
	"github.com/gyaneshwarpardhi/bayesnet/internal/engine"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func parentNames(v *network.Variable) string {
	ps := v.Parents()
	if len(ps) == 0 {
		return "-"
	}
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}

// renderRunSummary prints one line per node and the data shortage line.
func renderRunSummary(w io.Writer, res *engine.Result) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Node", "Parents", "Rows", "Fallback", "Uniform", "Time"})
	for _, tbl := range res.Tables {
		t.AppendRow(table.Row{
			tbl.Var.Name,
			parentNames(tbl.Var),
			len(tbl.Rows),
			tbl.FallbackRows(),
			tbl.Uniform,
			tbl.Duration.Round(time.Microsecond),
		})
	}
	t.AppendFooter(table.Row{"Total", "", res.Stats.Rows, res.Stats.FallbackRows, res.Stats.UniformContributions, res.Stats.Duration.Round(time.Microsecond)})
	t.Render()
	_, _ = fmt.Fprintln(w, shortageLine(res.Stats))
}

func shortageLine(s engine.Stats) string {
	return fmt.Sprintf("data shortage: %d / %d rows (%.2f%%) estimated by fallback", s.FallbackRows, s.Rows, s.ShortagePercent())
}

// renderPlan prints the CPD size of every node.
func renderPlan(w io.Writer, plans []engine.NodePlan) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Node", "Column", "Values", "Parents", "Conditions", "Cells"})
	for _, p := range plans {
		conditions := fmt.Sprint(p.Conditions)
		if p.Conditions > engine.LargeTableWarning {
			conditions += " (large)"
		}
		t.AppendRow(table.Row{p.Var.Name, p.Var.Column, p.Var.Cardinality(), parentNames(p.Var), conditions, p.Cells})
	}
	t.Render()
}

// renderCompat prints the value combinations never observed together.
// With all set, fully compatible variable pairs are listed too.
func renderCompat(w io.Writer, report []dataset.Compatibility, all bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Node A", "Node B", "Value A", "Value B"})
	incompatible := 0
	for _, c := range report {
		if c.Compatible() {
			if all {
				t.AppendRow(table.Row{c.A.Name, c.B.Name, "(all observed)", ""})
			}
			continue
		}
		incompatible++
		for _, m := range c.Missing {
			t.AppendRow(table.Row{c.A.Name, c.B.Name, c.A.Domain[m.A], c.B.Domain[m.B]})
		}
	}
	if t.Length() > 0 {
		t.Render()
	}
	_, _ = fmt.Fprintf(w, "%d of %d node pairs have value combinations never observed together\n", incompatible, len(report))
}
