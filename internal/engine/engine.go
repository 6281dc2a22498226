// Package engine estimates the conditional probability table of every node
// of a network from an indexed dataset.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gyaneshwarpardhi/bayesnet/internal/condition"
	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/dataset"
	"github.com/gyaneshwarpardhi/bayesnet/internal/metrics"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
	"github.com/gyaneshwarpardhi/bayesnet/internal/prob"
)

// progressEvery is how many conditions pass between progress callbacks.
const progressEvery = 1000

// Options tunes a run. The zero value estimates sequentially with threshold 0.
type Options struct {
	DataThreshold int
	Workers       int   // nodes estimated concurrently, <= 1 means sequential
	MaxConditions int64 // abort before estimating when a node needs more rows, 0 = unlimited
	Logger        *slog.Logger
	Metrics       *metrics.Collector
	// Progress, when set, is called with the conditions done so far for a
	// node. It may be called from several goroutines when Workers > 1.
	Progress func(node *network.Variable, done, total int64)
}

// Table is the finished CPD of one node.
type Table struct {
	Var        *network.Variable
	Conditions []condition.Condition // row keys, enumeration order
	Rows       []prob.Row
	Fallback   []bool // per row, true when the sparse-data fallback was used
	Uniform    int    // fallback contributions replaced by the uniform row
	Duration   time.Duration
}

// FallbackRows counts the rows estimated by the fallback.
func (t *Table) FallbackRows() int {
	n := 0
	for _, f := range t.Fallback {
		if f {
			n++
		}
	}
	return n
}

// Stats aggregates the counters of a run.
type Stats struct {
	Nodes                int
	Rows                 int
	FallbackRows         int
	UniformContributions int
	Duration             time.Duration
}

// ShortagePercent is the share of rows that needed the fallback.
func (s Stats) ShortagePercent() float64 {
	if s.Rows == 0 {
		return 0
	}
	return 100 * float64(s.FallbackRows) / float64(s.Rows)
}

// Result is the output of a successful run.
type Result struct {
	RunID  string
	Tables []*Table // registry order
	Stats  Stats
}

// Table returns the CPD of the named node, or nil.
func (r *Result) Table(name string) *Table {
	for _, t := range r.Tables {
		if t.Var.Name == name {
			return t
		}
	}
	return nil
}

// Engine estimates CPDs for one graph over one index. Both are shared
// read-only, so an Engine may run several times and concurrently.
type Engine struct {
	graph *network.Graph
	index *dataset.Index
	opts  Options
}

// New creates an Engine. A nil Logger falls back to slog.Default().
func New(g *network.Graph, ix *dataset.Index, opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Engine{graph: g, index: ix, opts: opts}
}

// Run estimates every node. Row order within a node and node order in the
// result never depend on Workers. The first error cancels the remaining
// work and no partial result is returned.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := e.opts.Logger.With("run_id", runID)

	plans := Plan(e.graph)
	if err := e.checkPlans(log, plans); err != nil {
		e.opts.Metrics.ObserveRun(time.Since(start), err)
		return nil, err
	}

	log.Info("estimation started",
		"nodes", len(plans),
		"records", e.index.Len(),
		"threshold", e.opts.DataThreshold,
		"workers", e.opts.Workers,
	)

	es := &estimator{index: e.index, threshold: e.opts.DataThreshold}
	tables := make([]*Table, len(plans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, p := range plans {
		g.Go(func() error {
			t, err := e.estimateNode(gctx, log, es, p)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.opts.Metrics.ObserveRun(time.Since(start), err)
		log.Error("estimation failed", "err", err)
		return nil, err
	}

	res := &Result{RunID: runID, Tables: tables}
	for _, t := range tables {
		res.Stats.Nodes++
		res.Stats.Rows += len(t.Rows)
		res.Stats.FallbackRows += t.FallbackRows()
		res.Stats.UniformContributions += t.Uniform
	}
	res.Stats.Duration = time.Since(start)
	e.opts.Metrics.ObserveRun(res.Stats.Duration, nil)

	log.Info("estimation finished",
		"rows", res.Stats.Rows,
		"fallback_rows", res.Stats.FallbackRows,
		"duration", res.Stats.Duration,
	)
	return res, nil
}

func (e *Engine) checkPlans(log *slog.Logger, plans []NodePlan) error {
	for _, p := range plans {
		if e.opts.MaxConditions > 0 && p.Conditions > e.opts.MaxConditions {
			return &config.ConfigError{
				Section: "preferences",
				Index:   -1,
				Field:   "max_conditions",
				Msg:     fmt.Sprintf("node '%s' needs %d conditions, limit is %d", p.Var.Name, p.Conditions, e.opts.MaxConditions),
			}
		}
		if p.Conditions > LargeTableWarning {
			log.Warn("large conditional table", "node", p.Var.Name, "conditions", p.Conditions)
		}
	}
	return nil
}

func (e *Engine) estimateNode(ctx context.Context, log *slog.Logger, es *estimator, p NodePlan) (*Table, error) {
	start := time.Now()
	v := p.Var
	t := &Table{Var: v}
	if p.Conditions <= LargeTableWarning {
		t.Conditions = make([]condition.Condition, 0, p.Conditions)
		t.Rows = make([]prob.Row, 0, p.Conditions)
		t.Fallback = make([]bool, 0, p.Conditions)
	}

	var done int64
	en := condition.Enumerate(v.Parents())
	for c, ok := en.Next(); ok; c, ok = en.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		est, err := es.estimate(v, c)
		if err != nil {
			return nil, err
		}
		t.Conditions = append(t.Conditions, c)
		t.Rows = append(t.Rows, est.row)
		t.Fallback = append(t.Fallback, est.fallback)
		t.Uniform += est.uniform
		e.opts.Metrics.ObserveRow(est.fallback)
		e.opts.Metrics.ObserveUniform(est.uniform)

		done++
		if e.opts.Progress != nil && (done%progressEvery == 0 || done == p.Conditions) {
			e.opts.Progress(v, done, p.Conditions)
		}
	}

	t.Duration = time.Since(start)
	e.opts.Metrics.ObserveNode(t.Duration)
	log.Debug("node estimated",
		"node", v.Name,
		"conditions", len(t.Rows),
		"fallback_rows", t.FallbackRows(),
		"duration", t.Duration,
	)
	return t, nil
}
