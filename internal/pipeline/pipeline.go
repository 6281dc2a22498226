// Package pipeline wires config, dataset, estimation and export into the
// runs the CLI and the API perform.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/dataset"
	"github.com/gyaneshwarpardhi/bayesnet/internal/engine"
	"github.com/gyaneshwarpardhi/bayesnet/internal/export"
	"github.com/gyaneshwarpardhi/bayesnet/internal/metrics"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
)

// TableSource reads the dataset once the delimiter is known.
type TableSource func(delim rune) (*dataset.Table, error)

// FileSource reads the dataset from a file.
func FileSource(path string) TableSource {
	return func(delim rune) (*dataset.Table, error) {
		return dataset.ReadCSVFile(path, delim)
	}
}

// ReaderSource reads the dataset from r.
func ReaderSource(r io.Reader) TableSource {
	return func(delim rune) (*dataset.Table, error) {
		return dataset.ReadCSV(r, delim)
	}
}

// Options carries the ambient dependencies of a run.
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Collector
	Progress func(node *network.Variable, done, total int64)
}

// Prepared is a validated network with its resolved preferences.
type Prepared struct {
	Prefs *config.Preferences
	Graph *network.Graph
}

// Prepare resolves preferences and builds the graph. No dataset is read.
func Prepare(cfg *config.NetworkConfig, flags *pflag.FlagSet) (*Prepared, error) {
	prefs, err := config.ResolvePreferences(cfg.Preferences, flags)
	if err != nil {
		return nil, err
	}
	g, err := network.Build(cfg)
	if err != nil {
		return nil, err
	}
	return &Prepared{Prefs: prefs, Graph: g}, nil
}

// Index reads the dataset with the resolved delimiter and indexes it.
func (p *Prepared) Index(src TableSource) (*dataset.Index, error) {
	tbl, err := src(p.Prefs.Delimiter())
	if err != nil {
		return nil, err
	}
	return dataset.Build(tbl, p.Graph)
}

// Run is a finished estimation.
type Run struct {
	*Prepared
	Result *engine.Result
}

// Network returns the export view of the run.
func (r *Run) Network() *export.Network {
	return &export.Network{
		Name:   r.Prefs.NetworkName,
		GridX:  r.Prefs.GridSizeX,
		GridY:  r.Prefs.GridSizeY,
		Result: r.Result,
	}
}

// Estimate prepares the network, indexes the dataset and estimates every CPD.
func Estimate(ctx context.Context, cfg *config.NetworkConfig, flags *pflag.FlagSet, src TableSource, opts Options) (*Run, error) {
	p, err := Prepare(cfg, flags)
	if err != nil {
		return nil, err
	}
	ix, err := p.Index(src)
	if err != nil {
		return nil, err
	}
	eng := engine.New(p.Graph, ix, engine.Options{
		DataThreshold: p.Prefs.DataThreshold,
		Workers:       p.Prefs.Workers,
		MaxConditions: p.Prefs.MaxConditions,
		Logger:        opts.Logger,
		Metrics:       opts.Metrics,
		Progress:      opts.Progress,
	})
	res, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}
	return &Run{Prepared: p, Result: res}, nil
}

// Compat prepares the network, indexes the dataset and lists the value
// combinations never observed together.
func Compat(cfg *config.NetworkConfig, flags *pflag.FlagSet, src TableSource) ([]dataset.Compatibility, error) {
	p, err := Prepare(cfg, flags)
	if err != nil {
		return nil, err
	}
	ix, err := p.Index(src)
	if err != nil {
		return nil, err
	}
	return dataset.Compat(ix, p.Graph), nil
}

// Kind classifies a run error.
type Kind int

const (
	KindOther Kind = iota
	KindConfig
	KindData
	KindConsistency
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindData:
		return "data"
	case KindConsistency:
		return "consistency"
	}
	return "other"
}

// Classify maps err onto the error kinds of a run.
func Classify(err error) Kind {
	var (
		cerr *config.ConfigError
		derr *dataset.DataError
		kerr *engine.ConsistencyError
	)
	switch {
	case errors.As(err, &cerr):
		return KindConfig
	case errors.As(err, &derr):
		return KindData
	case errors.As(err, &kerr):
		return KindConsistency
	}
	return KindOther
}

// Export writes the run in format using reg.
func Export(w io.Writer, reg *export.Registry, format string, run *Run) error {
	e, err := reg.Get(format)
	if err != nil {
		return err
	}
	if err := e.Export(w, run.Network()); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	return nil
}
