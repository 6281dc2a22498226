package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/export"
	"github.com/gyaneshwarpardhi/bayesnet/internal/metrics"
	"github.com/gyaneshwarpardhi/bayesnet/internal/network"
	"github.com/gyaneshwarpardhi/bayesnet/internal/pipeline"
)

type buildOptions struct {
	output      string
	format      string
	metricsFile string
	quiet       bool
}

func (a *app) newBuildCommand() *cobra.Command {
	var o buildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Estimate every CPD and export the network",
		Long: `Estimate the conditional probability table of every node from the dataset
and write the network. The output path defaults to the input path with the
format's extension.`,
		Example: `  bayesnet build -c network.yaml -i data.tsv
  bayesnet build -c network.json -i data.csv -d , -o out.xbif --data-threshold 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireInput(); err != nil {
				return err
			}
			loader, err := a.loadConfig()
			if err != nil {
				return err
			}
			path, run, err := a.build(cmd, loader.Config(), o)
			if err != nil {
				return err
			}
			if !o.quiet {
				renderRunSummary(cmd.OutOrStdout(), run.Result)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: input path with the format's extension)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "xmlbif", "output format")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "skip the summary table")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return a.exporters.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// build runs one estimation and writes its export. Nothing is written when
// estimation fails.
func (a *app) build(cmd *cobra.Command, cfg *config.NetworkConfig, o buildOptions) (string, *pipeline.Run, error) {
	exp, err := a.exporters.Get(o.format)
	if err != nil {
		return "", nil, err
	}
	run, err := pipeline.Estimate(cmd.Context(), cfg, cmd.Flags(), pipeline.FileSource(a.inputPath), pipeline.Options{
		Logger:   a.logger,
		Metrics:  a.metrics,
		Progress: a.progress(cmd.Context()),
	})
	if err != nil {
		return "", nil, err
	}

	path := o.output
	if path == "" {
		path = export.OutputPath(a.inputPath, exp.Extension())
	}
	f, err := os.Create(path)
	if err != nil {
		return "", nil, fmt.Errorf("create output: %w", err)
	}
	if err := exp.Export(f, run.Network()); err != nil {
		f.Close()
		return "", nil, fmt.Errorf("export %s: %w", o.format, err)
	}
	if err := f.Close(); err != nil {
		return "", nil, fmt.Errorf("close output: %w", err)
	}

	if o.metricsFile != "" {
		if err := metrics.WriteTextfile(o.metricsFile, a.registry); err != nil {
			return "", nil, fmt.Errorf("write metrics: %w", err)
		}
	}
	return path, run, nil
}

// progress logs node progress at debug level.
func (a *app) progress(ctx context.Context) func(*network.Variable, int64, int64) {
	if !a.verbose {
		return nil
	}
	return func(v *network.Variable, done, total int64) {
		a.logger.DebugContext(ctx, "progress", "node", v.Name, "done", done, "total", total)
	}
}
