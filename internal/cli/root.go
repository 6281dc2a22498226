// Package cli provides the bayesnet command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/export"
	"github.com/gyaneshwarpardhi/bayesnet/internal/metrics"
	"github.com/gyaneshwarpardhi/bayesnet/internal/pipeline"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitOther       = 1
	ExitConfig      = 2
	ExitData        = 3
	ExitConsistency = 4
)

// app is the state shared by all commands of one invocation.
type app struct {
	configPath string
	inputPath  string
	verbose    bool
	logFormat  string

	logger    *slog.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Collector
	exporters *export.Registry
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	a := &app{exporters: export.DefaultRegistry()}

	rootCmd := &cobra.Command{
		Use:   "bayesnet",
		Short: "bayesnet - discrete Bayesian network estimation",
		Long: `bayesnet turns a labelled dataset and a declared dependency graph into a
fully populated discrete Bayesian network: the conditional probability table
of every node is estimated from observed frequencies, with a fallback for
conditions the data does not cover, and exported as XMLBIF.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "network config file (JSON or YAML)")
	pf.StringVarP(&a.inputPath, "input", "i", "", "dataset file (delimited text with header)")
	pf.StringP("delimiter", "d", config.DefaultDelimiter, `dataset delimiter: "\t", " ", "," or ";"`)
	pf.Int("data-threshold", config.DefaultDataThreshold, "records a condition needs beyond this count for direct estimation")
	pf.Int("grid-size-x", config.DefaultGridSizeX, "horizontal layout scale")
	pf.Int("grid-size-y", config.DefaultGridSizeY, "vertical layout scale")
	pf.Int("workers", config.DefaultWorkers, "nodes estimated concurrently")
	pf.Int64("max-conditions", 0, "abort when a node needs more CPD rows (0 = unlimited)")
	pf.String("network-name", config.DefaultNetworkName, "name written into the exported network")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format (text|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("delimiter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{`\t`, ",", ";", "space"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(a.newBuildCommand())
	rootCmd.AddCommand(a.newCheckCommand())
	rootCmd.AddCommand(a.newCompatCommand())
	rootCmd.AddCommand(a.newWatchCommand())
	rootCmd.AddCommand(a.newServeCommand())
	rootCmd.AddCommand(newVersionCommand(Version))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch strings.ToLower(a.logFormat) {
	case "json":
		h = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text", "":
		h = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return fmt.Errorf("unknown log format %q", a.logFormat)
	}
	a.logger = slog.New(h)
	slog.SetDefault(a.logger)

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewCollector(a.registry)
	return nil
}

// loadConfig reads the network config named by --config.
func (a *app) loadConfig() (*config.Loader, error) {
	if a.configPath == "" {
		return nil, errors.New("--config is required")
	}
	return config.NewLoader(a.configPath, a.logger)
}

func (a *app) requireInput() error {
	if a.inputPath == "" {
		return errors.New("--input is required")
	}
	return nil
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitCode(err)
	}
	return ExitOK
}

// ExitCode maps a command error onto the documented exit codes.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch pipeline.Classify(err) {
	case pipeline.KindConfig:
		return ExitConfig
	case pipeline.KindData:
		return ExitData
	case pipeline.KindConsistency:
		return ExitConsistency
	}
	return ExitOther
}

