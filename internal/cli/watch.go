package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
)

// settle is how long the watch loop waits for a burst of writes to end.
const settle = 200 * time.Millisecond

func (a *app) newWatchCommand() *cobra.Command {
	var o buildOptions
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the network whenever the config or dataset changes",
		Long: `Run build once, then again every time the network config or the dataset
file is written. A failed rebuild is logged and the previous output is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireInput(); err != nil {
				return err
			}
			loader, err := a.loadConfig()
			if err != nil {
				return err
			}
			o.quiet = true

			trigger := make(chan struct{}, 1)
			poke := func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			}
			loader.OnChange(func(*config.NetworkConfig) { poke() })
			stopConfig, err := loader.Watch()
			if err != nil {
				return err
			}
			defer stopConfig()

			stopData, err := watchFile(a.inputPath, poke, a.logger)
			if err != nil {
				return err
			}
			defer stopData()

			rebuild := func() {
				path, run, err := a.build(cmd, loader.Config(), o)
				if err != nil {
					a.logger.Error("rebuild failed", "err", err)
					return
				}
				a.logger.Info("network written", "path", path, "run_id", run.Result.RunID)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), shortageLine(run.Result.Stats))
			}
			rebuild()
			a.logger.Info("watching", "config", loader.Path(), "input", a.inputPath)
			watchLoop(cmd.Context(), trigger, settle, rebuild)
			return nil
		},
	}
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: input path with the format's extension)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "xmlbif", "output format")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format after every build")
	return cmd
}

// watchLoop calls rebuild once per burst of triggers until ctx is done.
func watchLoop(ctx context.Context, trigger <-chan struct{}, wait time.Duration, rebuild func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-trigger:
		}
		timer := time.NewTimer(wait)
	drain:
		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-trigger:
				timer.Reset(wait)
			case <-timer.C:
				break drain
			}
		}
		rebuild()
	}
}

// watchFile calls fn after every write to path. The parent directory is
// watched so editors that replace the file by rename are still seen.
func watchFile(path string, fn func(), logger *slog.Logger) (stop func(), err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dataset watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("dataset watcher add %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) == abs && (ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					fn()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("dataset watcher error", "path", path, "err", err)
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }, nil
}
