package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/bayesnet/internal/api"
)

type serveOptions struct {
	addr       string
	workers    int
	queueDepth int
	timeout    time.Duration
}

func (a *app) newServeCommand() *cobra.Command {
	var o serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve estimation over HTTP",
		Long: `Start the HTTP API. POST /v1/estimate takes a network config and a dataset
and returns the exported network. Metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.addr, "addr", ":8080", "HTTP listen address")
	cmd.Flags().IntVar(&o.workers, "api-workers", 2, "estimations run concurrently")
	cmd.Flags().IntVar(&o.queueDepth, "queue-depth", 16, "estimations queued before requests are rejected")
	cmd.Flags().DurationVar(&o.timeout, "timeout", time.Minute, "per request estimation timeout")
	return cmd
}

func (a *app) serve(ctx context.Context, o serveOptions) error {
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	poolCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handler := api.New(poolCtx, api.Options{
		Workers:    o.workers,
		QueueDepth: o.queueDepth,
		Timeout:    o.timeout,
		Logger:     a.logger,
		Metrics:    a.metrics,
		Gatherer:   a.registry,
		Exporters:  a.exporters,
	})
	srv := &http.Server{
		Addr:         o.addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: o.timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", "addr", o.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	a.logger.Info("shutting down")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	handler.Shutdown()
	a.logger.Info("goodbye")
	return nil
}
