package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/bayesnet/internal/config"
	"github.com/gyaneshwarpardhi/bayesnet/internal/export"
	"github.com/gyaneshwarpardhi/bayesnet/internal/metrics"
	"github.com/gyaneshwarpardhi/bayesnet/internal/pipeline"
)

const maxBodyBytes = 64 << 20

// Options configures the API.
type Options struct {
	Workers    int           // concurrent estimations, default 2
	QueueDepth int           // queued estimations before 429, default 16
	Timeout    time.Duration // per request, default 60s
	Logger     *slog.Logger
	Metrics    *metrics.Collector
	Gatherer   prometheus.Gatherer // served on /metrics, default prometheus.DefaultGatherer
	Exporters  *export.Registry    // default export.DefaultRegistry()
}

// EstimateRequest is the body of POST /v1/estimate and POST /v1/compat.
type EstimateRequest struct {
	Config    json.RawMessage `json:"config"`
	CSV       string          `json:"csv"`
	Format    string          `json:"format,omitempty"`    // estimate only, default "xmlbif"
	Delimiter string          `json:"delimiter,omitempty"` // overrides the config preference
}

// CompatPair is one variable pair of a compat response.
type CompatPair struct {
	A          string      `json:"a"`
	B          string      `json:"b"`
	Compatible bool        `json:"compatible"`
	Missing    [][2]string `json:"missing,omitempty"` // value of A, value of B
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	opts Options
	pool *workerPool[*job]
	root http.Handler
}

type job struct {
	ctx     context.Context
	do      func(ctx context.Context) outcome
	resultC chan outcome
}

type outcome struct {
	status      int
	contentType string
	body        []byte
	runID       string
	err         error
}

// New creates the handler, registers all routes and starts the estimation
// workers. Call Shutdown to drain them.
func New(ctx context.Context, opts Options) *Handler {
	if opts.Workers < 1 {
		opts.Workers = 2
	}
	if opts.QueueDepth < 1 {
		opts.QueueDepth = 16
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.Exporters == nil {
		opts.Exporters = export.DefaultRegistry()
	}

	h := &Handler{opts: opts}
	h.pool = newWorkerPool(ctx, opts.Workers, opts.QueueDepth, func(_ context.Context, j *job) {
		j.resultC <- j.do(j.ctx)
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/estimate", h.estimate)
	mux.HandleFunc("POST /v1/compat", h.compat)
	mux.HandleFunc("GET /v1/formats", h.formats)
	mux.HandleFunc("GET /healthz", h.healthz)
	mux.HandleFunc("GET /readyz", h.readyz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	h.root = loggingMiddleware(mux, opts.Logger, opts.Metrics)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

// Shutdown stops accepting estimations and waits for running ones.
func (h *Handler) Shutdown() {
	h.pool.Drain()
}

// POST /v1/estimate: estimate every CPD and return the exported document.
func (h *Handler) estimate(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := h.decode(w, r)
	if !ok {
		return
	}
	format := req.Format
	if format == "" {
		format = "xmlbif"
	}
	exp, err := h.opts.Exporters.Get(format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := h.opts.Logger.With("request_id", requestID(r.Context()))
	h.dispatch(w, r, func(ctx context.Context) outcome {
		run, err := pipeline.Estimate(ctx, cfg, nil, pipeline.ReaderSource(strings.NewReader(req.CSV)), pipeline.Options{
			Logger:  log,
			Metrics: h.opts.Metrics,
		})
		if err != nil {
			return outcome{err: err}
		}
		var buf bytes.Buffer
		if err := exp.Export(&buf, run.Network()); err != nil {
			return outcome{err: fmt.Errorf("export %s: %w", format, err)}
		}
		return outcome{
			status:      http.StatusOK,
			contentType: contentType(format),
			body:        buf.Bytes(),
			runID:       run.Result.RunID,
		}
	})
}

// POST /v1/compat: list value combinations never observed together.
func (h *Handler) compat(w http.ResponseWriter, r *http.Request) {
	req, cfg, ok := h.decode(w, r)
	if !ok {
		return
	}
	h.dispatch(w, r, func(context.Context) outcome {
		report, err := pipeline.Compat(cfg, nil, pipeline.ReaderSource(strings.NewReader(req.CSV)))
		if err != nil {
			return outcome{err: err}
		}
		pairs := make([]CompatPair, len(report))
		for i, c := range report {
			pairs[i] = CompatPair{A: c.A.Name, B: c.B.Name, Compatible: c.Compatible()}
			for _, m := range c.Missing {
				pairs[i].Missing = append(pairs[i].Missing, [2]string{c.A.Domain[m.A], c.B.Domain[m.B]})
			}
		}
		body, err := json.Marshal(map[string]interface{}{"pairs": pairs})
		if err != nil {
			return outcome{err: err}
		}
		return outcome{status: http.StatusOK, contentType: "application/json", body: append(body, '\n')}
	})
}

// GET /v1/formats: registered export formats.
func (h *Handler) formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"formats": h.opts.Exporters.Formats()})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the estimation queue is more than 80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.pool.Utilization()
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

// decode reads the request body and parses the embedded network config.
// On failure it writes the response and returns ok == false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*EstimateRequest, *config.NetworkConfig, bool) {
	var req EstimateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return nil, nil, false
	}
	if len(req.Config) == 0 || bytes.Equal(bytes.TrimSpace(req.Config), []byte("null")) {
		writeError(w, http.StatusBadRequest, "config is required")
		return nil, nil, false
	}
	cfg, err := config.Parse(req.Config)
	if err != nil {
		writeRunError(w, err)
		return nil, nil, false
	}
	if req.Delimiter != "" {
		if cfg.Preferences == nil {
			cfg.Preferences = map[string]interface{}{}
		}
		cfg.Preferences["csv_delimiter"] = req.Delimiter
	}
	return &req, cfg, true
}

// dispatch queues do on the worker pool and writes its outcome.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, do func(context.Context) outcome) {
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.Timeout)
	defer cancel()

	j := &job{ctx: ctx, do: do, resultC: make(chan outcome, 1)}
	if !h.pool.Submit(j) {
		writeError(w, http.StatusTooManyRequests, "estimation queue full")
		return
	}

	select {
	case out := <-j.resultC:
		if out.err != nil {
			writeRunError(w, out.err)
			return
		}
		if out.runID != "" {
			w.Header().Set("X-Run-ID", out.runID)
		}
		w.Header().Set("Content-Type", out.contentType)
		w.WriteHeader(out.status)
		_, _ = w.Write(out.body)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, fmt.Sprintf("estimation timeout after %v", h.opts.Timeout))
			return
		}
		writeError(w, http.StatusServiceUnavailable, ctx.Err().Error())
	}
}

// writeRunError maps config and data errors to 422, consistency and
// everything else to 500.
func writeRunError(w http.ResponseWriter, err error) {
	kind := pipeline.Classify(err)
	status := http.StatusInternalServerError
	if kind == pipeline.KindConfig || kind == pipeline.KindData {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind.String()})
}

func contentType(format string) string {
	switch format {
	case "xmlbif":
		return "application/xml"
	case "yaml":
		return "application/yaml"
	}
	return "application/octet-stream"
}
