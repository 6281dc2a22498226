package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRow(false)
	c.ObserveRow(false)
	c.ObserveRow(true)
	c.ObserveUniform(3)
	c.ObserveUniform(0)
	c.ObserveNode(2 * time.Millisecond)
	c.ObserveRun(time.Second, nil)
	c.ObserveRun(time.Second, errors.New("boom"))
	c.ObserveRequest("/v1/estimate", "200")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RowsTotal.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RowsTotal.WithLabelValues("fallback")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.UniformContributions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RunsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("/v1/estimate", "200")))

	expected := `
# HELP bayesnet_uniform_contributions_total Total number of single-parent fallback contributions replaced by the uniform row.
# TYPE bayesnet_uniform_contributions_total counter
bayesnet_uniform_contributions_total 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "bayesnet_uniform_contributions_total"))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveRow(true)
	c.ObserveUniform(1)
	c.ObserveNode(time.Millisecond)
	c.ObserveRun(time.Millisecond, nil)
	c.ObserveRequest("/", "200")
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveRow(true)

	path := filepath.Join(t.TempDir(), "bayesnet.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bayesnet_cpd_rows_total{path="fallback"} 1`)
}
