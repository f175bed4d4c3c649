package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveRun(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObserveRun(3, 12, 5, 2, 40*time.Millisecond)
	r.OrderFailed("dangling_order_reference")
	r.OrderFailed("dangling_order_reference")

	assert.InDelta(t, 1, testutil.ToFloat64(r.runs), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(r.ordersPlanned), 0)
	assert.InDelta(t, 12, testutil.ToFloat64(r.demandLines), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.shortageItems), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(r.orderFailures.WithLabelValues("dangling_order_reference")), 0)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveRun(1, 1, 1, 0, time.Millisecond)

	path := filepath.Join(t.TempDir(), "mrp.prom")
	require.NoError(t, r.WriteTextfile(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "mrp_runs_total 1")
	assert.Contains(t, string(content), "mrp_run_duration_seconds_bucket")
}
