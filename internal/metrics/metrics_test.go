package metrics

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/RollSlit/internal/engine"
	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_RestartDone(t *testing.T) {
	r := NewRecorder(nil)

	r.RestartDone(model.AlgorithmFirstFit, engine.SearchResult{
		Iterations: 100, Accepted: 40, Worsened: 5, State: engine.SearchConverged,
	})
	r.RestartDone(model.AlgorithmFirstFit, engine.SearchResult{
		Iterations: 50, Accepted: 10, State: engine.SearchConverged,
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Restarts.WithLabelValues("first-fit", "converged")))
	assert.Equal(t, 150.0, testutil.ToFloat64(r.Iterations.WithLabelValues("first-fit")))
	assert.Equal(t, 50.0, testutil.ToFloat64(r.Accepted.WithLabelValues("first-fit")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.Worsened.WithLabelValues("first-fit")))
}

func TestRecorder_RunDone(t *testing.T) {
	r := NewRecorder(nil)

	s := model.NewSolution([]model.Item{{Width: 1, Length: 1, Area: 1}}, nil)
	r.RunDone(model.Result{Algorithm: model.AlgorithmMILP, Solution: s, Waste: 0.25, Duration: time.Second})
	r.RunDone(model.Result{Algorithm: model.AlgorithmMILP, Solution: s, Waste: math.Inf(1), Duration: time.Second})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Runs.WithLabelValues("milp", "false")))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.BestWaste.WithLabelValues("milp")), "undefined waste keeps the last defined value")
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Unassigned.WithLabelValues("milp")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.Duration))
}

func TestRecorder_NilSafe(t *testing.T) {
	var r *Recorder
	r.RestartDone(model.AlgorithmFirstFit, engine.SearchResult{})
	r.RunDone(model.Result{})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteToTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestRecorder_WithOptimizer(t *testing.T) {
	r := NewRecorder(nil)

	settings := model.DefaultSettings()
	settings.Restarts = 3
	settings.Iterations = 20
	settings.Workers = 1
	settings.Prune.Enabled = false

	items := []model.Item{
		{Width: 4, Length: 100, Area: 4.8},
		{Width: 3, Length: 100, Area: 3.6},
		{Width: 3, Length: 100, Area: 3.6},
	}
	rows := []model.InventoryRow{{ID: "R1", Width: 10, Length: 100, Active: true}}

	opt := engine.New(settings, engine.WithObserver(r))
	res, err := opt.Optimize(context.Background(), items, rows)
	require.NoError(t, err)
	require.True(t, res.Valid)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.Restarts.WithLabelValues("first-fit", "converged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Runs.WithLabelValues("first-fit", "true")))
}

func TestRecorder_WriteToTextfile(t *testing.T) {
	r := NewRecorder(nil)
	r.RestartDone(model.AlgorithmBestFit, engine.SearchResult{Iterations: 7, State: engine.SearchConverged})

	path := filepath.Join(t.TempDir(), "rollslit.prom")
	require.NoError(t, r.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rollslit_search_iterations_total{algorithm="best-fit"} 7`)
}
