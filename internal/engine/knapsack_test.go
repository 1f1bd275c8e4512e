package engine

import (
	"context"
	"math"
	"testing"

	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/piwi3910/RollSlit/internal/lp/lptest"
	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemandLedger(t *testing.T) {
	its := []model.Item{{Width: 30}, {Width: 10}, {Width: 30}, {Width: 20}}
	d := NewDemandLedger(its, []int{0, 1, 2, 3})

	assert.Equal(t, []float64{10, 20, 30}, d.Widths())
	assert.Equal(t, 2, d.Remaining(30))
	assert.Equal(t, 4, d.Total())
	assert.False(t, d.Empty())

	idx, ok := d.Take(30)
	require.True(t, ok)
	assert.Equal(t, 2, idx, "last released is taken first")
	assert.Equal(t, 1, d.Remaining(30))

	d.Release(30, idx)
	idx, _ = d.Take(30)
	assert.Equal(t, 2, idx)

	_, ok = d.Take(99)
	assert.False(t, ok)

	for _, w := range []float64{10, 20, 30} {
		d.Take(w)
	}
	assert.True(t, d.Empty())
	assert.Empty(t, d.Outstanding())
	assert.Equal(t, []float64{10, 20, 30}, d.Widths(), "widths are remembered")
}

func TestColumnGeneration_ForcedFallbackLeavesBlockEmpty(t *testing.T) {
	its := []model.Item{{Width: 15, Length: 10, Area: 1}}
	s := solutionOf(its, 10, 10, nil)
	solver := &lptest.Exhaustive{}
	cg := ColumnGeneration{Solver: solver, Epsilon: 1e-2, ImprovementIterations: 5}

	res, err := cg.Optimize(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, 0.0, res.Blocks[0].Used)
	assert.Equal(t, 10.0, res.Blocks[0].Unused)
	assert.False(t, res.Blocks[0].Forced)
	assert.Empty(t, res.Solution.Rolls[0].Blocks[0].Items)
	assert.Equal(t, []int{0}, res.Solution.Unassigned)
	assert.True(t, math.IsInf(testEval.Evaluate(res.Solution), 1))
}

func TestColumnGeneration_ExactPartition(t *testing.T) {
	its := items(2, 50, 10, 5)
	s := solutionOf(its, 100, 10, nil, nil)
	cg := ColumnGeneration{Solver: &lptest.Exhaustive{}, Epsilon: 1e-2, ImprovementIterations: 5}

	res, err := cg.Optimize(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, res.Solution.IsValid())
	assert.True(t, res.Solution.CheckConservation())
	assert.InDelta(t, 0, testEval.Evaluate(res.Solution), 1e-12)
	assert.Equal(t, 100.0, res.Blocks[0].Used)
	assert.Equal(t, 100.0, res.Blocks[1].Unused)
}

func TestColumnGeneration_RespectsDemandAndCapacity(t *testing.T) {
	its := items(5, 30, 10, 1)
	s := solutionOf(its, 100, 10, nil, nil)
	solver := &lptest.Exhaustive{}
	cg := ColumnGeneration{Solver: solver, Epsilon: 1e-2, ImprovementIterations: 5}

	res, err := cg.Optimize(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, res.Solution.Rolls[0].Blocks[0].Items, 3)
	assert.Len(t, res.Solution.Rolls[1].Blocks[0].Items, 2)
	assert.InDelta(t, 10, res.Blocks[0].Unused, 1e-9)
	assert.InDelta(t, 40, res.Blocks[1].Unused, 1e-9)
	assert.True(t, res.Solution.IsValid())
	assert.True(t, res.Solution.WidthFeasible(cg.Epsilon))

	// two initial solves, one improvement pass that changes nothing
	assert.Equal(t, 4, res.Solves)
	assert.Equal(t, 4, solver.Calls)
	assert.Zero(t, res.Improvements)
}

func TestColumnGeneration_MixedWidths(t *testing.T) {
	its := []model.Item{
		{Width: 60, Length: 10, Area: 1},
		{Width: 40, Length: 10, Area: 1},
		{Width: 70, Length: 10, Area: 1},
		{Width: 30, Length: 10, Area: 1},
	}
	s := solutionOf(its, 100, 10, nil, nil)
	cg := ColumnGeneration{Solver: &lptest.Exhaustive{}, Epsilon: 1e-2, ImprovementIterations: 5}

	res, err := cg.Optimize(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, res.Solution.IsValid())
	assert.InDelta(t, 0, testEval.Evaluate(res.Solution), 1e-12)
}

func TestColumnGeneration_NoSolver(t *testing.T) {
	_, err := ColumnGeneration{}.Optimize(context.Background(), solutionOf(items(1, 10, 10, 1), 100, 10, nil))
	assert.ErrorIs(t, err, lp.ErrNoSolver)
}

func TestColumnGeneration_SolverFailure(t *testing.T) {
	failing := lptest.Func(func(ctx context.Context, p *lp.Problem) (lp.Solution, error) {
		return lp.Solution{Status: lp.Infeasible}, lp.ErrInfeasible
	})
	cg := ColumnGeneration{Solver: failing, Epsilon: 1e-2}
	_, err := cg.Optimize(context.Background(), solutionOf(items(1, 10, 10, 1), 100, 10, nil))
	assert.ErrorIs(t, err, lp.ErrInfeasible)
}
