package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestWaste_ExactFitIsZero(t *testing.T) {
	its := items(2, 50, 10, 5)
	s := solutionOf(its, 100, 10, []int{0, 1})
	eval := WasteEvaluator{AreaFactor: model.DefaultAreaFactor}

	assert.InDelta(t, 0, eval.Evaluate(s), 1e-12)
	assert.InDelta(t, 0, s.Rolls[0].Blocks[0].Waste, 1e-12)
}

func TestWaste_HalfFullBlock(t *testing.T) {
	its := items(1, 50, 10, 5)
	s := solutionOf(its, 100, 10, []int{0})
	eval := WasteEvaluator{AreaFactor: model.DefaultAreaFactor}
	assert.InDelta(t, 1.0, eval.Evaluate(s), 1e-12)

	eval.Percent = true
	assert.InDelta(t, 100.0, eval.Evaluate(s), 1e-9)
	assert.InDelta(t, 100.0, s.Rolls[0].Blocks[0].Waste, 1e-9)
}

func TestWaste_EmptyIsInfinite(t *testing.T) {
	its := items(1, 50, 10, 5)
	s := solutionOf(its, 100, 10, nil, nil)
	eval := WasteEvaluator{AreaFactor: model.DefaultAreaFactor}

	assert.True(t, math.IsInf(eval.Evaluate(s), 1))
	assert.True(t, math.IsInf(s.Rolls[0].Blocks[0].Waste, 1))
	assert.True(t, math.IsInf(eval.BlockWaste(s.Rolls[1].Blocks[0], its), 1))
}

func TestWaste_TotalsSkipEmptyBlocks(t *testing.T) {
	its := []model.Item{{Width: 50, Length: 10, Area: 1}, {Width: 60, Length: 10, Area: 1}, {Width: 40, Length: 10, Area: 1}}
	s := solutionOf(its, 100, 10, []int{0}, []int{1, 2}, nil)
	eval := WasteEvaluator{AreaFactor: model.DefaultAreaFactor}

	// area 200, consumed 150
	assert.InDelta(t, 50.0/150.0, eval.Evaluate(s), 1e-12)
	assert.InDelta(t, 1.0, s.Rolls[0].Blocks[0].Waste, 1e-12)
	assert.InDelta(t, 0, s.Rolls[1].Blocks[0].Waste, 1e-12)
	assert.True(t, math.IsInf(s.Rolls[2].Blocks[0].Waste, 1))
}

func TestWaste_InvariantUnderReordering(t *testing.T) {
	its := []model.Item{{Width: 10, Length: 10, Area: 1}, {Width: 25, Length: 10, Area: 1}, {Width: 30, Length: 10, Area: 1}}
	a := solutionOf(its, 100, 10, []int{0, 1, 2})
	b := solutionOf(its, 100, 10, []int{2, 0, 1})
	eval := WasteEvaluator{AreaFactor: model.DefaultAreaFactor}
	assert.InDelta(t, eval.Evaluate(a), eval.Evaluate(b), 1e-12)
}

func TestWaste_NonNegative(t *testing.T) {
	eval := NewWasteEvaluator(model.DefaultSettings())
	for seed := int64(0); seed < 20; seed++ {
		its, inv := randomInstance(seed)
		s := model.NewSolution(its, PartitionRolls(inv, 10, 0.5))
		RandomFirstFit{LengthTolerance: 0.1}.Assign(s, newRand(seed))
		assert.GreaterOrEqual(t, eval.Evaluate(s), 0.0)
	}
}

func TestNewWasteEvaluator_DefaultsAreaFactor(t *testing.T) {
	s := model.DefaultSettings()
	s.AreaFactor = 0
	assert.Equal(t, model.DefaultAreaFactor, NewWasteEvaluator(s).AreaFactor)
}

func TestUtilization(t *testing.T) {
	its := []model.Item{{Width: 80, Length: 10, Area: 1}}
	r := model.NewRoll("R", 100, 20, 2)
	assert.Equal(t, 0.0, Utilization(r, its))

	r.Blocks[0].Items = []int{0}
	assert.InDelta(t, 0.8, Utilization(r, its), 1e-12)
}

func TestBetter(t *testing.T) {
	assert.True(t, better(1, 2))
	assert.False(t, better(2, 2))
	assert.True(t, better(5, math.Inf(1)))
	assert.False(t, better(math.Inf(1), math.Inf(1)))
	assert.False(t, better(math.NaN(), 1))
	assert.True(t, better(math.Inf(1), math.NaN()))
}
