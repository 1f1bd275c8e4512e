package engine

import (
	"testing"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEval = WasteEvaluator{AreaFactor: model.DefaultAreaFactor}

func TestPerturb_DoesNotMutateInput(t *testing.T) {
	its, inv := randomInstance(3)
	s := model.NewSolution(its, PartitionRolls(inv, 10, 0.5))
	RandomFirstFit{LengthTolerance: 0.1}.Assign(s, newRand(3))
	testEval.Evaluate(s)
	before := s.Clone()

	p := NewPerturber(model.DefaultSettings())
	rng := newRand(11)
	for i := 0; i < 50; i++ {
		p.Perturb(s, rng)
	}
	assert.Equal(t, before, s)
}

func TestPerturb_RelocatesIntoFreeBlock(t *testing.T) {
	its := items(2, 50, 10, 5)
	s := solutionOf(its, 100, 10, []int{0}, []int{1})
	testEval.Evaluate(s)

	p := Perturber{LengthTolerance: 0.1, TopWasteFraction: 1}
	c, kind := p.Perturb(s, newRand(1))
	assert.Equal(t, MoveRelocate, kind)
	assert.InDelta(t, 0, testEval.Evaluate(c), 1e-12)
	assert.True(t, c.CheckConservation())
}

func TestPerturb_SwapsWhenMoveDoesNotFit(t *testing.T) {
	its := []model.Item{
		{Width: 60, Length: 10, Area: 1},
		{Width: 70, Length: 10, Area: 1},
		{Width: 30, Length: 10, Area: 1},
	}
	s := solutionOf(its, 100, 10, []int{0}, []int{1, 2})
	testEval.Evaluate(s)

	p := Perturber{LengthTolerance: 0.1, TopWasteFraction: 0.3, AllowSwaps: true}
	c, kind := p.Perturb(s, newRand(1))
	require.Equal(t, MoveSwap, kind)
	assert.Equal(t, []int{1}, c.Rolls[0].Blocks[0].Items)
	assert.ElementsMatch(t, []int{0, 2}, c.Rolls[1].Blocks[0].Items)
	assert.True(t, c.WidthFeasible(0))
}

func TestPerturb_InertWhenNothingFits(t *testing.T) {
	its := []model.Item{
		{Width: 60, Length: 10, Area: 1},
		{Width: 70, Length: 10, Area: 1},
		{Width: 30, Length: 10, Area: 1},
	}
	s := solutionOf(its, 100, 10, []int{0}, []int{1, 2})
	testEval.Evaluate(s)

	p := Perturber{LengthTolerance: 0.1, TopWasteFraction: 0.3, AllowSwaps: false}
	c, kind := p.Perturb(s, newRand(1))
	assert.Equal(t, MoveNone, kind)
	assert.Equal(t, s.Rolls, c.Rolls)
}

func TestPerturb_NoDonor(t *testing.T) {
	s := solutionOf(items(1, 50, 10, 1), 100, 10, nil)
	c, kind := Perturber{TopWasteFraction: 0.3}.Perturb(s, newRand(1))
	assert.Equal(t, MoveNone, kind)
	assert.Equal(t, s.Unassigned, c.Unassigned)
}

func TestPerturb_ThresholdModeFallsBack(t *testing.T) {
	its := items(2, 50, 10, 5)
	s := solutionOf(its, 100, 10, []int{0}, []int{1})
	testEval.Evaluate(s)

	// No block reaches the threshold; every non-empty block is a donor.
	p := Perturber{LengthTolerance: 0.1, WasteThreshold: 1000}
	c, kind := p.Perturb(s, newRand(2))
	assert.Equal(t, MoveRelocate, kind)
	assert.True(t, c.CheckConservation())
}

func TestPerturb_GreedyPicksWorstMultiItemBlock(t *testing.T) {
	its := []model.Item{
		{Width: 10, Length: 10, Area: 1},
		{Width: 10, Length: 10, Area: 1},
		{Width: 90, Length: 10, Area: 1},
	}
	// block 0: 20 of 100 used, two items; block 1: 90 of 100, one item
	s := solutionOf(its, 100, 10, []int{0, 1}, []int{2})
	testEval.Evaluate(s)

	p := Perturber{LengthTolerance: 0.1, TopWasteFraction: 1, GreedyProbability: 1}
	c, kind := p.Perturb(s, newRand(5))
	require.Equal(t, MoveRelocate, kind)
	assert.Len(t, c.Rolls[0].Blocks[0].Items, 1)
	assert.Len(t, c.Rolls[1].Blocks[0].Items, 2)
}

func TestPerturb_ConservationAndWidth(t *testing.T) {
	p := NewPerturber(model.DefaultSettings())
	for seed := int64(0); seed < 20; seed++ {
		its, inv := randomInstance(seed)
		s := model.NewSolution(its, PartitionRolls(inv, 10, 0.5))
		RandomFirstFit{LengthTolerance: 0.1}.Assign(s, newRand(seed))
		rng := newRand(seed + 100)
		for i := 0; i < 30; i++ {
			testEval.Evaluate(s)
			s, _ = p.Perturb(s, rng)
			require.True(t, s.CheckConservation(), "seed %d step %d", seed, i)
			require.True(t, s.WidthFeasible(0), "seed %d step %d", seed, i)
		}
	}
}

func TestMoveKind_String(t *testing.T) {
	assert.Equal(t, "relocate", MoveRelocate.String())
	assert.Equal(t, "swap", MoveSwap.String())
	assert.Equal(t, "none", MoveNone.String())
}
