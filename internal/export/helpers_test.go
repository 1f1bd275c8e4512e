package export

import (
	"math"
	"time"

	"github.com/piwi3910/RollSlit/internal/model"
)

// buildTestResult creates a two-roll plan with one empty roll and one
// unassigned item.
func buildTestResult() model.Result {
	items := []model.Item{
		{Width: 4, Length: 1000, Area: 48},
		{Width: 3, Length: 1000, Area: 36},
		{Width: 5, Length: 1000, Area: 60},
		{Width: 5, Length: 1000, Area: 60},
		{Width: 2, Length: 1000, Area: 24},
		{Width: 9, Length: 1000, Area: 108},
	}
	r1 := model.NewRoll("R1", 10, 3000, 3)
	r1.Code = "LE1"
	r2 := model.NewRoll("R2", 12, 1000, 1)
	r3 := model.NewRoll("R3", 8, 1000, 1)

	s := model.NewSolution(items, []model.Roll{r1, r2, r3})
	s.Unassigned = []int{5}
	s.Rolls[0].Blocks[0].Items = []int{1, 0}
	s.Rolls[0].Blocks[0].Waste = 3.0 / 7.0
	s.Rolls[0].Blocks[2].Items = []int{2, 3}
	s.Rolls[0].Blocks[2].Waste = 0
	s.Rolls[1].Blocks[0].Items = []int{4}
	s.Rolls[1].Blocks[0].Waste = 5

	return model.Result{
		RunID:      "run-1",
		Algorithm:  model.AlgorithmFirstFit,
		Solution:   s,
		Waste:      0.5,
		Valid:      false,
		TargetArea: 336,
		Restarts:   4,
		Completed:  4,
		Duration:   1500 * time.Millisecond,
	}
}

func emptyResult() model.Result {
	s := model.NewSolution(nil, []model.Roll{model.NewRoll("R1", 10, 100, 1)})
	return model.Result{Solution: s, Waste: math.Inf(1)}
}
