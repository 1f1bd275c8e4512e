package engine

import (
	"math/rand"

	"github.com/piwi3910/RollSlit/internal/model"
)

// testSettings returns small, fast settings for engine tests.
func testSettings() model.Settings {
	s := model.DefaultSettings()
	s.Restarts = 4
	s.Iterations = 50
	s.Workers = 2
	return s
}

func items(n int, width, length, area float64) []model.Item {
	out := make([]model.Item, n)
	for i := range out {
		out[i] = model.Item{Width: width, Length: length, Area: area}
	}
	return out
}

func rows(n int, width, length float64) []model.InventoryRow {
	out := make([]model.InventoryRow, n)
	for i := range out {
		out[i] = model.InventoryRow{ID: string(rune('A' + i)), Code: "LE", Width: width, Length: length, Active: true}
	}
	return out
}

// solutionOf builds a solution from blocks given as item index lists, one
// single-block roll of the given width per entry.
func solutionOf(its []model.Item, width, length float64, blocks ...[]int) *model.Solution {
	rolls := make([]model.Roll, len(blocks))
	for i := range blocks {
		rolls[i] = model.NewRoll(string(rune('A'+i)), width, length, 1)
	}
	s := model.NewSolution(its, rolls)
	placed := make(map[int]bool)
	for ri, b := range blocks {
		for _, idx := range b {
			s.Assign(model.BlockRef{Roll: ri}, idx)
			placed[idx] = true
		}
	}
	var left []int
	for i := range its {
		if !placed[i] {
			left = append(left, i)
		}
	}
	s.Unassigned = left
	return s
}

// randomInstance returns items of assorted widths and an inventory that
// holds them with room to spare.
func randomInstance(seed int64) ([]model.Item, []model.InventoryRow) {
	rng := rand.New(rand.NewSource(seed))
	widths := []float64{10, 15, 20, 25, 30}
	n := 10 + rng.Intn(20)
	its := make([]model.Item, n)
	for i := range its {
		its[i] = model.Item{Width: widths[rng.Intn(len(widths))], Length: 10, Area: 1}
	}
	inv := []model.InventoryRow{
		{ID: "R1", Width: 100, Length: 30},
		{ID: "R2", Width: 80, Length: 30},
		{ID: "R3", Width: 120, Length: 20},
		{ID: "R4", Width: 60, Length: 10},
	}
	return its, inv
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
