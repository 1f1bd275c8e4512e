package engine

import (
	"math"

	"github.com/piwi3910/RollSlit/internal/model"
)

// WasteEvaluator scores solutions by the relative gap between theoretical
// block area and consumed area.
type WasteEvaluator struct {
	AreaFactor float64 // linear to area conversion, 12/1000 for MSI
	Percent    bool    // report ratios x100
}

// NewWasteEvaluator returns the evaluator configured by settings.
func NewWasteEvaluator(s model.Settings) WasteEvaluator {
	k := s.AreaFactor
	if k <= 0 {
		k = model.DefaultAreaFactor
	}
	return WasteEvaluator{AreaFactor: k, Percent: s.PercentWaste}
}

// areas returns the theoretical and consumed area of a block.
func (e WasteEvaluator) areas(b model.Block, items []model.Item) (float64, float64) {
	area := b.Width * b.Length * e.AreaFactor
	var consumed float64
	for _, idx := range b.Items {
		consumed += items[idx].Width * b.Length * e.AreaFactor
	}
	return area, consumed
}

func (e WasteEvaluator) ratio(area, consumed float64) float64 {
	if consumed == 0 {
		return math.Inf(1)
	}
	w := math.Abs(area-consumed) / consumed
	if e.Percent {
		w *= 100
	}
	return w
}

// BlockWaste returns the waste ratio of a single block, +Inf when empty.
func (e WasteEvaluator) BlockWaste(b model.Block, items []model.Item) float64 {
	return e.ratio(e.areas(b, items))
}

// Evaluate returns the solution waste over the totals of all non-empty
// blocks and stores each block's own waste in Block.Waste.
func (e WasteEvaluator) Evaluate(s *model.Solution) float64 {
	var area, consumed float64
	for ri := range s.Rolls {
		blocks := s.Rolls[ri].Blocks
		for bi := range blocks {
			a, c := e.areas(blocks[bi], s.Items)
			blocks[bi].Waste = e.ratio(a, c)
			if len(blocks[bi].Items) == 0 {
				continue
			}
			area += a
			consumed += c
		}
	}
	return e.ratio(area, consumed)
}

// Utilization returns the fraction of a roll's width used across its
// non-empty blocks, or 0 when the roll is empty.
func Utilization(r model.Roll, items []model.Item) float64 {
	var used float64
	nonEmpty := 0
	for _, b := range r.Blocks {
		if len(b.Items) == 0 {
			continue
		}
		nonEmpty++
		used += b.UsedWidth(items)
	}
	if nonEmpty == 0 || r.Width <= 0 {
		return 0
	}
	return used / (r.Width * float64(nonEmpty))
}

// better reports whether waste a beats waste b. NaN never wins and +Inf
// only beats NaN.
func better(a, b float64) bool {
	if math.IsNaN(a) {
		return false
	}
	if math.IsNaN(b) {
		return true
	}
	return a < b
}
