package engine

import (
	"github.com/piwi3910/RollSlit/internal/model"
)

// PruneConfig bounds the underutilization pruner.
type PruneConfig struct {
	MinUtilization     float64
	MaxRemovalFraction float64
}

// PruneResult is the outcome of PruneUnderutilized.
type PruneResult struct {
	Solution   *model.Solution
	Waste      float64
	TargetArea float64
	Removed    []int // item indices moved to Solution.Released
	Accepted   bool
}

// PruneUnderutilized strips items from rolls whose utilization is below
// cfg.MinUtilization. For every item type at most MaxRemovalFraction of its
// global count is removed; the counter runs across rolls in roll order, so
// earlier rolls shed first. The pruned copy is kept only when its waste is
// strictly lower, otherwise s is returned unchanged.
func PruneUnderutilized(s *model.Solution, targetArea float64, cfg PruneConfig, eval WasteEvaluator) PruneResult {
	origWaste := eval.Evaluate(s)
	keep := PruneResult{Solution: s, Waste: origWaste, TargetArea: targetArea}

	released := make(map[int]bool, len(s.Released))
	for _, idx := range s.Released {
		released[idx] = true
	}
	total := make(map[model.Item]int)
	for idx, it := range s.Items {
		if !released[idx] {
			total[it]++
		}
	}
	removedOf := make(map[model.Item]int)

	c := s.Clone()
	var removed []int
	for ri := range c.Rolls {
		r := &c.Rolls[ri]
		if r.IsEmpty() || Utilization(*r, c.Items) >= cfg.MinUtilization {
			continue
		}
		for bi := range r.Blocks {
			b := &r.Blocks[bi]
			kept := b.Items[:0]
			for _, idx := range b.Items {
				it := c.Items[idx]
				if float64(removedOf[it]) < cfg.MaxRemovalFraction*float64(total[it]) {
					removedOf[it]++
					removed = append(removed, idx)
					continue
				}
				kept = append(kept, idx)
			}
			b.Items = kept
		}
	}
	if len(removed) == 0 {
		return keep
	}

	newWaste := eval.Evaluate(c)
	if !better(newWaste, origWaste) {
		return keep
	}
	c.Released = append(c.Released, removed...)
	return PruneResult{
		Solution:   c,
		Waste:      newWaste,
		TargetArea: targetArea - c.TotalArea(removed),
		Removed:    removed,
		Accepted:   true,
	}
}
