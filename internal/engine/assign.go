package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/piwi3910/RollSlit/internal/model"
)

// Assigner places the solution's unassigned items into blocks. Items that
// fit nowhere stay in Solution.Unassigned, which is also returned.
type Assigner interface {
	Assign(s *model.Solution, rng *rand.Rand) []int
}

// NewAssigner returns the initial assigner for a heuristic algorithm.
func NewAssigner(alg model.Algorithm, s model.Settings) Assigner {
	switch alg {
	case model.AlgorithmBestFit:
		return BestFitSlack{}
	case model.AlgorithmSingleFirst:
		return SingleFirst{}
	default:
		return RandomFirstFit{LengthTolerance: s.LengthTolerance}
	}
}

// RandomFirstFit shuffles rolls, items and each roll's blocks, then puts
// every item into the first block with room and a compatible length.
type RandomFirstFit struct {
	LengthTolerance float64
}

func (a RandomFirstFit) Assign(s *model.Solution, rng *rand.Rand) []int {
	rollOrder := rng.Perm(len(s.Rolls))
	blockOrder := make([][]int, len(s.Rolls))
	for _, ri := range rollOrder {
		blockOrder[ri] = rng.Perm(len(s.Rolls[ri].Blocks))
	}
	pending := append([]int(nil), s.Unassigned...)
	rng.Shuffle(len(pending), func(i, j int) { pending[i], pending[j] = pending[j], pending[i] })

	var left []int
	for _, idx := range pending {
		item := s.Items[idx]
		placed := false
	rolls:
		for _, ri := range rollOrder {
			for _, bi := range blockOrder[ri] {
				ref := model.BlockRef{Roll: ri, Block: bi}
				b := s.Block(ref)
				if b.Fits(s.Items, item.Width) && b.LengthCompatible(item.Length, a.LengthTolerance) {
					s.Assign(ref, idx)
					placed = true
					break rolls
				}
			}
		}
		if !placed {
			left = append(left, idx)
		}
	}
	s.Unassigned = left
	return left
}

// BestFitSlack places items widest first into the block leaving the least
// non-negative slack. Length compatibility is not checked.
type BestFitSlack struct{}

func (BestFitSlack) Assign(s *model.Solution, rng *rand.Rand) []int {
	var left []int
	for _, idx := range widestFirst(s) {
		if ref, ok := bestFit(s, s.Items[idx].Width); ok {
			s.Assign(ref, idx)
		} else {
			left = append(left, idx)
		}
	}
	s.Unassigned = left
	return left
}

// SingleFirst places items widest first into the first block of a roll
// that is still completely empty, falling back to best fit once no wide
// enough empty roll remains.
type SingleFirst struct{}

func (SingleFirst) Assign(s *model.Solution, rng *rand.Rand) []int {
	var left []int
	for _, idx := range widestFirst(s) {
		width := s.Items[idx].Width
		placed := false
		for ri := range s.Rolls {
			r := &s.Rolls[ri]
			if r.IsEmpty() && len(r.Blocks) > 0 && r.Width+model.WidthEpsilon >= width {
				s.Assign(model.BlockRef{Roll: ri}, idx)
				placed = true
				break
			}
		}
		if !placed {
			if ref, ok := bestFit(s, width); ok {
				s.Assign(ref, idx)
				placed = true
			}
		}
		if !placed {
			left = append(left, idx)
		}
	}
	s.Unassigned = left
	return left
}

func widestFirst(s *model.Solution) []int {
	order := append([]int(nil), s.Unassigned...)
	sort.SliceStable(order, func(i, j int) bool {
		return s.Items[order[i]].Width > s.Items[order[j]].Width
	})
	return order
}

func bestFit(s *model.Solution, width float64) (model.BlockRef, bool) {
	var best model.BlockRef
	bestSlack := math.Inf(1)
	found := false
	for ri := range s.Rolls {
		for bi := range s.Rolls[ri].Blocks {
			ref := model.BlockRef{Roll: ri, Block: bi}
			slack := s.Block(ref).RemainingWidth(s.Items) - width
			if slack >= -model.WidthEpsilon && slack < bestSlack {
				best, bestSlack, found = ref, slack, true
			}
		}
	}
	return best, found
}
