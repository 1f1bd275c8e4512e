package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/RollSlit/internal/model"
)

// MoveKind reports what a perturbation did.
type MoveKind int

const (
	MoveNone MoveKind = iota // item returned to its donor block
	MoveRelocate
	MoveSwap
)

func (k MoveKind) String() string {
	switch k {
	case MoveRelocate:
		return "relocate"
	case MoveSwap:
		return "swap"
	default:
		return "none"
	}
}

// Perturber moves one item out of a high-waste block, or swaps it with an
// item of another block when no direct move fits. Block.Waste must be
// current (see WasteEvaluator.Evaluate).
type Perturber struct {
	LengthTolerance   float64
	TopWasteFraction  float64 // donor pool in ranking mode
	WasteThreshold    float64 // > 0 switches to threshold mode
	GreedyProbability float64 // chance of taking the worst multi-item block
	AllowSwaps        bool
}

// NewPerturber returns the perturber configured by settings.
func NewPerturber(s model.Settings) Perturber {
	return Perturber{
		LengthTolerance:   s.LengthTolerance,
		TopWasteFraction:  s.Perturb.TopWasteFraction,
		WasteThreshold:    s.Perturb.WasteThreshold,
		GreedyProbability: s.Perturb.GreedyProbability,
		AllowSwaps:        s.Perturb.AllowSwaps,
	}
}

// Perturb returns a perturbed copy of s. s itself is never modified.
func (p Perturber) Perturb(s *model.Solution, rng *rand.Rand) (*model.Solution, MoveKind) {
	c := s.Clone()
	donors := p.donors(c)
	if len(donors) == 0 {
		return c, MoveNone
	}
	donorRef := p.pickDonor(c, donors, rng)
	donor := c.Block(donorRef)

	pos := rng.Intn(len(donor.Items))
	idx := donor.Items[pos]
	donor.Items = append(donor.Items[:pos], donor.Items[pos+1:]...)
	item := c.Items[idx]

	targets := c.BlockRefs()
	rng.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })

	for _, ref := range targets {
		if ref == donorRef {
			continue
		}
		b := c.Block(ref)
		if b.Fits(c.Items, item.Width) && b.LengthCompatible(item.Length, p.LengthTolerance) {
			c.Assign(ref, idx)
			return c, MoveRelocate
		}
	}

	if p.AllowSwaps && p.swap(c, donorRef, idx, targets) {
		return c, MoveSwap
	}

	donor.Items = append(donor.Items, 0)
	copy(donor.Items[pos+1:], donor.Items[pos:])
	donor.Items[pos] = idx
	return c, MoveNone
}

// donors returns the candidate donor blocks: the top fraction of non-empty
// blocks by waste, or in threshold mode every non-empty block at or above
// the threshold, falling back to all non-empty blocks.
func (p Perturber) donors(s *model.Solution) []model.BlockRef {
	var nonEmpty []model.BlockRef
	for _, ref := range s.BlockRefs() {
		if len(s.Block(ref).Items) > 0 {
			nonEmpty = append(nonEmpty, ref)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	if p.WasteThreshold > 0 {
		var over []model.BlockRef
		for _, ref := range nonEmpty {
			if s.Block(ref).Waste >= p.WasteThreshold {
				over = append(over, ref)
			}
		}
		if len(over) == 0 {
			return nonEmpty
		}
		return over
	}

	sort.SliceStable(nonEmpty, func(i, j int) bool {
		return better(s.Block(nonEmpty[j]).Waste, s.Block(nonEmpty[i]).Waste)
	})
	n := int(float64(len(nonEmpty)) * p.TopWasteFraction)
	if n < 1 {
		n = 1
	}
	return nonEmpty[:n]
}

func (p Perturber) pickDonor(s *model.Solution, donors []model.BlockRef, rng *rand.Rand) model.BlockRef {
	if p.GreedyProbability > 0 && rng.Float64() < p.GreedyProbability {
		var worst model.BlockRef
		found := false
		for _, ref := range donors {
			b := s.Block(ref)
			if len(b.Items) < 2 {
				continue
			}
			if !found || better(s.Block(worst).Waste, b.Waste) {
				worst, found = ref, true
			}
		}
		if found {
			return worst
		}
	}
	return donors[rng.Intn(len(donors))]
}

// swap exchanges idx (already removed from the donor) with an item of a
// target block when both blocks stay within width and both lengths stay
// compatible.
func (p Perturber) swap(s *model.Solution, donorRef model.BlockRef, idx int, targets []model.BlockRef) bool {
	donor := s.Block(donorRef)
	item := s.Items[idx]
	donorFree := donor.RemainingWidth(s.Items)

	for _, ref := range targets {
		if ref == donorRef {
			continue
		}
		b := s.Block(ref)
		if !b.LengthCompatible(item.Length, p.LengthTolerance) {
			continue
		}
		free := b.RemainingWidth(s.Items)
		for j, other := range b.Items {
			o := s.Items[other]
			if donorFree+model.WidthEpsilon < o.Width || free+o.Width+model.WidthEpsilon < item.Width {
				continue
			}
			if !donor.LengthCompatible(o.Length, p.LengthTolerance) {
				continue
			}
			b.Items[j] = idx
			donor.Items = append(donor.Items, other)
			return true
		}
	}
	return false
}
