package model

import (
	"math"

	"github.com/google/uuid"
)

// WidthEpsilon absorbs floating point noise in width feasibility checks.
const WidthEpsilon = 1e-9

// Item is one unit of product demand. Items are values: two items with the
// same width, length and area are the same item type.
type Item struct {
	Width  float64 `json:"width"`  // cross-roll dimension
	Length float64 `json:"length"` // intended cut length
	Area   float64 `json:"area"`   // share of the order line's area quota
}

// Block is one equal-length slice of a roll. Items holds indices into the
// owning Solution's item arena.
type Block struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Items  []int   `json:"items"`
	Waste  float64 `json:"-"` // written by the waste evaluator
}

// UsedWidth returns the summed width of the items assigned to the block.
func (b Block) UsedWidth(items []Item) float64 {
	var total float64
	for _, idx := range b.Items {
		total += items[idx].Width
	}
	return total
}

// RemainingWidth returns how much width is still free in the block.
func (b Block) RemainingWidth(items []Item) float64 {
	return b.Width - b.UsedWidth(items)
}

// Fits reports whether an item of the given width can still be placed.
func (b Block) Fits(items []Item, width float64) bool {
	return b.RemainingWidth(items)+WidthEpsilon >= width
}

// LengthCompatible reports whether an item length is within tol of the
// block length, relative to the block length.
func (b Block) LengthCompatible(length, tol float64) bool {
	if b.Length <= 0 {
		return false
	}
	return math.Abs(b.Length-length)/b.Length <= tol+WidthEpsilon
}

// Roll is one physical master stock roll, partitioned into blocks of
// AllocatedLength each.
type Roll struct {
	ID              string  `json:"id"`
	Code            string  `json:"code,omitempty"`
	Width           float64 `json:"width"`
	TotalLength     float64 `json:"total_length"`
	AllocatedLength float64 `json:"allocated_length"`
	Blocks          []Block `json:"blocks"`
}

// NewRoll creates a roll with numBlocks empty blocks sharing
// totalLength/numBlocks. numBlocks below one is treated as one.
func NewRoll(id string, width, totalLength float64, numBlocks int) Roll {
	if numBlocks < 1 {
		numBlocks = 1
	}
	if id == "" {
		id = uuid.New().String()[:8]
	}
	allocated := totalLength / float64(numBlocks)
	blocks := make([]Block, numBlocks)
	for i := range blocks {
		blocks[i] = Block{Width: width, Length: allocated, Waste: math.Inf(1)}
	}
	return Roll{
		ID:              id,
		Width:           width,
		TotalLength:     totalLength,
		AllocatedLength: allocated,
		Blocks:          blocks,
	}
}

// IsEmpty reports whether no block of the roll holds an item.
func (r Roll) IsEmpty() bool {
	for _, b := range r.Blocks {
		if len(b.Items) > 0 {
			return false
		}
	}
	return true
}

// BlockRef addresses a block inside a Solution.
type BlockRef struct {
	Roll  int
	Block int
}

// Solution is the full assignment of items onto rolls. Items is an arena
// shared by all clones of a solution and must not be mutated; blocks refer
// to it by index.
type Solution struct {
	Items      []Item `json:"items"`
	Rolls      []Roll `json:"rolls"`
	Unassigned []int  `json:"unassigned,omitempty"`
	Released   []int  `json:"released,omitempty"` // dropped from demand by pruning
}

// NewSolution creates a solution over the given items and rolls with every
// item unassigned.
func NewSolution(items []Item, rolls []Roll) *Solution {
	unassigned := make([]int, len(items))
	for i := range unassigned {
		unassigned[i] = i
	}
	return &Solution{Items: items, Rolls: rolls, Unassigned: unassigned}
}

// Clone copies the assignment structure. The item arena is shared.
func (s *Solution) Clone() *Solution {
	c := &Solution{
		Items:      s.Items,
		Rolls:      make([]Roll, len(s.Rolls)),
		Unassigned: append([]int(nil), s.Unassigned...),
		Released:   append([]int(nil), s.Released...),
	}
	for i, r := range s.Rolls {
		cr := r
		cr.Blocks = make([]Block, len(r.Blocks))
		for j, b := range r.Blocks {
			cb := b
			cb.Items = append([]int(nil), b.Items...)
			cr.Blocks[j] = cb
		}
		c.Rolls[i] = cr
	}
	return c
}

// Block returns a pointer to the referenced block.
func (s *Solution) Block(ref BlockRef) *Block {
	return &s.Rolls[ref.Roll].Blocks[ref.Block]
}

// BlockRefs lists every block of the solution in roll order.
func (s *Solution) BlockRefs() []BlockRef {
	var refs []BlockRef
	for ri, r := range s.Rolls {
		for bi := range r.Blocks {
			refs = append(refs, BlockRef{Roll: ri, Block: bi})
		}
	}
	return refs
}

// Assign appends an item to a block.
func (s *Solution) Assign(ref BlockRef, item int) {
	b := s.Block(ref)
	b.Items = append(b.Items, item)
}

// AssignedCount returns the number of items placed in blocks.
func (s *Solution) AssignedCount() int {
	n := 0
	for _, r := range s.Rolls {
		for _, b := range r.Blocks {
			n += len(b.Items)
		}
	}
	return n
}

// Demand returns the number of items the solution still has to place.
func (s *Solution) Demand() int {
	return len(s.Items) - len(s.Released)
}

// IsValid reports whether every demanded item sits in a block.
func (s *Solution) IsValid() bool {
	return s.AssignedCount() == s.Demand() && len(s.Unassigned) == 0
}

// CheckConservation reports whether every item of the arena is accounted
// for exactly once across blocks, the unassigned list and the released list.
func (s *Solution) CheckConservation() bool {
	seen := make([]int, len(s.Items))
	mark := func(idx int) bool {
		if idx < 0 || idx >= len(seen) {
			return false
		}
		seen[idx]++
		return true
	}
	for _, r := range s.Rolls {
		for _, b := range r.Blocks {
			for _, idx := range b.Items {
				if !mark(idx) {
					return false
				}
			}
		}
	}
	for _, idx := range s.Unassigned {
		if !mark(idx) {
			return false
		}
	}
	for _, idx := range s.Released {
		if !mark(idx) {
			return false
		}
	}
	for _, n := range seen {
		if n != 1 {
			return false
		}
	}
	return true
}

// WidthFeasible reports whether no block is loaded beyond its width plus tol.
func (s *Solution) WidthFeasible(tol float64) bool {
	for _, r := range s.Rolls {
		for _, b := range r.Blocks {
			if b.UsedWidth(s.Items) > b.Width+tol+WidthEpsilon {
				return false
			}
		}
	}
	return true
}

// TotalArea sums the area quota of the given items.
func (s *Solution) TotalArea(indices []int) float64 {
	var total float64
	for _, idx := range indices {
		total += s.Items[idx].Area
	}
	return total
}
