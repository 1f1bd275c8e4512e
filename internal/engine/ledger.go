package engine

import (
	"sort"

	"github.com/piwi3910/RollSlit/internal/model"
)

// DemandLedger tracks the outstanding demand per item width as stacks of
// item indices. Take pops the most recently released index, so releasing a
// block's items and taking them back in reverse order restores them
// exactly.
type DemandLedger struct {
	stacks map[float64][]int
	widths []float64 // ascending
}

// NewDemandLedger builds a ledger over the given item indices.
func NewDemandLedger(items []model.Item, indices []int) *DemandLedger {
	d := &DemandLedger{stacks: make(map[float64][]int)}
	for _, idx := range indices {
		d.Release(items[idx].Width, idx)
	}
	return d
}

// Release returns an item to the ledger.
func (d *DemandLedger) Release(width float64, idx int) {
	if _, ok := d.stacks[width]; !ok {
		d.widths = append(d.widths, width)
		sort.Float64s(d.widths)
	}
	d.stacks[width] = append(d.stacks[width], idx)
}

// Take removes one item of the given width from the ledger.
func (d *DemandLedger) Take(width float64) (int, bool) {
	st := d.stacks[width]
	if len(st) == 0 {
		return 0, false
	}
	idx := st[len(st)-1]
	d.stacks[width] = st[:len(st)-1]
	return idx, true
}

// Remaining returns the outstanding count for a width.
func (d *DemandLedger) Remaining(width float64) int {
	return len(d.stacks[width])
}

// Widths returns every width the ledger has seen, ascending.
func (d *DemandLedger) Widths() []float64 {
	return append([]float64(nil), d.widths...)
}

// Total returns the outstanding count over all widths.
func (d *DemandLedger) Total() int {
	n := 0
	for _, st := range d.stacks {
		n += len(st)
	}
	return n
}

// Empty reports whether no demand is outstanding.
func (d *DemandLedger) Empty() bool {
	return d.Total() == 0
}

// Outstanding lists the indices still in the ledger, by ascending width.
func (d *DemandLedger) Outstanding() []int {
	var out []int
	for _, w := range d.widths {
		out = append(out, d.stacks[w]...)
	}
	return out
}
