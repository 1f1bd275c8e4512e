package model

import (
	"math"
	"sort"
	"time"
)

// Result is the outcome of one optimization run.
type Result struct {
	RunID      string        `json:"run_id"`
	Algorithm  Algorithm     `json:"algorithm"`
	Solution   *Solution     `json:"solution,omitempty"`
	Waste      float64       `json:"-"`
	Valid      bool          `json:"valid"`
	TargetArea float64       `json:"target_area"`
	Restarts   int           `json:"restarts"`
	Completed  int           `json:"completed"`
	Cancelled  bool          `json:"cancelled"`
	Pruned     int           `json:"pruned"`
	Duration   time.Duration `json:"duration"`
}

// WasteDefined reports whether the waste ratio is a finite number.
func (r Result) WasteDefined() bool {
	return !math.IsInf(r.Waste, 0) && !math.IsNaN(r.Waste)
}

// UnassignedItems returns the items that could not be placed.
func (r Result) UnassignedItems() []Item {
	if r.Solution == nil {
		return nil
	}
	items := make([]Item, 0, len(r.Solution.Unassigned))
	for _, idx := range r.Solution.Unassigned {
		items = append(items, r.Solution.Items[idx])
	}
	return items
}

// TableRow is one block of the cutting plan in report form.
type TableRow struct {
	RollID string    `json:"roll_id"`
	Code   string    `json:"code,omitempty"`
	Block  int       `json:"block"`
	Width  float64   `json:"width"`
	Length float64   `json:"length"`
	Waste  float64   `json:"-"`
	Widths []float64 `json:"widths"` // assigned item widths, widest first
}

// Table flattens the non-empty blocks of the solution into report rows,
// ordered by roll width descending and then roll ID.
func (s *Solution) Table() []TableRow {
	var rows []TableRow
	for _, r := range s.Rolls {
		for bi, b := range r.Blocks {
			if len(b.Items) == 0 {
				continue
			}
			widths := make([]float64, len(b.Items))
			for i, idx := range b.Items {
				widths[i] = s.Items[idx].Width
			}
			sort.Sort(sort.Reverse(sort.Float64Slice(widths)))
			rows = append(rows, TableRow{
				RollID: r.ID,
				Code:   r.Code,
				Block:  bi + 1,
				Width:  r.Width,
				Length: b.Length,
				Waste:  b.Waste,
				Widths: widths,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Width != rows[j].Width {
			return rows[i].Width > rows[j].Width
		}
		return rows[i].RollID < rows[j].RollID
	})
	return rows
}

// MaxItemsPerBlock returns the widest row of the table, used to size
// report columns.
func MaxItemsPerBlock(rows []TableRow) int {
	n := 0
	for _, r := range rows {
		if len(r.Widths) > n {
			n = len(r.Widths)
		}
	}
	return n
}
