package engine

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/piwi3910/RollSlit/internal/model"
)

// BlockReport describes how one block ended up after column generation.
type BlockReport struct {
	Ref    model.BlockRef
	Used   float64
	Unused float64
	Forced bool // filled by the smallest-fitting fallback
}

// ColumnResult is the outcome of ColumnGeneration.Optimize.
type ColumnResult struct {
	Solution     *model.Solution
	Blocks       []BlockReport
	Improvements int
	Solves       int
}

// ColumnGeneration fills blocks one at a time with a bounded knapsack over
// the outstanding demand per width. Length compatibility is not enforced.
type ColumnGeneration struct {
	Solver                lp.Solver
	Epsilon               float64
	ImprovementIterations int
	Logger                *zap.Logger
}

// Optimize assigns the unassigned items of a copy of s. Items left in the
// ledger after all passes are reported as unassigned.
func (c ColumnGeneration) Optimize(ctx context.Context, s *model.Solution) (ColumnResult, error) {
	if c.Solver == nil {
		return ColumnResult{}, lp.ErrNoSolver
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	sol := s.Clone()
	ledger := NewDemandLedger(sol.Items, sol.Unassigned)
	res := ColumnResult{Solution: sol}

	for _, ref := range sol.BlockRefs() {
		b := sol.Block(ref)
		report := BlockReport{Ref: ref, Unused: b.Width}
		if ledger.Empty() {
			res.Blocks = append(res.Blocks, report)
			continue
		}
		pattern, err := c.solveBlock(ctx, b.Width, ledger)
		res.Solves++
		if err != nil {
			return res, err
		}
		if len(pattern) == 0 {
			w, ok := smallestFitting(ledger, b.Width)
			if !ok {
				res.Blocks = append(res.Blocks, report)
				continue
			}
			pattern = map[float64]int{w: 1}
			report.Forced = true
		}
		b.Items = takePattern(ledger, pattern)
		report.Used = b.UsedWidth(sol.Items)
		report.Unused = b.Width - report.Used
		res.Blocks = append(res.Blocks, report)
	}

	for iter := 0; iter < c.ImprovementIterations; iter++ {
		improved := false
		for bi, report := range res.Blocks {
			b := sol.Block(report.Ref)
			current := b.UsedWidth(sol.Items)
			for _, idx := range b.Items {
				ledger.Release(sol.Items[idx].Width, idx)
			}
			pattern, err := c.solveBlock(ctx, b.Width, ledger)
			res.Solves++
			if err != nil {
				return res, err
			}
			if patternWidth(pattern) > current+model.WidthEpsilon {
				b.Items = takePattern(ledger, pattern)
				res.Blocks[bi].Used = b.UsedWidth(sol.Items)
				res.Blocks[bi].Unused = b.Width - res.Blocks[bi].Used
				res.Blocks[bi].Forced = false
				res.Improvements++
				improved = true
				continue
			}
			for j := len(b.Items) - 1; j >= 0; j-- {
				ledger.Take(sol.Items[b.Items[j]].Width)
			}
		}
		if !improved {
			break
		}
	}

	sol.Unassigned = ledger.Outstanding()
	if n := len(sol.Unassigned); n > 0 {
		log.Debug("column generation left items unassigned", zap.Int("count", n))
	}
	return res, nil
}

// solveBlock solves max Σ w·x s.t. Σ w·x <= capacity+ε, x_w <= remaining_w.
func (c ColumnGeneration) solveBlock(ctx context.Context, capacity float64, ledger *DemandLedger) (map[float64]int, error) {
	limit := capacity + c.Epsilon
	var p lp.Problem
	p.Name = "knapsack_block"
	p.Direction = lp.Maximize
	var widths []float64
	var terms []lp.Term
	for _, w := range ledger.Widths() {
		n := ledger.Remaining(w)
		if n == 0 || w <= 0 || w > limit {
			continue
		}
		upper := math.Min(float64(n), math.Floor(limit/w))
		v := p.AddIntVar(fmt.Sprintf("x_%g", w), 0, upper)
		widths = append(widths, w)
		terms = append(terms, lp.Term{Var: v, Coef: w})
	}
	if len(widths) == 0 {
		return nil, nil
	}
	p.Objective = terms
	p.AddConstraint(lp.Constraint{Name: "capacity", Terms: terms, Sense: lp.LessEq, RHS: limit})

	sol, err := c.Solver.Solve(ctx, &p)
	if err != nil {
		return nil, fmt.Errorf("knapsack solve: %w", err)
	}
	pattern := make(map[float64]int)
	for i, w := range widths {
		if n := sol.Int(i); n > 0 {
			pattern[w] = n
		}
	}
	return pattern, nil
}

func smallestFitting(ledger *DemandLedger, capacity float64) (float64, bool) {
	for _, w := range ledger.Widths() {
		if ledger.Remaining(w) > 0 && w <= capacity+model.WidthEpsilon {
			return w, true
		}
	}
	return 0, false
}

func takePattern(ledger *DemandLedger, pattern map[float64]int) []int {
	var out []int
	for _, w := range ledger.Widths() {
		for n := pattern[w]; n > 0; n-- {
			idx, ok := ledger.Take(w)
			if !ok {
				break
			}
			out = append(out, idx)
		}
	}
	return out
}

func patternWidth(pattern map[float64]int) float64 {
	var total float64
	for w, n := range pattern {
		total += w * float64(n)
	}
	return total
}
