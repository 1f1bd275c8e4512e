// Package lptest provides solvers for tests that do not need a real
// integer-programming backend.
package lptest

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/piwi3910/RollSlit/internal/lp"
)

// ErrTooLarge is returned when the search space exceeds MaxPoints.
var ErrTooLarge = errors.New("lptest: problem too large to enumerate")

// Exhaustive solves small bounded integer programs by enumerating every
// point of the box. Continuous and unbounded variables are rejected.
type Exhaustive struct {
	// MaxPoints caps the enumerated box size. Zero means 1e6.
	MaxPoints float64
	// Calls counts Solve invocations.
	Calls int
}

const feasTol = 1e-9

func (e *Exhaustive) Solve(ctx context.Context, p *lp.Problem) (lp.Solution, error) {
	e.Calls++
	limit := e.MaxPoints
	if limit == 0 {
		limit = 1e6
	}
	size := 1.0
	lo := make([]int, len(p.Vars))
	hi := make([]int, len(p.Vars))
	for i, v := range p.Vars {
		if v.Kind == lp.Continuous {
			return lp.Solution{}, fmt.Errorf("lptest: variable %q is continuous", v.Name)
		}
		if math.IsInf(v.Lower, 0) || math.IsInf(v.Upper, 0) {
			return lp.Solution{}, fmt.Errorf("lptest: variable %q is unbounded", v.Name)
		}
		lo[i] = int(math.Ceil(v.Lower - feasTol))
		hi[i] = int(math.Floor(v.Upper + feasTol))
		if hi[i] < lo[i] {
			return lp.Solution{Status: lp.Infeasible}, lp.ErrInfeasible
		}
		size *= float64(hi[i] - lo[i] + 1)
	}
	if size > limit {
		return lp.Solution{}, ErrTooLarge
	}

	point := make([]float64, len(p.Vars))
	for i := range point {
		point[i] = float64(lo[i])
	}
	var best []float64
	bestObj := 0.0
	n := 0
	for {
		n++
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return lp.Solution{}, err
			}
		}
		if p.Feasible(point, feasTol) {
			obj := lp.Evaluate(p.Objective, point)
			if best == nil || better(p.Direction, obj, bestObj) {
				best = append(best[:0], point...)
				bestObj = obj
			}
		}
		if !next(point, lo, hi) {
			break
		}
	}
	if best == nil {
		return lp.Solution{Status: lp.Infeasible}, lp.ErrInfeasible
	}
	return lp.Solution{Status: lp.Optimal, Values: best, Objective: bestObj}, nil
}

func better(dir lp.Direction, a, b float64) bool {
	if dir == lp.Maximize {
		return a > b+feasTol
	}
	return a < b-feasTol
}

// next advances point like an odometer and reports false after the last point.
func next(point []float64, lo, hi []int) bool {
	for i := range point {
		if int(point[i]) < hi[i] {
			point[i]++
			return true
		}
		point[i] = float64(lo[i])
	}
	return false
}

// Func adapts a function into an lp.Solver.
type Func func(ctx context.Context, p *lp.Problem) (lp.Solution, error)

func (f Func) Solve(ctx context.Context, p *lp.Problem) (lp.Solution, error) {
	return f(ctx, p)
}
