//go:build glpk

// Package glpk solves lp problems with the GLPK branch-and-cut solver.
package glpk

import (
	"context"
	"fmt"
	"math"

	"github.com/lukpank/go-glpk/glpk"

	"github.com/piwi3910/RollSlit/internal/lp"
)

// Available reports whether the GLPK backend is compiled in.
const Available = true

// Solver runs glp_intopt with presolve enabled.
type Solver struct{}

// New returns a GLPK-backed solver.
func New() *Solver {
	return &Solver{}
}

type outcome struct {
	sol lp.Solution
	err error
}

// Solve builds the problem and runs the MIP solver. The C call cannot be
// interrupted; on cancellation Solve returns ctx.Err() and the solve is
// left to finish in the background.
func (s *Solver) Solve(ctx context.Context, p *lp.Problem) (lp.Solution, error) {
	done := make(chan outcome, 1)
	go func() {
		prob := build(p)
		defer prob.Delete()
		sol, err := run(prob, len(p.Vars))
		done <- outcome{sol, err}
	}()

	select {
	case <-ctx.Done():
		return lp.Solution{}, ctx.Err()
	case out := <-done:
		return out.sol, out.err
	}
}

func build(p *lp.Problem) *glpk.Prob {
	prob := glpk.New()
	prob.SetProbName(p.Name)
	if p.Direction == lp.Maximize {
		prob.SetObjDir(glpk.MAX)
	} else {
		prob.SetObjDir(glpk.MIN)
	}

	if n := len(p.Vars); n > 0 {
		first := prob.AddCols(n)
		for i, v := range p.Vars {
			col := first + i
			prob.SetColName(col, v.Name)
			switch v.Kind {
			case lp.Integer:
				prob.SetColKind(col, glpk.IV)
			case lp.Binary:
				prob.SetColKind(col, glpk.BV)
			default:
				prob.SetColKind(col, glpk.CV)
			}
			typ, lo, hi := bounds(v.Lower, v.Upper)
			prob.SetColBnds(col, typ, lo, hi)
		}
	}
	for _, t := range p.Objective {
		prob.SetObjCoef(t.Var+1, t.Coef)
	}

	if m := len(p.Constraints); m > 0 {
		first := prob.AddRows(m)
		for i, c := range p.Constraints {
			row := first + i
			prob.SetRowName(row, c.Name)
			// index 0 is ignored by glp_set_mat_row
			ind := make([]int32, 1, len(c.Terms)+1)
			val := make([]float64, 1, len(c.Terms)+1)
			for _, t := range c.Terms {
				ind = append(ind, int32(t.Var+1))
				val = append(val, t.Coef)
			}
			prob.SetMatRow(row, ind, val)
			switch c.Sense {
			case lp.LessEq:
				prob.SetRowBnds(row, glpk.UP, 0, c.RHS)
			case lp.GreaterEq:
				prob.SetRowBnds(row, glpk.LO, c.RHS, 0)
			case lp.Equal:
				prob.SetRowBnds(row, glpk.FX, c.RHS, c.RHS)
			}
		}
	}
	return prob
}

func bounds(lo, hi float64) (glpk.BndsType, float64, float64) {
	loInf, hiInf := math.IsInf(lo, -1), math.IsInf(hi, 1)
	switch {
	case loInf && hiInf:
		return glpk.FR, 0, 0
	case loInf:
		return glpk.UP, 0, hi
	case hiInf:
		return glpk.LO, lo, 0
	case lo == hi:
		return glpk.FX, lo, hi
	default:
		return glpk.DB, lo, hi
	}
}

func run(prob *glpk.Prob, n int) (lp.Solution, error) {
	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	if err := prob.Intopt(iocp); err != nil {
		return lp.Solution{Status: lp.Undefined}, fmt.Errorf("glpk intopt: %w", err)
	}

	var status lp.Status
	switch prob.MipStatus() {
	case glpk.OPT:
		status = lp.Optimal
	case glpk.FEAS:
		status = lp.Feasible
	case glpk.NOFEAS:
		return lp.Solution{Status: lp.Infeasible}, lp.ErrInfeasible
	default:
		return lp.Solution{Status: lp.Undefined}, fmt.Errorf("glpk status undefined: %w", lp.ErrInfeasible)
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = prob.MipColVal(i + 1)
	}
	return lp.Solution{Status: status, Values: values, Objective: prob.MipObjVal()}, nil
}
