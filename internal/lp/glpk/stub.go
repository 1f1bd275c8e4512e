//go:build !glpk

// Package glpk solves lp problems with the GLPK branch-and-cut solver. This
// build was compiled without the glpk tag and every solve fails with
// lp.ErrNoSolver.
package glpk

import (
	"context"
	"fmt"

	"github.com/piwi3910/RollSlit/internal/lp"
)

// Available reports whether the GLPK backend is compiled in.
const Available = false

type Solver struct{}

func New() *Solver {
	return &Solver{}
}

func (s *Solver) Solve(ctx context.Context, p *lp.Problem) (lp.Solution, error) {
	return lp.Solution{}, fmt.Errorf("glpk backend not built (use -tags glpk): %w", lp.ErrNoSolver)
}
