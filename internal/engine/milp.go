package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/piwi3910/RollSlit/internal/model"
)

// GlobalProgram assigns every item type to blocks with one integer
// program minimizing total unused area.
type GlobalProgram struct {
	Solver     lp.Solver
	AreaFactor float64
}

// itemType groups identical items; the item value is the type key.
type itemType struct {
	item    model.Item
	indices []int
}

func groupTypes(s *model.Solution) []itemType {
	var types []itemType
	pos := make(map[model.Item]int)
	for _, idx := range s.Unassigned {
		it := s.Items[idx]
		p, ok := pos[it]
		if !ok {
			p = len(types)
			pos[it] = p
			types = append(types, itemType{item: it})
		}
		types[p].indices = append(types[p].indices, idx)
	}
	return types
}

// Formulate builds the program for the unassigned items of s. x[b][t] is
// the count of type t in block b, y[b] marks block b as used.
func (g GlobalProgram) Formulate(s *model.Solution) (*lp.Problem, [][]int, []int) {
	k := g.AreaFactor
	if k <= 0 {
		k = model.DefaultAreaFactor
	}
	types := groupTypes(s)
	refs := s.BlockRefs()

	p := &lp.Problem{Name: "roll_assignment", Direction: lp.Minimize}
	x := make([][]int, len(refs))
	y := make([]int, len(refs))
	for bi, ref := range refs {
		b := s.Block(ref)
		x[bi] = make([]int, len(types))
		for ti, t := range types {
			upper := float64(len(t.indices))
			if t.item.Width > 0 {
				upper = math.Min(upper, math.Floor((b.Width+model.WidthEpsilon)/t.item.Width))
			}
			x[bi][ti] = p.AddIntVar(fmt.Sprintf("x_%d_%d", bi, ti), 0, upper)
			p.Objective = append(p.Objective, lp.Term{Var: x[bi][ti], Coef: -b.Length * k * t.item.Width})
		}
		y[bi] = p.AddVar(lp.Variable{Name: fmt.Sprintf("y_%d", bi), Kind: lp.Binary})
		p.Objective = append(p.Objective, lp.Term{Var: y[bi], Coef: b.Length * k * b.Width})
	}

	for ti, t := range types {
		terms := make([]lp.Term, len(refs))
		for bi := range refs {
			terms[bi] = lp.Term{Var: x[bi][ti], Coef: 1}
		}
		p.AddConstraint(lp.Constraint{
			Name:  fmt.Sprintf("demand_%d", ti),
			Terms: terms,
			Sense: lp.Equal,
			RHS:   float64(len(t.indices)),
		})
	}
	for bi, ref := range refs {
		b := s.Block(ref)
		terms := make([]lp.Term, 0, len(types)+1)
		for ti, t := range types {
			terms = append(terms, lp.Term{Var: x[bi][ti], Coef: t.item.Width})
		}
		terms = append(terms, lp.Term{Var: y[bi], Coef: -b.Width})
		p.AddConstraint(lp.Constraint{
			Name:  fmt.Sprintf("capacity_%d", bi),
			Terms: terms,
			Sense: lp.LessEq,
			RHS:   0,
		})
	}
	return p, x, y
}

// Optimize solves the program once and maps the counts back onto a copy
// of s.
func (g GlobalProgram) Optimize(ctx context.Context, s *model.Solution) (*model.Solution, error) {
	if g.Solver == nil {
		return nil, lp.ErrNoSolver
	}
	if len(s.Unassigned) == 0 {
		return s.Clone(), nil
	}
	p, x, _ := g.Formulate(s)
	res, err := g.Solver.Solve(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("global program: %w", err)
	}

	sol := s.Clone()
	types := groupTypes(sol)
	next := make([]int, len(types))
	for bi, ref := range sol.BlockRefs() {
		for ti, t := range types {
			for n := res.Int(x[bi][ti]); n > 0 && next[ti] < len(t.indices); n-- {
				sol.Assign(ref, t.indices[next[ti]])
				next[ti]++
			}
		}
	}
	var left []int
	for ti, t := range types {
		left = append(left, t.indices[next[ti]:]...)
	}
	sol.Unassigned = left
	return sol, nil
}
