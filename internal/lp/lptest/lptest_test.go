package lptest

import (
	"context"
	"testing"

	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExhaustive_Knapsack(t *testing.T) {
	// max 5a + 3b s.t. 5a + 3b <= 11, a <= 2, b <= 3 -> 5*1 + 3*2 = 11
	var p lp.Problem
	p.Direction = lp.Maximize
	a := p.AddIntVar("a", 0, 2)
	b := p.AddIntVar("b", 0, 3)
	p.Objective = []lp.Term{{Var: a, Coef: 5}, {Var: b, Coef: 3}}
	p.AddConstraint(lp.Constraint{
		Terms: []lp.Term{{Var: a, Coef: 5}, {Var: b, Coef: 3}},
		Sense: lp.LessEq,
		RHS:   11,
	})

	var s Exhaustive
	sol, err := s.Solve(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, lp.Optimal, sol.Status)
	assert.InDelta(t, 11, sol.Objective, 1e-9)
	assert.Equal(t, 1, sol.Int(a))
	assert.Equal(t, 2, sol.Int(b))
	assert.Equal(t, 1, s.Calls)
}

func TestExhaustive_Infeasible(t *testing.T) {
	var p lp.Problem
	x := p.AddIntVar("x", 0, 3)
	p.AddConstraint(lp.Constraint{Terms: []lp.Term{{Var: x, Coef: 1}}, Sense: lp.Equal, RHS: 7})

	_, err := (&Exhaustive{}).Solve(context.Background(), &p)
	assert.ErrorIs(t, err, lp.ErrInfeasible)
}

func TestExhaustive_RejectsContinuous(t *testing.T) {
	var p lp.Problem
	p.AddVar(lp.Variable{Name: "c", Kind: lp.Continuous, Upper: 1})
	_, err := (&Exhaustive{}).Solve(context.Background(), &p)
	assert.Error(t, err)
}

func TestExhaustive_TooLarge(t *testing.T) {
	var p lp.Problem
	for i := 0; i < 4; i++ {
		p.AddIntVar("x", 0, 99)
	}
	_, err := (&Exhaustive{MaxPoints: 1000}).Solve(context.Background(), &p)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFunc(t *testing.T) {
	f := Func(func(ctx context.Context, p *lp.Problem) (lp.Solution, error) {
		return lp.Solution{Status: lp.Infeasible}, lp.ErrInfeasible
	})
	_, err := f.Solve(context.Background(), &lp.Problem{})
	assert.ErrorIs(t, err, lp.ErrInfeasible)
}
