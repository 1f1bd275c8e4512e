// Package lp describes linear and integer programs independently of the
// backend that solves them.
package lp

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrInfeasible is returned when the solver proves the problem has no
	// feasible point, or gives up without finding one.
	ErrInfeasible = errors.New("lp: no feasible solution")
	// ErrNoSolver is returned when a strategy needs a solver and none is configured.
	ErrNoSolver = errors.New("lp: no solver configured")
)

// Kind is the domain of a variable.
type Kind int

const (
	Continuous Kind = iota
	Integer
	Binary
)

// Sense is the relation of a constraint row to its right-hand side.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Direction of the objective.
type Direction int

const (
	Minimize Direction = iota
	Maximize
)

// Variable is one column of the problem. Use math.Inf for unbounded sides.
type Variable struct {
	Name  string
	Kind  Kind
	Lower float64
	Upper float64
}

// Term is a coefficient applied to a variable, referenced by index.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is one row: Σ terms (sense) RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem is a complete linear or mixed-integer program.
type Problem struct {
	Name        string
	Direction   Direction
	Vars        []Variable
	Objective   []Term
	Constraints []Constraint
}

// AddVar appends a variable and returns its index.
func (p *Problem) AddVar(v Variable) int {
	if v.Kind == Binary {
		v.Lower, v.Upper = 0, 1
	}
	p.Vars = append(p.Vars, v)
	return len(p.Vars) - 1
}

// AddIntVar appends an integer variable bounded to [lower, upper].
func (p *Problem) AddIntVar(name string, lower, upper float64) int {
	return p.AddVar(Variable{Name: name, Kind: Integer, Lower: lower, Upper: upper})
}

// AddConstraint appends a row and returns its index.
func (p *Problem) AddConstraint(c Constraint) int {
	p.Constraints = append(p.Constraints, c)
	return len(p.Constraints) - 1
}

// Evaluate returns Σ coef * values[var] over the given terms.
func Evaluate(terms []Term, values []float64) float64 {
	var total float64
	for _, t := range terms {
		total += t.Coef * values[t.Var]
	}
	return total
}

// Feasible reports whether values satisfy every bound and row within tol.
func (p *Problem) Feasible(values []float64, tol float64) bool {
	if len(values) != len(p.Vars) {
		return false
	}
	for i, v := range p.Vars {
		x := values[i]
		if x < v.Lower-tol || x > v.Upper+tol {
			return false
		}
		if v.Kind != Continuous && math.Abs(x-math.Round(x)) > tol {
			return false
		}
	}
	for _, c := range p.Constraints {
		lhs := Evaluate(c.Terms, values)
		switch c.Sense {
		case LessEq:
			if lhs > c.RHS+tol {
				return false
			}
		case GreaterEq:
			if lhs < c.RHS-tol {
				return false
			}
		case Equal:
			if math.Abs(lhs-c.RHS) > tol {
				return false
			}
		}
	}
	return true
}

// Status of a solve.
type Status int

const (
	Undefined Status = iota
	Optimal
	Feasible
	Infeasible
	Unbounded
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Feasible:
		return "feasible"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	default:
		return "undefined"
	}
}

// Solution holds one value per problem variable, in variable order.
type Solution struct {
	Status    Status
	Values    []float64
	Objective float64
}

// Int returns the value of variable v rounded to the nearest integer.
func (s Solution) Int(v int) int {
	return int(math.Round(s.Values[v]))
}

// Solver solves a Problem. Implementations return ErrInfeasible (possibly
// wrapped) when no feasible point was found, and honour ctx cancellation.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Solution, error)
}
