package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/piwi3910/RollSlit/internal/lp"
	"github.com/piwi3910/RollSlit/internal/model"
)

var (
	ErrNoItems         = errors.New("no items to assign")
	ErrNoRolls         = errors.New("no rolls in inventory")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrInvalidItem     = errors.New("invalid item")
)

// Observer receives run events. metrics.Recorder implements it.
type Observer interface {
	RestartDone(alg model.Algorithm, res SearchResult)
	RunDone(res model.Result)
}

type nopObserver struct{}

func (nopObserver) RestartDone(model.Algorithm, SearchResult) {}
func (nopObserver) RunDone(model.Result)                      {}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSolver sets the integer-program solver used by the exact strategies.
func WithSolver(s lp.Solver) Option {
	return func(o *Optimizer) { o.solver = s }
}

// WithProgress registers a sink called with a non-decreasing percentage
// in [0,100] once per completed restart.
func WithProgress(fn func(percent int)) Option {
	return func(o *Optimizer) { o.progress = fn }
}

// WithObserver registers an observer for restart and run events.
func WithObserver(obs Observer) Option {
	return func(o *Optimizer) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// Optimizer runs one of the assignment strategies over items and inventory.
type Optimizer struct {
	Settings model.Settings

	log      *zap.Logger
	solver   lp.Solver
	progress func(int)
	observer Observer
}

func New(settings model.Settings, opts ...Option) *Optimizer {
	o := &Optimizer{
		Settings: settings,
		log:      zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Input is what a strategy works on.
type Input struct {
	Items []model.Item
	Rows  []model.InventoryRow
}

// Outcome is what a strategy produces before pruning.
type Outcome struct {
	Solution  *model.Solution
	Restarts  int
	Completed int
	Cancelled bool
}

// Strategy is one way of producing an assignment.
type Strategy interface {
	Run(ctx context.Context, in Input) (Outcome, error)
}

// Strategy returns the strategy for alg.
func (o *Optimizer) Strategy(alg model.Algorithm) Strategy {
	switch alg {
	case model.AlgorithmKnapsack:
		return columnStrategy{o}
	case model.AlgorithmMILP:
		return globalStrategy{o}
	default:
		return &restartStrategy{o: o, alg: alg, assigner: NewAssigner(alg, o.Settings)}
	}
}

// Optimize validates the input, runs the configured strategy, prunes
// heuristic results and scores the final solution. Result.Valid is false
// when some demanded item could not be placed.
func (o *Optimizer) Optimize(ctx context.Context, items []model.Item, rows []model.InventoryRow) (model.Result, error) {
	if len(items) == 0 {
		return model.Result{}, ErrNoItems
	}
	if len(rows) == 0 {
		return model.Result{}, ErrNoRolls
	}
	if err := validateItems(items); err != nil {
		return model.Result{}, err
	}
	if err := o.Settings.Validate(); err != nil {
		return model.Result{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	start := time.Now()
	alg := o.Settings.Algorithm
	in := Input{Items: items, Rows: rows}

	out, err := o.Strategy(alg).Run(ctx, in)
	if err != nil && alg.Exact() && o.Settings.FallbackToHeuristic && recoverable(ctx, err) {
		o.log.Warn("exact strategy failed, falling back to first-fit search",
			zap.String("algorithm", string(alg)), zap.Error(err))
		alg = model.AlgorithmFirstFit
		out, err = o.Strategy(alg).Run(ctx, in)
	}
	if err != nil {
		return model.Result{}, err
	}

	eval := NewWasteEvaluator(o.Settings)
	target := 0.0
	for _, it := range items {
		target += it.Area
	}
	res := model.Result{
		RunID:      uuid.New().String(),
		Algorithm:  alg,
		Solution:   out.Solution,
		TargetArea: target,
		Restarts:   out.Restarts,
		Completed:  out.Completed,
		Cancelled:  out.Cancelled,
	}
	res.Waste = eval.Evaluate(res.Solution)

	if !alg.Exact() && o.Settings.Prune.Enabled && !out.Cancelled {
		pr := PruneUnderutilized(res.Solution, target, PruneConfig{
			MinUtilization:     o.Settings.Prune.MinUtilization,
			MaxRemovalFraction: o.Settings.Prune.MaxRemovalFraction,
		}, eval)
		o.log.Info("pruning",
			zap.Bool("accepted", pr.Accepted),
			zap.Int("removed", len(pr.Removed)),
			zap.Float64("waste", pr.Waste))
		res.Solution, res.Waste, res.TargetArea = pr.Solution, pr.Waste, pr.TargetArea
		if pr.Accepted {
			res.Pruned = len(pr.Removed)
		}
	}

	res.Valid = res.Solution.IsValid()
	res.Duration = time.Since(start)
	o.log.Info("optimization finished",
		zap.String("run_id", res.RunID),
		zap.String("algorithm", string(res.Algorithm)),
		zap.Float64("waste", res.Waste),
		zap.Bool("valid", res.Valid),
		zap.Int("unassigned", len(res.Solution.Unassigned)),
		zap.Int("completed", res.Completed),
		zap.Bool("cancelled", res.Cancelled),
		zap.Duration("duration", res.Duration))
	o.observer.RunDone(res)
	return res, nil
}

// validateItems requires a positive finite width and length and a
// non-negative finite area on every item.
func validateItems(items []model.Item) error {
	for i, it := range items {
		switch {
		case !positive(it.Width):
			return fmt.Errorf("%w: item %d: width %g must be positive", ErrInvalidItem, i, it.Width)
		case !positive(it.Length):
			return fmt.Errorf("%w: item %d: length %g must be positive", ErrInvalidItem, i, it.Length)
		case it.Area < 0 || math.IsInf(it.Area, 0) || math.IsNaN(it.Area):
			return fmt.Errorf("%w: item %d: area %g must be non-negative", ErrInvalidItem, i, it.Area)
		}
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// recoverable reports whether an exact strategy failure may fall back to
// the heuristic path: infeasibility, or the solver timeout expiring while
// the caller's context is still live.
func recoverable(ctx context.Context, err error) bool {
	if errors.Is(err, lp.ErrInfeasible) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil
}

func (o *Optimizer) newSolution(in Input) *model.Solution {
	rolls := PartitionRolls(in.Rows, in.Items[0].Length, o.Settings.BlockRounding)
	return model.NewSolution(in.Items, rolls)
}

func (o *Optimizer) solverContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.Settings.SolverTimeout > 0 {
		return context.WithTimeout(ctx, o.Settings.SolverTimeout)
	}
	return context.WithCancel(ctx)
}

func (o *Optimizer) report(percent int) {
	if o.progress != nil {
		o.progress(percent)
	}
}

type columnStrategy struct{ o *Optimizer }

func (c columnStrategy) Run(ctx context.Context, in Input) (Outcome, error) {
	o := c.o
	if o.solver == nil {
		return Outcome{}, lp.ErrNoSolver
	}
	ctx, cancel := o.solverContext(ctx)
	defer cancel()

	cg := ColumnGeneration{
		Solver:                o.solver,
		Epsilon:               o.Settings.Knapsack.Epsilon,
		ImprovementIterations: o.Settings.Knapsack.ImprovementIterations,
		Logger:                o.log,
	}
	res, err := cg.Optimize(ctx, o.newSolution(in))
	if err != nil {
		return Outcome{}, err
	}
	o.log.Debug("column generation done",
		zap.Int("solves", res.Solves), zap.Int("improvements", res.Improvements))
	o.report(100)
	return Outcome{Solution: res.Solution, Restarts: 1, Completed: 1}, nil
}

type globalStrategy struct{ o *Optimizer }

func (g globalStrategy) Run(ctx context.Context, in Input) (Outcome, error) {
	o := g.o
	if o.solver == nil {
		return Outcome{}, lp.ErrNoSolver
	}
	ctx, cancel := o.solverContext(ctx)
	defer cancel()

	gp := GlobalProgram{Solver: o.solver, AreaFactor: o.Settings.AreaFactor}
	sol, err := gp.Optimize(ctx, o.newSolution(in))
	if err != nil {
		return Outcome{}, err
	}
	o.report(100)
	return Outcome{Solution: sol, Restarts: 1, Completed: 1}, nil
}
