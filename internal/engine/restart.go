package engine

import (
	"context"
	"math/rand"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/piwi3910/RollSlit/internal/model"
)

// restartStrategy runs independent assign + local search restarts on a
// worker pool and keeps the best.
type restartStrategy struct {
	o        *Optimizer
	alg      model.Algorithm
	assigner Assigner
}

type restartOutcome struct {
	index  int
	result SearchResult
	valid  bool
	done   bool
}

// rankBefore orders restart outcomes: valid before invalid, then lower
// waste, then lower restart index.
func rankBefore(a, b restartOutcome) bool {
	if a.valid != b.valid {
		return a.valid
	}
	if better(a.result.BestWaste, b.result.BestWaste) {
		return true
	}
	if better(b.result.BestWaste, a.result.BestWaste) {
		return false
	}
	return a.index < b.index
}

func (r *restartStrategy) workers() int {
	n := r.o.Settings.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if n > r.o.Settings.Restarts {
		n = r.o.Settings.Restarts
	}
	if n < 1 {
		n = 1
	}
	return n
}

// one runs restart i with its own seeded random source, so results do not
// depend on the worker count.
func (r *restartStrategy) one(ctx context.Context, in Input, i int) restartOutcome {
	o := r.o
	rng := rand.New(rand.NewSource(o.Settings.Seed + int64(i)))
	sol := o.newSolution(in)
	if left := r.assigner.Assign(sol, rng); len(left) > 0 {
		o.log.Debug("initial assignment left items unassigned",
			zap.Int("restart", i), zap.Int("count", len(left)))
	}
	res := LocalSearch(ctx, sol, NewSearchConfig(o.Settings), NewWasteEvaluator(o.Settings), NewPerturber(o.Settings), rng)
	return restartOutcome{index: i, result: res, valid: res.Best.IsValid(), done: true}
}

func (r *restartStrategy) Run(ctx context.Context, in Input) (Outcome, error) {
	o := r.o
	total := o.Settings.Restarts
	outcomes := make([]restartOutcome, total)

	jobs := make(chan int)
	var (
		mu        sync.Mutex
		completed int
		wg        sync.WaitGroup
	)
	for w := 0; w < r.workers(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				out := r.one(ctx, in, i)
				outcomes[i] = out
				o.observer.RestartDone(r.alg, out.result)

				mu.Lock()
				completed++
				o.report(100 * completed / total)
				mu.Unlock()
				o.log.Debug("restart done",
					zap.Int("restart", i),
					zap.Float64("waste", out.result.BestWaste),
					zap.Bool("valid", out.valid),
					zap.Int("accepted", out.result.Accepted))
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()
	wg.Wait()

	var best *restartOutcome
	cancelled := ctx.Err() != nil
	for i := range outcomes {
		out := &outcomes[i]
		if !out.done {
			continue
		}
		if out.result.Cancelled {
			cancelled = true
		}
		if best == nil || rankBefore(*out, *best) {
			best = out
		}
	}

	if best == nil {
		// Cancelled before any restart finished: the initial assignment of
		// restart 0 is the best there is.
		rng := rand.New(rand.NewSource(o.Settings.Seed))
		sol := o.newSolution(in)
		r.assigner.Assign(sol, rng)
		return Outcome{Solution: sol, Restarts: total, Cancelled: true}, nil
	}
	return Outcome{
		Solution:  best.result.Best,
		Restarts:  total,
		Completed: completed,
		Cancelled: cancelled,
	}, nil
}
