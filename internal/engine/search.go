package engine

import (
	"context"
	"math"
	"math/rand"

	"github.com/piwi3910/RollSlit/internal/model"
)

// checkEvery is how many iterations pass between context checks.
const checkEvery = 64

// SearchState is the phase of a local search run.
type SearchState int

const (
	SearchInit SearchState = iota
	SearchRunning
	SearchConverged
)

func (s SearchState) String() string {
	switch s {
	case SearchRunning:
		return "searching"
	case SearchConverged:
		return "converged"
	default:
		return "init"
	}
}

// SearchConfig configures one local search run.
type SearchConfig struct {
	Mode               model.SearchMode
	Iterations         int
	InitialTemperature float64
	CoolingRate        float64
}

// NewSearchConfig returns the search configuration held by settings.
func NewSearchConfig(s model.Settings) SearchConfig {
	return SearchConfig{
		Mode:               s.Search.Mode,
		Iterations:         s.Iterations,
		InitialTemperature: s.Search.InitialTemperature,
		CoolingRate:        s.Search.CoolingRate,
	}
}

// SearchResult is the outcome of LocalSearch.
type SearchResult struct {
	Best       *model.Solution
	BestWaste  float64
	Iterations int // iterations actually run
	Accepted   int // candidates that became current
	Worsened   int // accepted candidates worse than current
	Improved   int // times the best was replaced
	State      SearchState
	Cancelled  bool
}

// LocalSearch repeatedly perturbs the current solution and accepts or
// rejects the candidate. The best candidate seen is tracked independently
// of acceptance. The initial solution is not modified.
func LocalSearch(ctx context.Context, initial *model.Solution, cfg SearchConfig, eval WasteEvaluator, perturber Perturber, rng *rand.Rand) SearchResult {
	res := SearchResult{State: SearchInit}

	current := initial.Clone()
	currentWaste := eval.Evaluate(current)
	res.Best, res.BestWaste = current, currentWaste

	temp := cfg.InitialTemperature
	res.State = SearchRunning
	for i := 0; i < cfg.Iterations; i++ {
		if i%checkEvery == 0 && ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		candidate, _ := perturber.Perturb(current, rng)
		candidateWaste := eval.Evaluate(candidate)
		res.Iterations++

		if better(candidateWaste, res.BestWaste) {
			res.Best, res.BestWaste = candidate, candidateWaste
			res.Improved++
		}

		delta := candidateWaste - currentWaste
		var ok bool
		if cfg.Mode == model.SearchAnnealing {
			ok = accept(delta, temp, rng)
			temp *= cfg.CoolingRate
		} else {
			ok = better(candidateWaste, currentWaste)
		}
		if ok {
			if delta > 0 {
				res.Worsened++
			}
			current, currentWaste = candidate, candidateWaste
			res.Accepted++
		}
	}
	if !res.Cancelled {
		res.State = SearchConverged
	}
	return res
}

// accept is the Metropolis rule. Improvements are always taken; otherwise
// the candidate is taken with probability exp(-delta/temp). A non-positive
// temperature or an undefined delta rejects without drawing from rng.
func accept(delta, temp float64, rng *rand.Rand) bool {
	if math.IsNaN(delta) {
		return false
	}
	if delta < 0 {
		return true
	}
	if temp <= 0 || math.IsInf(delta, 1) {
		return false
	}
	return rng.Float64() < math.Exp(-delta/temp)
}
