package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Algorithm selects the assignment strategy.
type Algorithm string

const (
	AlgorithmFirstFit    Algorithm = "first-fit"    // Randomized first-fit + local search
	AlgorithmBestFit     Algorithm = "best-fit"     // Best-fit-by-slack + local search
	AlgorithmSingleFirst Algorithm = "single-first" // Prefer empty rolls, then best-fit, + local search
	AlgorithmKnapsack    Algorithm = "knapsack"     // Per-block bounded knapsack (column generation)
	AlgorithmMILP        Algorithm = "milp"         // One global integer program
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{
	AlgorithmFirstFit,
	AlgorithmBestFit,
	AlgorithmSingleFirst,
	AlgorithmKnapsack,
	AlgorithmMILP,
}

// Exact reports whether the algorithm delegates to an integer-program solver.
func (a Algorithm) Exact() bool {
	return a == AlgorithmKnapsack || a == AlgorithmMILP
}

// SearchMode selects the acceptance rule of the local search.
type SearchMode string

const (
	SearchHillClimb SearchMode = "hill-climb"
	SearchAnnealing SearchMode = "annealing"
)

// SearchSettings configures the local search driver.
type SearchSettings struct {
	Mode               SearchMode `yaml:"mode" json:"mode" validate:"oneof=hill-climb annealing"`
	InitialTemperature float64    `yaml:"initial_temperature" json:"initial_temperature" validate:"gte=0"`
	CoolingRate        float64    `yaml:"cooling_rate" json:"cooling_rate" validate:"gt=0,lt=1"`
}

// PerturbSettings configures the move/swap operators.
type PerturbSettings struct {
	TopWasteFraction  float64 `yaml:"top_waste_fraction" json:"top_waste_fraction" validate:"gt=0,lte=1"`
	WasteThreshold    float64 `yaml:"waste_threshold" json:"waste_threshold" validate:"gte=0"` // 0 = rank by top fraction
	GreedyProbability float64 `yaml:"greedy_probability" json:"greedy_probability" validate:"gte=0,lte=1"`
	AllowSwaps        bool    `yaml:"allow_swaps" json:"allow_swaps"`
}

// PruneSettings configures the underutilization pruner.
type PruneSettings struct {
	Enabled            bool    `yaml:"enabled" json:"enabled"`
	MinUtilization     float64 `yaml:"min_utilization" json:"min_utilization" validate:"gte=0,lte=1"`
	MaxRemovalFraction float64 `yaml:"max_removal_fraction" json:"max_removal_fraction" validate:"gte=0,lte=1"`
}

// KnapsackSettings configures the column generation optimizer.
type KnapsackSettings struct {
	Epsilon               float64 `yaml:"epsilon" json:"epsilon" validate:"gte=0"`
	ImprovementIterations int     `yaml:"improvement_iterations" json:"improvement_iterations" validate:"gte=0"`
}

// Settings holds every engine parameter. Values arrive already resolved;
// the engine never reads files or the environment.
type Settings struct {
	Algorithm       Algorithm `yaml:"algorithm" json:"algorithm" validate:"oneof=first-fit best-fit single-first knapsack milp"`
	LengthTolerance float64   `yaml:"length_tolerance" json:"length_tolerance" validate:"gte=0,lt=1"`
	BlockRounding   float64   `yaml:"block_rounding" json:"block_rounding" validate:"gte=0,lt=1"`
	AreaFactor      float64   `yaml:"area_factor" json:"area_factor" validate:"gt=0"`
	PercentWaste    bool      `yaml:"percent_waste" json:"percent_waste"`

	Restarts   int   `yaml:"restarts" json:"restarts" validate:"gte=1"`
	Iterations int   `yaml:"iterations" json:"iterations" validate:"gte=0"`
	Workers    int   `yaml:"workers" json:"workers" validate:"gte=0"` // 0 = one per CPU
	Seed       int64 `yaml:"seed" json:"seed"`

	Search   SearchSettings   `yaml:"search" json:"search"`
	Perturb  PerturbSettings  `yaml:"perturb" json:"perturb"`
	Prune    PruneSettings    `yaml:"prune" json:"prune"`
	Knapsack KnapsackSettings `yaml:"knapsack" json:"knapsack"`

	SolverTimeout       time.Duration `yaml:"solver_timeout" json:"solver_timeout" validate:"gte=0"`
	FallbackToHeuristic bool          `yaml:"fallback_to_heuristic" json:"fallback_to_heuristic"`
}

// DefaultAreaFactor converts width x length to area units (12/1000).
const DefaultAreaFactor = 12.0 / 1000.0

func DefaultSettings() Settings {
	return Settings{
		Algorithm:       AlgorithmFirstFit,
		LengthTolerance: 0.1,
		BlockRounding:   0.5,
		AreaFactor:      DefaultAreaFactor,
		PercentWaste:    false,
		Restarts:        100,
		Iterations:      1000,
		Workers:         0,
		Seed:            42,
		Search: SearchSettings{
			Mode:               SearchAnnealing,
			InitialTemperature: 1.0,
			CoolingRate:        0.99,
		},
		Perturb: PerturbSettings{
			TopWasteFraction:  0.3,
			WasteThreshold:    0,
			GreedyProbability: 0.1,
			AllowSwaps:        true,
		},
		Prune: PruneSettings{
			Enabled:            true,
			MinUtilization:     0.8,
			MaxRemovalFraction: 0.15,
		},
		Knapsack: KnapsackSettings{
			Epsilon:               1e-2,
			ImprovementIterations: 5,
		},
		SolverTimeout:       2 * time.Minute,
		FallbackToHeuristic: true,
	}
}

var validate = validator.New()

// Validate checks every field constraint. A failure is returned as
// validator.ValidationErrors.
func (s Settings) Validate() error {
	return validate.Struct(s)
}
