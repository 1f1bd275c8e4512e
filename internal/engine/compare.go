package engine

import (
	"context"
	"fmt"

	"github.com/piwi3910/RollSlit/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.Settings
}

// ComparisonResult holds the optimization result and computed statistics
// for a single scenario. Err is set when the scenario failed to run.
type ComparisonResult struct {
	Scenario        ComparisonScenario
	Result          model.Result
	RollsUsed       int
	BlocksUsed      int
	UnassignedCount int
	Err             error
}

// CompareScenarios runs optimization for each scenario and returns the
// results in scenario order. A failing scenario does not stop the others.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, items []model.Item, rows []model.InventoryRow, opts ...Option) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		if ctx.Err() != nil {
			results = append(results, ComparisonResult{Scenario: scenario, Err: ctx.Err()})
			continue
		}
		opt := New(scenario.Settings, opts...)
		result, err := opt.Optimize(ctx, items, rows)
		cr := ComparisonResult{Scenario: scenario, Result: result, Err: err}
		if err == nil {
			for _, r := range result.Solution.Rolls {
				if !r.IsEmpty() {
					cr.RollsUsed++
				}
				for _, b := range r.Blocks {
					if len(b.Items) > 0 {
						cr.BlocksUsed++
					}
				}
			}
			cr.UnassignedCount = len(result.Solution.Unassigned)
		}
		results = append(results, cr)
	}

	return results
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings: the current run, every other algorithm, and a
// pure hill-climb variant of a heuristic base.
func BuildDefaultScenarios(baseSettings model.Settings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	for _, alg := range model.Algorithms {
		if alg == baseSettings.Algorithm {
			continue
		}
		alt := baseSettings
		alt.Algorithm = alg
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Algorithm %s", alg),
			Settings: alt,
		})
	}

	if !baseSettings.Algorithm.Exact() && baseSettings.Search.Mode == model.SearchAnnealing {
		hill := baseSettings
		hill.Search.Mode = model.SearchHillClimb
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Hill Climbing",
			Settings: hill,
		})
	}

	if baseSettings.Prune.Enabled {
		noPrune := baseSettings
		noPrune.Prune.Enabled = false
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "No Pruning",
			Settings: noPrune,
		})
	}

	return scenarios
}
