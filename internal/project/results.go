package project

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/RollSlit/internal/model"
)

// ResultFileVersion is written into every saved result.
const ResultFileVersion = "1.0.0"

// ResultFile is the on-disk form of a run. Waste values are stored
// separately because undefined waste (+Inf) has no JSON encoding; nil
// stands for undefined.
type ResultFile struct {
	Version    string         `json:"version"`
	CreatedAt  string         `json:"created_at"`
	Result     model.Result   `json:"result"`
	Waste      *float64       `json:"waste"`
	BlockWaste [][]*float64   `json:"block_waste,omitempty"`
	Settings   model.Settings `json:"settings"`
}

func finite(w float64) *float64 {
	if math.IsInf(w, 0) || math.IsNaN(w) {
		return nil
	}
	return &w
}

func orInf(w *float64) float64 {
	if w == nil {
		return math.Inf(1)
	}
	return *w
}

// SaveResult writes a run and the settings that produced it to a JSON file.
func SaveResult(path string, result model.Result, settings model.Settings) error {
	file := ResultFile{
		Version:   ResultFileVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Result:    result,
		Waste:     finite(result.Waste),
		Settings:  settings,
	}
	if result.Solution != nil {
		file.BlockWaste = make([][]*float64, len(result.Solution.Rolls))
		for i, r := range result.Solution.Rolls {
			file.BlockWaste[i] = make([]*float64, len(r.Blocks))
			for j, b := range r.Blocks {
				file.BlockWaste[i][j] = finite(b.Waste)
			}
		}
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// LoadResult reads a file written by SaveResult and restores its waste values.
func LoadResult(path string) (ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ResultFile{}, fmt.Errorf("failed to read result file: %w", err)
	}
	var file ResultFile
	if err := json.Unmarshal(data, &file); err != nil {
		return ResultFile{}, fmt.Errorf("failed to parse result file: %w", err)
	}
	if file.Version == "" {
		return ResultFile{}, fmt.Errorf("invalid result file: missing version field")
	}

	file.Result.Waste = orInf(file.Waste)
	if s := file.Result.Solution; s != nil {
		for i := range s.Rolls {
			for j := range s.Rolls[i].Blocks {
				var w *float64
				if i < len(file.BlockWaste) && j < len(file.BlockWaste[i]) {
					w = file.BlockWaste[i][j]
				}
				s.Rolls[i].Blocks[j].Waste = orInf(w)
			}
		}
	}
	return file, nil
}
