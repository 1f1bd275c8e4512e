package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/RollSlit/internal/model"
)

// DefaultInventoryPath returns the default file path for the saved roll
// inventory, ~/.rollslit/inventory.json.
func DefaultInventoryPath() string {
	return filepath.Join(DefaultConfigDir(), "inventory.json")
}

// SaveInventory writes the inventory rows to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveInventory(path string, rows []model.InventoryRow) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if rows == nil {
		rows = []model.InventoryRow{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadInventory reads inventory rows from the specified JSON file.
// A missing file yields an empty inventory.
func LoadInventory(path string) ([]model.InventoryRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.InventoryRow{}, nil
		}
		return nil, err
	}
	var rows []model.InventoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MergeInventory appends the imported rows to existing. Rows whose ID is
// already present are skipped.
func MergeInventory(existing, imported []model.InventoryRow) []model.InventoryRow {
	ids := make(map[string]bool, len(existing))
	for _, r := range existing {
		ids[r.ID] = true
	}
	for _, r := range imported {
		if !ids[r.ID] {
			existing = append(existing, r)
			ids[r.ID] = true
		}
	}
	return existing
}
