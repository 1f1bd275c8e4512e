package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "inventory.json")
	rows := []model.InventoryRow{
		{ID: "R1", Code: "LE1", Width: 10, Length: 3000, Active: true},
		{ID: "R2", Code: "LE2", Width: 8.5, Length: 1200, Active: false},
	}

	require.NoError(t, SaveInventory(path, rows))
	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := LoadInventory(path)
	require.NoError(t, err)
	assert.Equal(t, rows, loaded)
}

func TestSaveInventory_NilWritesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, SaveInventory(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestLoadInventory_Missing(t *testing.T) {
	rows, err := LoadInventory(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadInventory_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadInventory(path)
	assert.Error(t, err)
}

func TestMergeInventory(t *testing.T) {
	existing := []model.InventoryRow{{ID: "R1", Width: 10}}
	imported := []model.InventoryRow{{ID: "R1", Width: 99}, {ID: "R2", Width: 8}, {ID: "R2", Width: 7}}

	merged := MergeInventory(existing, imported)
	require.Len(t, merged, 2)
	assert.Equal(t, 10.0, merged[0].Width)
	assert.Equal(t, 8.0, merged[1].Width)
}

func TestDefaultInventoryPath(t *testing.T) {
	path := DefaultInventoryPath()
	assert.Equal(t, "inventory.json", filepath.Base(path))
	assert.Equal(t, ".rollslit", filepath.Base(filepath.Dir(path)))
}
