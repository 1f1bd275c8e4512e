package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/piwi3910/RollSlit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := model.DefaultAppConfig()
	cfg.Settings.Algorithm = model.AlgorithmKnapsack
	cfg.Settings.SolverTimeout = 30 * time.Second
	cfg.Import.InventoryPath = "/data/inventaire.xlsm"
	cfg.Log.Format = "json"

	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfig_NonExistent(t *testing.T) {
	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), cfg)
}

func TestLoadAppConfig_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "settings:\n  algorithm: milp\n  solver_timeout: 45s\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)

	assert.Equal(t, model.AlgorithmMILP, cfg.Settings.Algorithm)
	assert.Equal(t, 45*time.Second, cfg.Settings.SolverTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 100, cfg.Settings.Restarts)
	assert.Equal(t, "Papier", cfg.Import.InventorySheet)
}

func TestLoadAppConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings:\n  restarts: 0\n"), 0644))

	_, err := LoadAppConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoadAppConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("settings: [unclosed"), 0644))

	_, err := LoadAppConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, ".rollslit", filepath.Base(filepath.Dir(path)))
}
