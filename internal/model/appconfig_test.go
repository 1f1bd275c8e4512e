package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	if cfg.Settings.Algorithm != defaults.Algorithm {
		t.Errorf("Algorithm mismatch: config=%s settings=%s", cfg.Settings.Algorithm, defaults.Algorithm)
	}
	if cfg.Settings.Restarts != defaults.Restarts {
		t.Errorf("Restarts mismatch: config=%d settings=%d", cfg.Settings.Restarts, defaults.Restarts)
	}
	if cfg.Import.LengthScale != 1000 {
		t.Errorf("expected length scale 1000, got %f", cfg.Import.LengthScale)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.Log.Level)
	}
}

func TestDefaultAppConfigValidates(t *testing.T) {
	if err := DefaultAppConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestAppConfigRejectsBadLogLevel(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Log.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestAppConfigRejectsBadStartRow(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Import.InventoryStartRow = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for start row 0")
	}
}
