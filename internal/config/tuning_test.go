package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()

	if got := cfg.GetGeometryEpsilon(); got != 1.0e-6 {
		t.Errorf("GetGeometryEpsilon = %v, want 1e-6", got)
	}
	if got := cfg.GetMaxScanAngle(); got != 8.0 {
		t.Errorf("GetMaxScanAngle = %v, want 8", got)
	}
	if got := cfg.GetMailboxCapacity(); got != 16 {
		t.Errorf("GetMailboxCapacity = %v, want 16", got)
	}
	if got := cfg.GetDecodeWorkers(); got != 4 {
		t.Errorf("GetDecodeWorkers = %v, want 4", got)
	}
	if got := cfg.GetStaleGracePeriod(); got != 96*time.Hour {
		t.Errorf("GetStaleGracePeriod = %v, want 96h", got)
	}
	if got := cfg.GetStaleMaximumGap(); got != 720*time.Hour {
		t.Errorf("GetStaleMaximumGap = %v, want 720h", got)
	}
}

func TestEmptyConfigFallsBack(t *testing.T) {
	cfg := &TuningConfig{}

	if got := cfg.GetGeometryEpsilon(); got != 1.0e-6 {
		t.Errorf("GetGeometryEpsilon = %v, want fallback 1e-6", got)
	}
	if got := cfg.GetStaleGracePeriod(); got != 4*24*time.Hour {
		t.Errorf("GetStaleGracePeriod = %v, want fallback 96h", got)
	}
	if got := cfg.GetDatabasePath(); got != "wildfire.db" {
		t.Errorf("GetDatabasePath = %v, want fallback", got)
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	body := `{"decode_workers": 8, "stale_grace_period": "48h"}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	if got := cfg.GetDecodeWorkers(); got != 8 {
		t.Errorf("GetDecodeWorkers = %v, want override 8", got)
	}
	if got := cfg.GetStaleGracePeriod(); got != 48*time.Hour {
		t.Errorf("GetStaleGracePeriod = %v, want override 48h", got)
	}
	// Untouched fields fall back.
	if got := cfg.GetMailboxCapacity(); got != 16 {
		t.Errorf("GetMailboxCapacity = %v, want fallback 16", got)
	}
}

func TestLoadTuningConfigRejectsNonJSON(t *testing.T) {
	if _, err := LoadTuningConfig("tuning.yaml"); err == nil {
		t.Error("non-JSON extension should be rejected")
	}
}

func TestLoadTuningConfigBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.json")
	if err := os.WriteFile(path, []byte(`{"stale_grace_period": "soon"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig: %v", err)
	}
	if got := cfg.GetStaleGracePeriod(); got != 4*24*time.Hour {
		t.Errorf("unparseable duration should fall back, got %v", got)
	}
}
