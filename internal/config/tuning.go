// Package config holds the tuning parameters for the ingest pipeline and
// the temporal tracker. The canonical defaults are embedded in the
// binary; an operator can override any subset from a JSON file, and the
// accessor methods fall back to the defaults for fields the override
// omits.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

//go:embed tuning.defaults.json
var defaultsJSON []byte

// TuningConfig is the root tuning document. All fields are optional in
// the JSON; nil means "use the default".
type TuningConfig struct {
	// Geometry
	GeometryEpsilon *float64 `json:"geometry_epsilon,omitempty"`

	// Cluster filtering
	MaxScanAngle *float64 `json:"max_scan_angle,omitempty"`

	// Pipeline
	MailboxCapacity *int `json:"mailbox_capacity,omitempty"`
	DecodeWorkers   *int `json:"decode_workers,omitempty"`

	// Tracker staleness windows, duration strings like "96h"
	StaleGracePeriod *string `json:"stale_grace_period,omitempty"`
	StaleMaximumGap  *string `json:"stale_maximum_gap,omitempty"`

	// Store
	DatabasePath *string `json:"database_path,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file keep their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", cleanPath, err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig returns the embedded canonical defaults. Panics
// only if the embedded document is malformed, which is a build defect.
func MustLoadDefaultConfig() *TuningConfig {
	cfg := &TuningConfig{}
	if err := json.Unmarshal(defaultsJSON, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults are malformed: %v", err))
	}
	return cfg
}

// Fallback defaults for fields absent from both the override and the
// embedded document.
const (
	defaultGeometryEpsilon = 1.0e-6
	defaultMaxScanAngle    = 8.0
	defaultMailboxCapacity = 16
	defaultDecodeWorkers   = 4
	defaultStaleGrace      = 4 * 24 * time.Hour
	defaultStaleMaxGap     = 30 * 24 * time.Hour
	defaultDatabasePath    = "wildfire.db"
)

// GetGeometryEpsilon returns the tolerance passed to every geometric
// predicate.
func (c *TuningConfig) GetGeometryEpsilon() float64 {
	if c.GeometryEpsilon != nil {
		return *c.GeometryEpsilon
	}
	return defaultGeometryEpsilon
}

// GetMaxScanAngle returns the scan-angle cutoff for cluster filtering,
// in degrees from nadir.
func (c *TuningConfig) GetMaxScanAngle() float64 {
	if c.MaxScanAngle != nil {
		return *c.MaxScanAngle
	}
	return defaultMaxScanAngle
}

// GetMailboxCapacity returns the bound of the pipeline mailboxes.
func (c *TuningConfig) GetMailboxCapacity() int {
	if c.MailboxCapacity != nil && *c.MailboxCapacity > 0 {
		return *c.MailboxCapacity
	}
	return defaultMailboxCapacity
}

// GetDecodeWorkers returns the size of the decode worker pool.
func (c *TuningConfig) GetDecodeWorkers() int {
	if c.DecodeWorkers != nil && *c.DecodeWorkers > 0 {
		return *c.DecodeWorkers
	}
	return defaultDecodeWorkers
}

func (c *TuningConfig) duration(s *string, fallback time.Duration) time.Duration {
	if s == nil {
		return fallback
	}
	d, err := time.ParseDuration(*s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetStaleGracePeriod returns the dormancy window inside which a fire is
// never retired.
func (c *TuningConfig) GetStaleGracePeriod() time.Duration {
	return c.duration(c.StaleGracePeriod, defaultStaleGrace)
}

// GetStaleMaximumGap returns the dormancy beyond which a fire is always
// retired.
func (c *TuningConfig) GetStaleMaximumGap() time.Duration {
	return c.duration(c.StaleMaximumGap, defaultStaleMaxGap)
}

// GetDatabasePath returns the store location.
func (c *TuningConfig) GetDatabasePath() string {
	if c.DatabasePath != nil && *c.DatabasePath != "" {
		return *c.DatabasePath
	}
	return defaultDatabasePath
}
