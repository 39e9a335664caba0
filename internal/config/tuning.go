package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the root configuration for analyzer tuning
// parameters. All fields are pointers so that partial config files are
// safe: omitted fields fall back to the Get* defaults.
type TuningConfig struct {
	// History and grid shape
	MaxFrameHistory *int `json:"max_frame_history,omitempty"`
	GridSize        *int `json:"grid_size,omitempty"`
	MaxTracks       *int `json:"max_tracks,omitempty"`

	// Tracker params
	MatchDistance        *float64 `json:"match_distance,omitempty"`
	TrackTTLMillis       *int64   `json:"track_ttl_millis,omitempty"`
	PositionWindowMillis *int64   `json:"position_window_millis,omitempty"`

	// Anomaly thresholds
	DensityThreshold         *float64 `json:"density_threshold,omitempty"`
	SurgeThreshold           *float64 `json:"surge_threshold,omitempty"`
	FallingVelocityThreshold *float64 `json:"falling_velocity_threshold,omitempty"`
	LyingAspectRatio         *float64 `json:"lying_aspect_ratio,omitempty"`
	MinPositionsForFalling   *int     `json:"min_positions_for_falling,omitempty"`

	// Observability
	StatsLogInterval *string `json:"stats_log_interval,omitempty"` // duration string like "60s"
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from the defaults file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file is
// validated to have a .json extension and stay under the max file
// size. Fields omitted from the JSON retain their defaults, so partial
// configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical tuning defaults from
// DefaultConfigPath, searching the current directory and common parent
// directories. Panics if the file cannot be loaded; intended for test
// setup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are in range.
func (c *TuningConfig) Validate() error {
	if c.MaxFrameHistory != nil && *c.MaxFrameHistory < 1 {
		return fmt.Errorf("max_frame_history must be positive, got %d", *c.MaxFrameHistory)
	}
	if c.GridSize != nil && (*c.GridSize < 1 || *c.GridSize > 64) {
		return fmt.Errorf("grid_size must be between 1 and 64, got %d", *c.GridSize)
	}
	if c.MaxTracks != nil && *c.MaxTracks < 1 {
		return fmt.Errorf("max_tracks must be positive, got %d", *c.MaxTracks)
	}
	if c.MatchDistance != nil && (*c.MatchDistance <= 0 || *c.MatchDistance > 1.5) {
		return fmt.Errorf("match_distance must be in (0, 1.5], got %f", *c.MatchDistance)
	}
	if c.TrackTTLMillis != nil && *c.TrackTTLMillis <= 0 {
		return fmt.Errorf("track_ttl_millis must be positive, got %d", *c.TrackTTLMillis)
	}
	if c.PositionWindowMillis != nil && *c.PositionWindowMillis <= 0 {
		return fmt.Errorf("position_window_millis must be positive, got %d", *c.PositionWindowMillis)
	}
	if c.DensityThreshold != nil && *c.DensityThreshold <= 0 {
		return fmt.Errorf("density_threshold must be positive, got %f", *c.DensityThreshold)
	}
	if c.SurgeThreshold != nil && *c.SurgeThreshold <= 0 {
		return fmt.Errorf("surge_threshold must be positive, got %f", *c.SurgeThreshold)
	}
	if c.FallingVelocityThreshold != nil && *c.FallingVelocityThreshold <= 0 {
		return fmt.Errorf("falling_velocity_threshold must be positive, got %f", *c.FallingVelocityThreshold)
	}
	if c.LyingAspectRatio != nil && *c.LyingAspectRatio <= 1 {
		return fmt.Errorf("lying_aspect_ratio must be greater than 1, got %f", *c.LyingAspectRatio)
	}
	if c.MinPositionsForFalling != nil && *c.MinPositionsForFalling < 2 {
		return fmt.Errorf("min_positions_for_falling must be at least 2, got %d", *c.MinPositionsForFalling)
	}
	if c.StatsLogInterval != nil && *c.StatsLogInterval != "" {
		if _, err := time.ParseDuration(*c.StatsLogInterval); err != nil {
			return fmt.Errorf("invalid stats_log_interval '%s': %w", *c.StatsLogInterval, err)
		}
	}
	return nil
}

// GetMaxFrameHistory returns the max_frame_history value or the default.
func (c *TuningConfig) GetMaxFrameHistory() int {
	if c.MaxFrameHistory == nil {
		return 30
	}
	return *c.MaxFrameHistory
}

// GetGridSize returns the grid_size value or the default.
func (c *TuningConfig) GetGridSize() int {
	if c.GridSize == nil {
		return 8
	}
	return *c.GridSize
}

// GetMaxTracks returns the max_tracks value or the default.
func (c *TuningConfig) GetMaxTracks() int {
	if c.MaxTracks == nil {
		return 512
	}
	return *c.MaxTracks
}

// GetMatchDistance returns the match_distance value or the default.
func (c *TuningConfig) GetMatchDistance() float64 {
	if c.MatchDistance == nil {
		return 0.2
	}
	return *c.MatchDistance
}

// GetTrackTTLMillis returns the track_ttl_millis value or the default.
func (c *TuningConfig) GetTrackTTLMillis() int64 {
	if c.TrackTTLMillis == nil {
		return 3000
	}
	return *c.TrackTTLMillis
}

// GetPositionWindowMillis returns the position_window_millis value or the default.
func (c *TuningConfig) GetPositionWindowMillis() int64 {
	if c.PositionWindowMillis == nil {
		return 5000
	}
	return *c.PositionWindowMillis
}

// GetDensityThreshold returns the density_threshold value or the default.
func (c *TuningConfig) GetDensityThreshold() float64 {
	if c.DensityThreshold == nil {
		return 0.15
	}
	return *c.DensityThreshold
}

// GetSurgeThreshold returns the surge_threshold value or the default.
func (c *TuningConfig) GetSurgeThreshold() float64 {
	if c.SurgeThreshold == nil {
		return 0.5
	}
	return *c.SurgeThreshold
}

// GetFallingVelocityThreshold returns the falling_velocity_threshold value or the default.
func (c *TuningConfig) GetFallingVelocityThreshold() float64 {
	if c.FallingVelocityThreshold == nil {
		return 0.3
	}
	return *c.FallingVelocityThreshold
}

// GetLyingAspectRatio returns the lying_aspect_ratio value or the default.
func (c *TuningConfig) GetLyingAspectRatio() float64 {
	if c.LyingAspectRatio == nil {
		return 1.5
	}
	return *c.LyingAspectRatio
}

// GetMinPositionsForFalling returns the min_positions_for_falling value or the default.
func (c *TuningConfig) GetMinPositionsForFalling() int {
	if c.MinPositionsForFalling == nil {
		return 3
	}
	return *c.MinPositionsForFalling
}

// GetStatsLogInterval parses and returns the StatsLogInterval as a
// time.Duration.
func (c *TuningConfig) GetStatsLogInterval() time.Duration {
	if c.StatsLogInterval == nil || *c.StatsLogInterval == "" {
		return 60 * time.Second
	}
	d, err := time.ParseDuration(*c.StatsLogInterval)
	if err != nil {
		return 60 * time.Second
	}
	return d
}
