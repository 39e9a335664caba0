package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTuningConfig(t *testing.T) {
	t.Parallel()

	t.Run("full config", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "full.json", `{
  "max_frame_history": 60,
  "grid_size": 16,
  "max_tracks": 256,
  "match_distance": 0.3,
  "track_ttl_millis": 5000,
  "position_window_millis": 8000,
  "density_threshold": 0.25,
  "surge_threshold": 0.75,
  "falling_velocity_threshold": 0.4,
  "lying_aspect_ratio": 2.0,
  "stats_log_interval": "30s"
}`)

		cfg, err := LoadTuningConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 60, cfg.GetMaxFrameHistory())
		assert.Equal(t, 16, cfg.GetGridSize())
		assert.Equal(t, 256, cfg.GetMaxTracks())
		assert.InDelta(t, 0.3, cfg.GetMatchDistance(), 1e-9)
		assert.Equal(t, int64(5000), cfg.GetTrackTTLMillis())
		assert.Equal(t, int64(8000), cfg.GetPositionWindowMillis())
		assert.InDelta(t, 0.25, cfg.GetDensityThreshold(), 1e-9)
		assert.InDelta(t, 0.75, cfg.GetSurgeThreshold(), 1e-9)
		assert.InDelta(t, 0.4, cfg.GetFallingVelocityThreshold(), 1e-9)
		assert.InDelta(t, 2.0, cfg.GetLyingAspectRatio(), 1e-9)
		assert.Equal(t, 30*time.Second, cfg.GetStatsLogInterval())
	})

	t.Run("partial config keeps defaults for omitted fields", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "partial.json", `{"grid_size": 16, "density_threshold": 0.25}`)

		cfg, err := LoadTuningConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 16, cfg.GetGridSize())
		assert.InDelta(t, 0.25, cfg.GetDensityThreshold(), 1e-9)
		// Omitted fields fall back to defaults.
		assert.Equal(t, 30, cfg.GetMaxFrameHistory())
		assert.InDelta(t, 0.2, cfg.GetMatchDistance(), 1e-9)
		assert.Equal(t, int64(3000), cfg.GetTrackTTLMillis())
		assert.Equal(t, 60*time.Second, cfg.GetStatsLogInterval())
	})

	t.Run("rejects non-json extension", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "tuning.yaml", `{}`)

		_, err := LoadTuningConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".json extension")
	})

	t.Run("rejects missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadTuningConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "broken.json", `{"grid_size": `)

		_, err := LoadTuningConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse config JSON")
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "large.json")
		require.NoError(t, os.WriteFile(path, make([]byte, 2*1024*1024), 0o644))

		_, err := LoadTuningConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("rejects out-of-range values", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, "bad.json", `{"grid_size": 0}`)

		_, err := LoadTuningConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grid_size")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*TuningConfig)
		wantErr string
	}{
		{
			name:   "empty config is valid",
			mutate: func(*TuningConfig) {},
		},
		{
			name:    "zero max frame history",
			mutate:  func(c *TuningConfig) { v := 0; c.MaxFrameHistory = &v },
			wantErr: "max_frame_history",
		},
		{
			name:    "grid size too large",
			mutate:  func(c *TuningConfig) { v := 128; c.GridSize = &v },
			wantErr: "grid_size",
		},
		{
			name:    "negative match distance",
			mutate:  func(c *TuningConfig) { v := -0.1; c.MatchDistance = &v },
			wantErr: "match_distance",
		},
		{
			name:    "match distance too large",
			mutate:  func(c *TuningConfig) { v := 2.0; c.MatchDistance = &v },
			wantErr: "match_distance",
		},
		{
			name:    "zero track ttl",
			mutate:  func(c *TuningConfig) { v := int64(0); c.TrackTTLMillis = &v },
			wantErr: "track_ttl_millis",
		},
		{
			name:    "negative density threshold",
			mutate:  func(c *TuningConfig) { v := -1.0; c.DensityThreshold = &v },
			wantErr: "density_threshold",
		},
		{
			name:    "lying ratio at one",
			mutate:  func(c *TuningConfig) { v := 1.0; c.LyingAspectRatio = &v },
			wantErr: "lying_aspect_ratio",
		},
		{
			name:    "min positions below two",
			mutate:  func(c *TuningConfig) { v := 1; c.MinPositionsForFalling = &v },
			wantErr: "min_positions_for_falling",
		},
		{
			name:    "unparseable stats interval",
			mutate:  func(c *TuningConfig) { v := "soon"; c.StatsLogInterval = &v },
			wantErr: "stats_log_interval",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := EmptyTuningConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetterDefaults(t *testing.T) {
	t.Parallel()

	cfg := EmptyTuningConfig()

	assert.Equal(t, 30, cfg.GetMaxFrameHistory())
	assert.Equal(t, 8, cfg.GetGridSize())
	assert.Equal(t, 512, cfg.GetMaxTracks())
	assert.InDelta(t, 0.2, cfg.GetMatchDistance(), 1e-9)
	assert.Equal(t, int64(3000), cfg.GetTrackTTLMillis())
	assert.Equal(t, int64(5000), cfg.GetPositionWindowMillis())
	assert.InDelta(t, 0.15, cfg.GetDensityThreshold(), 1e-9)
	assert.InDelta(t, 0.5, cfg.GetSurgeThreshold(), 1e-9)
	assert.InDelta(t, 0.3, cfg.GetFallingVelocityThreshold(), 1e-9)
	assert.InDelta(t, 1.5, cfg.GetLyingAspectRatio(), 1e-9)
	assert.Equal(t, 3, cfg.GetMinPositionsForFalling())
	assert.Equal(t, 60*time.Second, cfg.GetStatsLogInterval())
}

func TestGetStatsLogInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value *string
		want  time.Duration
	}{
		{name: "nil pointer returns default", value: nil, want: 60 * time.Second},
		{name: "empty string returns default", value: strPtr(""), want: 60 * time.Second},
		{name: "invalid duration returns default", value: strPtr("invalid"), want: 60 * time.Second},
		{name: "2 minutes", value: strPtr("2m"), want: 2 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &TuningConfig{StatsLogInterval: tt.value}
			assert.Equal(t, tt.want, cfg.GetStatsLogInterval())
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := MustLoadDefaultConfig()

	// The shipped defaults file must agree with the in-code fallbacks.
	assert.Equal(t, 30, cfg.GetMaxFrameHistory())
	assert.Equal(t, 8, cfg.GetGridSize())
	assert.InDelta(t, 0.15, cfg.GetDensityThreshold(), 1e-9)
	assert.InDelta(t, 0.5, cfg.GetSurgeThreshold(), 1e-9)
	assert.InDelta(t, 0.3, cfg.GetFallingVelocityThreshold(), 1e-9)
	assert.InDelta(t, 1.5, cfg.GetLyingAspectRatio(), 1e-9)
}

func strPtr(s string) *string { return &s }
