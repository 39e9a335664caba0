package safety

import (
	"github.com/framewatch-data/crowdwatch/internal/config"
)

// AnalyzerConfigFromTuning builds an AnalyzerConfig from a loaded
// TuningConfig. Use this in binaries where the tuning file is already
// loaded; library callers without a file use DefaultAnalyzerConfig.
func AnalyzerConfigFromTuning(cfg *config.TuningConfig) AnalyzerConfig {
	return AnalyzerConfig{
		MaxFrameHistory:          cfg.GetMaxFrameHistory(),
		GridSize:                 cfg.GetGridSize(),
		MaxTracks:                cfg.GetMaxTracks(),
		MatchDistance:            cfg.GetMatchDistance(),
		TrackTTLMillis:           cfg.GetTrackTTLMillis(),
		PositionWindowMillis:     cfg.GetPositionWindowMillis(),
		DensityThreshold:         cfg.GetDensityThreshold(),
		SurgeThreshold:           cfg.GetSurgeThreshold(),
		FallingVelocityThreshold: cfg.GetFallingVelocityThreshold(),
		LyingAspectRatio:         cfg.GetLyingAspectRatio(),
		MinPositionsForFalling:   cfg.GetMinPositionsForFalling(),
	}
}
