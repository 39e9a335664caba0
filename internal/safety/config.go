package safety

// AnalyzerConfig holds tuning parameters for one analyzer instance.
type AnalyzerConfig struct {
	MaxFrameHistory int // Frames and density snapshots retained (FIFO)
	GridSize        int // Density grid dimension (GridSize × GridSize cells)
	MaxTracks       int // Upper bound on concurrent tracks

	MatchDistance        float64 // Max center distance for track association (normalized units)
	TrackTTLMillis       int64   // Idle time before a track is evicted
	PositionWindowMillis int64   // Age beyond which track positions are pruned

	DensityThreshold         float64 // Absolute density floor for surge candidates
	SurgeThreshold           float64 // Relative increase required for a surge (0.5 = +50%)
	FallingVelocityThreshold float64 // Downward velocity (normalized units/second) for a fall
	LyingAspectRatio         float64 // Width/height ratio above which a person reads as lying

	MinPositionsForFalling int // Track positions required before fall detection runs
}

// DefaultAnalyzerConfig returns the default analyzer configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		MaxFrameHistory:          30,
		GridSize:                 8,
		MaxTracks:                512,
		MatchDistance:            0.2,
		TrackTTLMillis:           3000,
		PositionWindowMillis:     5000,
		DensityThreshold:         0.15,
		SurgeThreshold:           0.5,
		FallingVelocityThreshold: 0.3,
		LyingAspectRatio:         1.5,
		MinPositionsForFalling:   3,
	}
}

// sanitize fills zero-valued fields with defaults so a partially
// populated config behaves predictably.
func (c AnalyzerConfig) sanitize() AnalyzerConfig {
	def := DefaultAnalyzerConfig()
	if c.MaxFrameHistory < 1 {
		c.MaxFrameHistory = def.MaxFrameHistory
	}
	if c.GridSize < 1 {
		c.GridSize = def.GridSize
	}
	if c.MaxTracks < 1 {
		c.MaxTracks = def.MaxTracks
	}
	if c.MatchDistance <= 0 {
		c.MatchDistance = def.MatchDistance
	}
	if c.TrackTTLMillis <= 0 {
		c.TrackTTLMillis = def.TrackTTLMillis
	}
	if c.PositionWindowMillis <= 0 {
		c.PositionWindowMillis = def.PositionWindowMillis
	}
	if c.DensityThreshold <= 0 {
		c.DensityThreshold = def.DensityThreshold
	}
	if c.SurgeThreshold <= 0 {
		c.SurgeThreshold = def.SurgeThreshold
	}
	if c.FallingVelocityThreshold <= 0 {
		c.FallingVelocityThreshold = def.FallingVelocityThreshold
	}
	if c.LyingAspectRatio <= 0 {
		c.LyingAspectRatio = def.LyingAspectRatio
	}
	if c.MinPositionsForFalling < 2 {
		c.MinPositionsForFalling = def.MinPositionsForFalling
	}
	return c
}
