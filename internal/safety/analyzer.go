package safety

import (
	"sync"
)

// FrameAnalysis is the full safety assessment for one processed frame.
type FrameAnalysis struct {
	FrameID         string               `json:"frame_id"`
	TimestampMillis int64                `json:"timestamp_millis"`
	DensitySurges   []DensitySurgeEvent  `json:"density_surges"`
	FallingPersons  []FallingPersonEvent `json:"falling_persons"`
	LyingPersons    []LyingPersonEvent   `json:"lying_persons"`
	Status          SafetyStatus         `json:"status"`
}

// AnalyzerStats is the read-only observability snapshot of one
// analyzer instance.
type AnalyzerStats struct {
	ActiveTrackCount   int           `json:"active_track_count"`
	FrameHistoryLength int           `json:"frame_history_length"`
	LastAnalysisMillis int64         `json:"last_analysis_millis"`
	Grid               GridSummary   `json:"grid"`
	Counters           StatsSnapshot `json:"counters"`
}

// Analyzer orchestrates tracking, density analysis, surge detection
// and posture classification for one video stream. All per-stream
// mutable state lives here; distinct streams use distinct instances.
//
// ProcessFrame is serialized by an internal mutex: track matching and
// surge comparison both read-then-write the same histories, so one
// frame must complete before the next begins.
type Analyzer struct {
	config  AnalyzerConfig
	frames  *FrameHistory
	tracker *Tracker
	grid    *DensityGrid
	surges  *SurgeDetector
	motion  *MotionClassifier
	stats   *FrameStats

	lastAnalysisMillis int64

	mu sync.Mutex
}

// NewAnalyzer creates an analyzer with the given configuration.
func NewAnalyzer(config AnalyzerConfig) *Analyzer {
	cfg := config.sanitize()
	return &Analyzer{
		config:  cfg,
		frames:  NewFrameHistory(cfg.MaxFrameHistory),
		tracker: NewTracker(cfg),
		grid:    NewDensityGrid(cfg.GridSize, cfg.MaxFrameHistory),
		surges:  NewSurgeDetector(cfg),
		motion:  NewMotionClassifier(cfg),
		stats:   NewFrameStats(),
	}
}

// NewDefaultAnalyzer creates an analyzer with default configuration.
func NewDefaultAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultAnalyzerConfig())
}

// ProcessFrame runs the full analysis for one frame and returns the
// derived events plus the aggregated safety status. The operation is
// total: any input built by NewFrameObservation produces a well-formed
// result, degrading to an empty, safe assessment rather than failing.
func (a *Analyzer) ProcessFrame(frame *FrameObservation) *FrameAnalysis {
	if frame == nil {
		return &FrameAnalysis{Status: StatusSafe}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.frames.Add(frame)
	a.tracker.Update(frame)

	snapshot := a.grid.Analyze(frame)
	a.grid.Record(snapshot)

	surges := a.surges.Detect(a.grid.PreviousSnapshot(), a.grid.Latest())
	falls := a.motion.DetectFalling(a.tracker.ActiveTracks())
	lies := a.motion.DetectLying(frame)

	a.lastAnalysisMillis = frame.TimestampMillis
	a.stats.AddFrame(len(frame.Detections))
	a.stats.AddEvents(len(surges), len(falls), len(lies))

	return &FrameAnalysis{
		FrameID:         frame.FrameID,
		TimestampMillis: frame.TimestampMillis,
		DensitySurges:   surges,
		FallingPersons:  falls,
		LyingPersons:    lies,
		Status:          AggregateStatus(surges, falls, lies),
	}
}

// ProcessDetections is a convenience wrapper that builds the frame
// observation (discarding malformed detections) before analysis. The
// dropped count feeds the analyzer's counters.
func (a *Analyzer) ProcessDetections(frameID string, timestampMillis int64, detections []Detection) *FrameAnalysis {
	frame, dropped := NewFrameObservation(frameID, timestampMillis, detections)
	if dropped > 0 {
		a.stats.AddDropped(dropped)
	}
	return a.ProcessFrame(frame)
}

// Stats returns the current observability snapshot. Read-only; safe to
// call concurrently with ProcessFrame.
func (a *Analyzer) Stats() AnalyzerStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	return AnalyzerStats{
		ActiveTrackCount:   a.tracker.TrackCount(),
		FrameHistoryLength: a.frames.Size(),
		LastAnalysisMillis: a.lastAnalysisMillis,
		Grid:               Summarize(a.grid.Latest()),
		Counters:           a.stats.Snapshot(),
	}
}

// Config returns the analyzer's effective configuration.
func (a *Analyzer) Config() AnalyzerConfig { return a.config }

// FrameCounters exposes the throughput counters, used by the stream
// manager's periodic stats logging.
func (a *Analyzer) FrameCounters() *FrameStats { return a.stats }
