package safety

import (
	"fmt"
	"sync"
	"time"

	"github.com/framewatch-data/crowdwatch/internal/monitoring"
)

// FrameStats tracks analysis throughput counters with thread-safe
// operations.
type FrameStats struct {
	mu              sync.Mutex
	frameCount      int64
	detectionCount  int64
	droppedCount    int64
	surgeEventCount int64
	fallEventCount  int64
	lyingEventCount int64
	lastReset       time.Time
}

// NewFrameStats creates a new FrameStats instance.
func NewFrameStats() *FrameStats {
	return &FrameStats{lastReset: time.Now()}
}

// AddFrame records one processed frame with its detection count.
func (fs *FrameStats) AddFrame(detections int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.frameCount++
	fs.detectionCount += int64(detections)
}

// AddDropped records detections discarded for malformed geometry.
func (fs *FrameStats) AddDropped(count int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.droppedCount += int64(count)
}

// AddEvents records emitted anomaly events for one frame.
func (fs *FrameStats) AddEvents(surges, falls, lies int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.surgeEventCount += int64(surges)
	fs.fallEventCount += int64(falls)
	fs.lyingEventCount += int64(lies)
}

// StatsSnapshot is a point-in-time copy of the counters.
type StatsSnapshot struct {
	Frames      int64 `json:"frames"`
	Detections  int64 `json:"detections"`
	Dropped     int64 `json:"dropped"`
	SurgeEvents int64 `json:"surge_events"`
	FallEvents  int64 `json:"fall_events"`
	LyingEvents int64 `json:"lying_events"`
}

// Snapshot returns the current counters without resetting them.
func (fs *FrameStats) Snapshot() StatsSnapshot {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return StatsSnapshot{
		Frames:      fs.frameCount,
		Detections:  fs.detectionCount,
		Dropped:     fs.droppedCount,
		SurgeEvents: fs.surgeEventCount,
		FallEvents:  fs.fallEventCount,
		LyingEvents: fs.lyingEventCount,
	}
}

// GetAndReset returns current counters and resets them, along with the
// interval they cover.
func (fs *FrameStats) GetAndReset() (snap StatsSnapshot, duration time.Duration) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := time.Now()
	duration = now.Sub(fs.lastReset)
	snap = StatsSnapshot{
		Frames:      fs.frameCount,
		Detections:  fs.detectionCount,
		Dropped:     fs.droppedCount,
		SurgeEvents: fs.surgeEventCount,
		FallEvents:  fs.fallEventCount,
		LyingEvents: fs.lyingEventCount,
	}

	fs.frameCount = 0
	fs.detectionCount = 0
	fs.droppedCount = 0
	fs.surgeEventCount = 0
	fs.fallEventCount = 0
	fs.lyingEventCount = 0
	fs.lastReset = now

	return snap, duration
}

// LogStats logs the interval counters and resets them. Nothing is
// logged when no frames arrived in the interval.
func (fs *FrameStats) LogStats(streamID string) {
	snap, duration := fs.GetAndReset()
	if snap.Frames == 0 {
		return
	}
	framesPerSec := float64(snap.Frames) / duration.Seconds()
	logMsg := fmt.Sprintf("Analyzer stats [%s] (/sec): %.1f frames, %d detections, %d surges, %d falls, %d lying",
		streamID, framesPerSec, snap.Detections, snap.SurgeEvents, snap.FallEvents, snap.LyingEvents)
	if snap.Dropped > 0 {
		logMsg += fmt.Sprintf(", %d malformed dropped", snap.Dropped)
	}
	monitoring.Logf("%s", logMsg)
}
