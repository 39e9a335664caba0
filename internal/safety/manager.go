package safety

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/framewatch-data/crowdwatch/internal/timeutil"
)

// StreamManager owns one Analyzer per monitored video stream. Streams
// share no mutable state, so frames for distinct streams may be
// processed fully in parallel; the per-analyzer mutex serializes only
// same-stream calls.
type StreamManager struct {
	config    AnalyzerConfig
	clock     timeutil.Clock
	analyzers map[string]*Analyzer

	mu sync.RWMutex
}

// NewStreamManager creates a manager whose analyzers all use the given
// configuration.
func NewStreamManager(config AnalyzerConfig) *StreamManager {
	return &StreamManager{
		config:    config.sanitize(),
		clock:     timeutil.RealClock{},
		analyzers: make(map[string]*Analyzer),
	}
}

// NewStreamManagerWithClock creates a manager with an injected clock,
// for deterministic tests of the stats logging loop.
func NewStreamManagerWithClock(config AnalyzerConfig, clock timeutil.Clock) *StreamManager {
	m := NewStreamManager(config)
	m.clock = clock
	return m
}

// Analyzer returns the analyzer for streamID, creating it on first
// use.
func (m *StreamManager) Analyzer(streamID string) *Analyzer {
	m.mu.RLock()
	a := m.analyzers[streamID]
	m.mu.RUnlock()
	if a != nil {
		return a
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if a = m.analyzers[streamID]; a == nil {
		a = NewAnalyzer(m.config)
		m.analyzers[streamID] = a
	}
	return a
}

// Remove discards the analyzer for streamID, dropping all of its
// tracking state. Returns true if a stream was removed.
func (m *StreamManager) Remove(streamID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.analyzers[streamID]; !ok {
		return false
	}
	delete(m.analyzers, streamID)
	return true
}

// StreamIDs returns the known stream identifiers, sorted.
func (m *StreamManager) StreamIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.analyzers))
	for id := range m.analyzers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Stats returns the observability snapshot of every stream.
func (m *StreamManager) Stats() map[string]AnalyzerStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make(map[string]AnalyzerStats, len(m.analyzers))
	for id, a := range m.analyzers {
		stats[id] = a.Stats()
	}
	return stats
}

// RunStatsLogger periodically logs and resets each stream's throughput
// counters until the context is cancelled. Blocks; run it in its own
// goroutine.
func (m *StreamManager) RunStatsLogger(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			m.logStats()
		}
	}
}

func (m *StreamManager) logStats() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, a := range m.analyzers {
		a.FrameCounters().LogStats(id)
	}
}
