package safety

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// TrackPoint is a single center position in a track's history.
type TrackPoint struct {
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	TimestampMillis int64   `json:"timestamp_millis"`
}

// PersonTrack is a persistent identity for one person across frames.
type PersonTrack struct {
	TrackID string `json:"track_id"`

	// History holds recent center positions, oldest first. Positions
	// older than the configured window are pruned on every update.
	History []TrackPoint `json:"history"`

	FirstSeenMillis int64 `json:"first_seen_millis"`
	LastSeenMillis  int64 `json:"last_seen_millis"`

	// Falling is a sticky latch: set once by the posture classifier and
	// never cleared for the lifetime of the track.
	Falling bool `json:"falling"`

	ObservationCount int `json:"observation_count"`
}

// Last returns the most recent position of the track. The tracker
// never keeps a track with an empty history.
func (pt *PersonTrack) Last() TrackPoint {
	return pt.History[len(pt.History)-1]
}

// Tracker maintains person identities across frames using greedy
// nearest-neighbor association of detection centers.
type Tracker struct {
	tracks map[string]*PersonTrack
	order  []string // track IDs in insertion order, for deterministic tie-breaking
	config AnalyzerConfig

	mu sync.RWMutex
}

// NewTracker creates a tracker with the given configuration.
func NewTracker(config AnalyzerConfig) *Tracker {
	return &Tracker{
		tracks: make(map[string]*PersonTrack),
		config: config.sanitize(),
	}
}

// Update processes one frame of detections against the track table:
// stale tracks are evicted, each person detection is associated to the
// nearest unclaimed track within the gating distance, and unmatched
// detections start new tracks. The operation is total: malformed
// detections never reach it (they are dropped at frame construction).
func (t *Tracker) Update(frame *FrameObservation) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := frame.TimestampMillis
	t.evictStale(now)

	claimed := make(map[string]bool)
	for _, det := range frame.Persons() {
		cx, cy := det.Box.Center()

		bestID := ""
		bestDist := t.config.MatchDistance
		for _, id := range t.order {
			if claimed[id] {
				continue
			}
			last := t.tracks[id].Last()
			if d := distance(cx, cy, last.X, last.Y); d < bestDist {
				bestDist = d
				bestID = id
			}
		}

		if bestID != "" {
			t.appendPosition(t.tracks[bestID], cx, cy, now)
			claimed[bestID] = true
			continue
		}
		if len(t.tracks) >= t.config.MaxTracks {
			continue
		}
		track := t.newTrack(cx, cy, now)
		claimed[track.TrackID] = true
	}
}

// evictStale removes tracks not seen within the track TTL. Caller must
// hold the write lock.
func (t *Tracker) evictStale(nowMillis int64) {
	keep := t.order[:0]
	for _, id := range t.order {
		track := t.tracks[id]
		if nowMillis-track.LastSeenMillis > t.config.TrackTTLMillis {
			delete(t.tracks, id)
			continue
		}
		keep = append(keep, id)
	}
	t.order = keep
}

// appendPosition records a new observation on an existing track and
// prunes positions that fell out of the retention window.
func (t *Tracker) appendPosition(track *PersonTrack, x, y float64, nowMillis int64) {
	track.History = append(track.History, TrackPoint{X: x, Y: y, TimestampMillis: nowMillis})
	track.LastSeenMillis = nowMillis
	track.ObservationCount++

	cutoff := nowMillis - t.config.PositionWindowMillis
	firstKept := 0
	for firstKept < len(track.History) && track.History[firstKept].TimestampMillis < cutoff {
		firstKept++
	}
	if firstKept > 0 {
		track.History = track.History[firstKept:]
	}
}

// newTrack creates a track with a fresh unique id and a single initial
// position.
func (t *Tracker) newTrack(x, y float64, nowMillis int64) *PersonTrack {
	track := &PersonTrack{
		TrackID:          fmt.Sprintf("track_%s", uuid.NewString()),
		History:          []TrackPoint{{X: x, Y: y, TimestampMillis: nowMillis}},
		FirstSeenMillis:  nowMillis,
		LastSeenMillis:   nowMillis,
		ObservationCount: 1,
	}
	t.tracks[track.TrackID] = track
	t.order = append(t.order, track.TrackID)
	return track
}

// ActiveTracks returns the current tracks in insertion order.
func (t *Tracker) ActiveTracks() []*PersonTrack {
	t.mu.RLock()
	defer t.mu.RUnlock()

	active := make([]*PersonTrack, 0, len(t.order))
	for _, id := range t.order {
		active = append(active, t.tracks[id])
	}
	return active
}

// Track returns a track by ID, or nil if not found.
func (t *Tracker) Track(trackID string) *PersonTrack {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tracks[trackID]
}

// TrackCount returns the number of live tracks.
func (t *Tracker) TrackCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.tracks)
}
