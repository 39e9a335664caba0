package safety

// FallingPersonEvent reports a tracked person whose vertical velocity
// crossed the falling threshold. Emitted at most once per track: the
// track's sticky latch suppresses re-triggering until the track is
// evicted.
type FallingPersonEvent struct {
	TrackID         string     `json:"track_id"`
	Position        TrackPoint `json:"position"`
	VerticalSpeed   float64    `json:"vertical_speed"` // normalized units per second, downward positive
	Severity        Severity   `json:"severity"`
	TimestampMillis int64      `json:"timestamp_millis"`
}

// LyingPersonEvent reports a person detection whose bounding box is
// much wider than tall. Stateless: derived from a single detection,
// no track required.
type LyingPersonEvent struct {
	Box             BoundingBox `json:"box"`
	AspectRatio     float64     `json:"aspect_ratio"`
	Confidence      float64     `json:"confidence"` // in [0, 1]
	Severity        Severity    `json:"severity"`
	TimestampMillis int64       `json:"timestamp_millis"`
}

// MotionClassifier detects anomalous postures: falling from track
// motion, lying from detection geometry.
type MotionClassifier struct {
	config AnalyzerConfig
}

// NewMotionClassifier creates a classifier with the given thresholds.
func NewMotionClassifier(config AnalyzerConfig) *MotionClassifier {
	return &MotionClassifier{config: config.sanitize()}
}

// DetectFalling scans tracks for a rapid downward movement across the
// most recent retained positions. Position pairs with non-positive time
// delta are skipped: out-of-order or duplicate timestamps must not
// produce a velocity. Tracks whose latch is already set are ignored.
func (mc *MotionClassifier) DetectFalling(tracks []*PersonTrack) []FallingPersonEvent {
	var events []FallingPersonEvent
	for _, track := range tracks {
		if track.Falling || len(track.History) < mc.config.MinPositionsForFalling {
			continue
		}

		recent := track.History[len(track.History)-mc.config.MinPositionsForFalling:]
		peak := 0.0
		for i := 1; i < len(recent); i++ {
			dtMillis := recent[i].TimestampMillis - recent[i-1].TimestampMillis
			if dtMillis <= 0 {
				continue
			}
			vy := (recent[i].Y - recent[i-1].Y) / (float64(dtMillis) / 1000.0)
			if vy > peak {
				peak = vy
			}
		}
		if peak <= mc.config.FallingVelocityThreshold {
			continue
		}

		track.Falling = true
		last := track.Last()
		events = append(events, FallingPersonEvent{
			TrackID:         track.TrackID,
			Position:        last,
			VerticalSpeed:   peak,
			Severity:        SeverityHigh,
			TimestampMillis: last.TimestampMillis,
		})
	}
	return events
}

// DetectLying flags person detections whose bounding box aspect ratio
// exceeds the lying threshold. Confidence grows with how far past the
// threshold the ratio is, clamped to 1.
func (mc *MotionClassifier) DetectLying(frame *FrameObservation) []LyingPersonEvent {
	var events []LyingPersonEvent
	for _, det := range frame.Persons() {
		ratio := det.Box.AspectRatio()
		if ratio <= mc.config.LyingAspectRatio {
			continue
		}
		events = append(events, LyingPersonEvent{
			Box:             det.Box,
			AspectRatio:     ratio,
			Confidence:      clampConfidence(ratio/mc.config.LyingAspectRatio, 0, 1),
			Severity:        SeverityMedium,
			TimestampMillis: frame.TimestampMillis,
		})
	}
	return events
}

// clampConfidence clamps a confidence value to the range [min, max].
func clampConfidence(value, min, max float64) float64 {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
