// Package safety implements per-frame crowd safety analysis: person
// tracking across frames, grid-based density surge detection, and
// posture classification (falling, lying). One Analyzer instance owns
// the mutable state for one monitored video stream.
package safety

import (
	"math"
)

// DetectionKind labels what an upstream detector saw.
type DetectionKind string

const (
	KindPerson DetectionKind = "person"
	KindOther  DetectionKind = "other"
)

// BoundingBox is an axis-aligned box in normalized frame coordinates.
// All fields are fractions of frame width/height in [0, 1].
type BoundingBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Valid reports whether the box has positive extent on both axes.
// Degenerate boxes are rejected before they reach any analysis stage.
func (b BoundingBox) Valid() bool {
	return b.Left < b.Right && b.Top < b.Bottom
}

// Width returns the normalized horizontal extent.
func (b BoundingBox) Width() float64 { return b.Right - b.Left }

// Height returns the normalized vertical extent.
func (b BoundingBox) Height() float64 { return b.Bottom - b.Top }

// Center returns the box midpoint in normalized coordinates.
func (b BoundingBox) Center() (x, y float64) {
	return (b.Left + b.Right) / 2, (b.Top + b.Bottom) / 2
}

// AspectRatio returns width/height. Callers must ensure the box is
// valid; a degenerate box would divide by zero.
func (b BoundingBox) AspectRatio() float64 {
	return b.Width() / b.Height()
}

// distance returns the Euclidean distance between two points in
// normalized coordinates.
func distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Detection is a single object reported by the upstream vision
// collaborator for one frame.
type Detection struct {
	Kind DetectionKind `json:"kind"`
	Box  BoundingBox   `json:"box"`
}

// FrameObservation is one frame's worth of detections. It is immutable
// once built; NewFrameObservation is the only constructor.
type FrameObservation struct {
	FrameID         string      `json:"frame_id"`
	TimestampMillis int64       `json:"timestamp_millis"`
	Detections      []Detection `json:"detections"`
}

// NewFrameObservation builds a frame observation from raw detections,
// discarding any with a degenerate bounding box. The returned count is
// the number of detections dropped, for caller-side accounting.
func NewFrameObservation(frameID string, timestampMillis int64, detections []Detection) (*FrameObservation, int) {
	kept := make([]Detection, 0, len(detections))
	dropped := 0
	for _, d := range detections {
		if !d.Box.Valid() {
			dropped++
			continue
		}
		kept = append(kept, d)
	}
	return &FrameObservation{
		FrameID:         frameID,
		TimestampMillis: timestampMillis,
		Detections:      kept,
	}, dropped
}

// Persons returns only the person detections of the frame.
func (f *FrameObservation) Persons() []Detection {
	persons := make([]Detection, 0, len(f.Detections))
	for _, d := range f.Detections {
		if d.Kind == KindPerson {
			persons = append(persons, d)
		}
	}
	return persons
}
