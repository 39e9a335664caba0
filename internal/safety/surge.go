package safety

import (
	"math"
)

// Severity grades how serious an anomaly event is.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// zeroBaselineIncreasePercent is reported when a cell jumps from zero
// density to above the absolute threshold: the relative increase is
// undefined against a zero baseline, so the event carries this
// placeholder and sets ZeroBaseline to distinguish it from a genuine
// doubling.
const zeroBaselineIncreasePercent = 100.0

// DensitySurgeEvent reports a sudden density increase in one grid cell
// between two consecutive snapshots.
type DensitySurgeEvent struct {
	Cell            DensityCell `json:"cell"`
	CurrentDensity  float64     `json:"current_density"`
	PreviousDensity float64     `json:"previous_density"`
	IncreasePercent float64     `json:"increase_percent"`

	// ZeroBaseline marks events whose previous density was zero;
	// IncreasePercent is a placeholder there, not a measured increase.
	ZeroBaseline bool `json:"zero_baseline,omitempty"`

	Severity        Severity `json:"severity"`
	TimestampMillis int64    `json:"timestamp_millis"`
}

// SurgeDetector flags abnormal density increases between the two most
// recent grid snapshots.
type SurgeDetector struct {
	config AnalyzerConfig
}

// NewSurgeDetector creates a surge detector with the given thresholds.
func NewSurgeDetector(config AnalyzerConfig) *SurgeDetector {
	return &SurgeDetector{config: config.sanitize()}
}

// Detect compares snapshots cell by cell. Both must come from the same
// grid geometry (equal length, matching row-major order); if either is
// nil or the lengths differ, no events are produced. A cell triggers
// when its density exceeds the absolute threshold and grew by more
// than the configured relative factor over the previous snapshot. A
// jump from zero density straight past the absolute threshold triggers
// immediately at high severity.
func (sd *SurgeDetector) Detect(previous, current []DensityCell) []DensitySurgeEvent {
	if previous == nil || current == nil || len(previous) != len(current) {
		return nil
	}

	var events []DensitySurgeEvent
	for k := range current {
		cur := current[k]
		prev := previous[k]

		if cur.Density <= sd.config.DensityThreshold {
			continue
		}

		if prev.Density == 0 {
			events = append(events, DensitySurgeEvent{
				Cell:            cur,
				CurrentDensity:  cur.Density,
				PreviousDensity: 0,
				IncreasePercent: zeroBaselineIncreasePercent,
				ZeroBaseline:    true,
				Severity:        SeverityHigh,
				TimestampMillis: cur.TimestampMillis,
			})
			continue
		}

		if cur.Density <= prev.Density*(1+sd.config.SurgeThreshold) {
			continue
		}

		severity := SeverityMedium
		if cur.Density > 2*sd.config.DensityThreshold {
			severity = SeverityHigh
		}
		increase := (cur.Density - prev.Density) / prev.Density * 100
		events = append(events, DensitySurgeEvent{
			Cell:            cur,
			CurrentDensity:  cur.Density,
			PreviousDensity: prev.Density,
			IncreasePercent: math.Round(increase*10) / 10,
			Severity:        severity,
			TimestampMillis: cur.TimestampMillis,
		})
	}
	return events
}
