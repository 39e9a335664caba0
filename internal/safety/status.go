package safety

// SafetyStatus is the tri-state assessment for one frame.
type SafetyStatus string

const (
	StatusSafe     SafetyStatus = "safe"
	StatusWarning  SafetyStatus = "warning"
	StatusCritical SafetyStatus = "critical"
)

// AggregateStatus reduces the frame's event lists to a single safety
// level. Pure and order-independent:
//   - critical when any surge is high severity or any fall occurred
//     (falls are always high severity);
//   - warning when more than one medium-grade signal (medium surges
//     plus lying persons) is present;
//   - safe otherwise.
func AggregateStatus(surges []DensitySurgeEvent, falls []FallingPersonEvent, lies []LyingPersonEvent) SafetyStatus {
	if len(falls) > 0 {
		return StatusCritical
	}
	mediumSignals := len(lies)
	for _, s := range surges {
		if s.Severity == SeverityHigh {
			return StatusCritical
		}
		mediumSignals++
	}
	if mediumSignals > 1 {
		return StatusWarning
	}
	return StatusSafe
}
