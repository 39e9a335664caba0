package safety

import (
	"gonum.org/v1/gonum/stat"
)

// DensityCell is one cell of the fixed spatial grid with its person
// count and density for a single frame.
type DensityCell struct {
	Row int `json:"row"`
	Col int `json:"col"`

	// Cell geometry in normalized coordinates.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	PersonCount     int     `json:"person_count"`
	Density         float64 `json:"density"` // PersonCount / (Width*Height)
	TimestampMillis int64   `json:"timestamp_millis"`
}

// DensityGrid partitions frames into a fixed square grid and counts
// person detections per cell. Analysis itself is stateless; the grid
// keeps a bounded history of snapshots for surge comparison.
type DensityGrid struct {
	size    int
	history *gridHistory
}

// NewDensityGrid creates a grid analyzer of dimension size × size
// retaining at most maxHistory snapshots.
func NewDensityGrid(size, maxHistory int) *DensityGrid {
	if size < 1 {
		size = 1
	}
	return &DensityGrid{
		size:    size,
		history: newGridHistory(maxHistory),
	}
}

// Analyze computes the density snapshot for one frame: a row-major
// slice of size×size cells, counting person detections whose bbox
// center falls within [cellX, cellX+w) × [cellY, cellY+h). Pure
// function of the frame; does not touch the snapshot history.
func (g *DensityGrid) Analyze(frame *FrameObservation) []DensityCell {
	n := g.size
	cellW := 1.0 / float64(n)
	cellH := 1.0 / float64(n)
	cellArea := cellW * cellH

	counts := make([]int, n*n)
	for _, det := range frame.Persons() {
		cx, cy := det.Box.Center()
		col := int(cx / cellW)
		row := int(cy / cellH)
		// Centers exactly on the far edge (x or y == 1.0) land in the
		// last cell rather than out of range.
		if col >= n {
			col = n - 1
		}
		if row >= n {
			row = n - 1
		}
		if col < 0 || row < 0 {
			continue
		}
		counts[row*n+col]++
	}

	cells := make([]DensityCell, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			k := row*n + col
			cells[k] = DensityCell{
				Row:             row,
				Col:             col,
				X:               float64(col) * cellW,
				Y:               float64(row) * cellH,
				Width:           cellW,
				Height:          cellH,
				PersonCount:     counts[k],
				Density:         float64(counts[k]) / cellArea,
				TimestampMillis: frame.TimestampMillis,
			}
		}
	}
	return cells
}

// Record appends a snapshot to the bounded history.
func (g *DensityGrid) Record(snapshot []DensityCell) {
	g.history.add(snapshot)
}

// Latest returns the most recent snapshot, or nil if none recorded.
func (g *DensityGrid) Latest() []DensityCell { return g.history.previous(1) }

// PreviousSnapshot returns the snapshot before the most recent, or nil.
func (g *DensityGrid) PreviousSnapshot() []DensityCell { return g.history.previous(2) }

// HistorySize returns the number of retained snapshots.
func (g *DensityGrid) HistorySize() int { return g.history.size }

// GridSummary describes the occupancy of one density snapshot.
type GridSummary struct {
	MeanDensity   float64 `json:"mean_density"`
	StdDevDensity float64 `json:"stddev_density"`
	MaxDensity    float64 `json:"max_density"`
	OccupiedCells int     `json:"occupied_cells"`
}

// Summarize reduces a snapshot to its occupancy statistics.
func Summarize(snapshot []DensityCell) GridSummary {
	if len(snapshot) == 0 {
		return GridSummary{}
	}
	densities := make([]float64, len(snapshot))
	summary := GridSummary{}
	for i, cell := range snapshot {
		densities[i] = cell.Density
		if cell.Density > summary.MaxDensity {
			summary.MaxDensity = cell.Density
		}
		if cell.PersonCount > 0 {
			summary.OccupiedCells++
		}
	}
	summary.MeanDensity = stat.Mean(densities, nil)
	if len(densities) > 1 {
		summary.StdDevDensity = stat.StdDev(densities, nil)
	}
	return summary
}

// gridHistory is a fixed-capacity ring of density snapshots, same
// layout as FrameHistory.
type gridHistory struct {
	snapshots [][]DensityCell
	capacity  int
	head      int
	size      int
}

func newGridHistory(capacity int) *gridHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &gridHistory{
		snapshots: make([][]DensityCell, capacity),
		capacity:  capacity,
	}
}

func (gh *gridHistory) add(snapshot []DensityCell) {
	gh.snapshots[gh.head] = snapshot
	gh.head = (gh.head + 1) % gh.capacity
	if gh.size < gh.capacity {
		gh.size++
	}
}

// previous returns the snapshot n steps back from the most recent,
// where previous(1) is the latest. Returns nil when out of range.
func (gh *gridHistory) previous(n int) []DensityCell {
	if n < 1 || n > gh.size {
		return nil
	}
	idx := (gh.head - n + gh.capacity) % gh.capacity
	return gh.snapshots[idx]
}
