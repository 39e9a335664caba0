package safety

// FrameHistory maintains a sliding window of recent frame observations.
// It is a fixed-capacity ring: once full, the oldest frame is
// overwritten by each new arrival.
type FrameHistory struct {
	frames   []*FrameObservation
	capacity int
	head     int // next write position
	size     int // current number of frames stored
}

// NewFrameHistory creates a frame history buffer with the specified
// capacity.
func NewFrameHistory(capacity int) *FrameHistory {
	if capacity < 1 {
		capacity = 1
	}
	return &FrameHistory{
		frames:   make([]*FrameObservation, capacity),
		capacity: capacity,
	}
}

// Add stores a new frame, overwriting the oldest if at capacity.
func (fh *FrameHistory) Add(frame *FrameObservation) {
	fh.frames[fh.head] = frame
	fh.head = (fh.head + 1) % fh.capacity
	if fh.size < fh.capacity {
		fh.size++
	}
}

// Previous returns the frame N steps back from the most recent:
// Previous(1) is the most recently added frame, Previous(2) the one
// before it. Returns nil if the requested frame does not exist.
func (fh *FrameHistory) Previous(n int) *FrameObservation {
	if n < 1 || n > fh.size {
		return nil
	}
	idx := (fh.head - n + fh.capacity) % fh.capacity
	return fh.frames[idx]
}

// Size returns the current number of frames in history.
func (fh *FrameHistory) Size() int { return fh.size }

// Capacity returns the maximum number of frames that can be stored.
func (fh *FrameHistory) Capacity() int { return fh.capacity }

// All returns the retained frames from oldest to newest.
func (fh *FrameHistory) All() []*FrameObservation {
	if fh.size == 0 {
		return nil
	}
	result := make([]*FrameObservation, fh.size)
	for i := 0; i < fh.size; i++ {
		idx := (fh.head - fh.size + i + fh.capacity) % fh.capacity
		result[i] = fh.frames[idx]
	}
	return result
}

// Clear removes all frames from history.
func (fh *FrameHistory) Clear() {
	for i := range fh.frames {
		fh.frames[i] = nil
	}
	fh.head = 0
	fh.size = 0
}
