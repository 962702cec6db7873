package tether

const (
	stuckThreshold = 0.33 // sec
	stuckRebase    = 0.45 // sec
)

// StuckTracker accumulates time a body spends without making progress.
// Once over the rebase limit the counter drops back just under the stuck
// threshold, so a body that stays wedged reports stuck again on a steady cadence.
type StuckTracker struct {
	unmovedTime float64 // sec
}

// RegisterUnmoved adds dt seconds without progress
func (s *StuckTracker) RegisterUnmoved(dt float64) {
	s.unmovedTime += dt
	if s.unmovedTime > stuckRebase {
		s.unmovedTime = stuckThreshold - 2*dt - 0.005
	}
}

// RegisterFreed resets the tracker after the body moved
func (s *StuckTracker) RegisterFreed() {
	s.unmovedTime = 0
}

// IsStuck reports whether the body has not moved for long enough
func (s *StuckTracker) IsStuck() bool {
	return s.unmovedTime > stuckThreshold
}

// UnmovedTime returns the accumulated time in seconds
func (s *StuckTracker) UnmovedTime() float64 {
	return s.unmovedTime
}
