package tether

import "sort"

// DtHistorySize is the number of raw frame deltas the median is taken over
const DtHistorySize = 5

// DtSmoother rejects frame timing spikes with a median over the last raw samples.
// The first sample seeds the whole history so the first median is a real sample.
type DtSmoother struct {
	history [DtHistorySize]float64
	next    int
	seeded  bool
	median  float64
}

// NewDtSmoother returns a smoother reporting DefaultDt until the first sample
func NewDtSmoother() DtSmoother {
	return DtSmoother{median: DefaultDt}
}

// Push records a raw frame delta and returns the new median
func (s *DtSmoother) Push(rawDt float64) float64 {
	if !s.seeded {
		for i := range s.history {
			s.history[i] = rawDt
		}
		s.next = 1
		s.seeded = true
	} else {
		s.history[s.next] = rawDt
		s.next = (s.next + 1) % DtHistorySize
	}

	sorted := s.history
	sort.Float64s(sorted[:])
	s.median = sorted[DtHistorySize/2]

	return s.median
}

// Median returns the last computed median
func (s *DtSmoother) Median() float64 {
	if !s.seeded {
		return DefaultDt
	}
	return s.median
}

// History returns the samples, oldest first
func (s *DtSmoother) History() [DtHistorySize]float64 {
	var ordered [DtHistorySize]float64
	for i := range ordered {
		ordered[i] = s.history[(s.next+i)%DtHistorySize]
	}
	return ordered
}

// Seeded reports whether a sample was pushed since creation
func (s *DtSmoother) Seeded() bool {
	return s.seeded
}

// Restore replaces the samples (oldest first) and the median, as saved. An
// unseeded smoother is reset: its history holds no real sample yet.
func (s *DtSmoother) Restore(history [DtHistorySize]float64, median float64, seeded bool) {
	if !seeded {
		*s = NewDtSmoother()
		return
	}
	s.history = history
	s.next = 0
	s.seeded = true
	s.median = median
}
