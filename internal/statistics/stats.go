package statistics

import (
	"github.com/asecurityteam/rolling"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/axb35/ecfand/internal/util"
)

// Stats is the shared in-memory store the poller writes into and the
// prometheus collectors read from.
type Stats struct {
	windowSize int

	latest  cmap.ConcurrentMap[string, float64]
	windows cmap.ConcurrentMap[string, *rolling.PointPolicy]
}

func NewStats(windowSize int) *Stats {
	return &Stats{
		windowSize: windowSize,
		latest:     cmap.New[float64](),
		windows:    cmap.New[*rolling.PointPolicy](),
	}
}

// Set stores the most recent value for the given metric.
func (s *Stats) Set(key string, value float64) {
	s.latest.Set(key, value)
}

// Get returns the most recent value for the given metric.
func (s *Stats) Get(key string) (float64, bool) {
	return s.latest.Get(key)
}

// Record appends a value to the rolling window of the given metric.
func (s *Stats) Record(key string, value float64) {
	window, ok := s.windows.Get(key)
	if !ok {
		window = util.CreateRollingWindow(s.windowSize)
		s.windows.Set(key, window)
	}
	window.Append(value)
}

// Average reduces the rolling window of the given metric to its mean.
func (s *Stats) Average(key string) (float64, bool) {
	window, ok := s.windows.Get(key)
	if !ok {
		return 0, false
	}
	return window.Reduce(rolling.Avg), true
}
