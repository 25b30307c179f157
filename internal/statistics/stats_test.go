package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsLatestValue(t *testing.T) {
	stats := NewStats(10)

	stats.Set(TemperatureKey(), 42)
	stats.Set(TemperatureKey(), 55)

	value, ok := stats.Get(TemperatureKey())
	assert.True(t, ok)
	assert.Equal(t, 55.0, value)
}

func TestStatsMissingValue(t *testing.T) {
	stats := NewStats(10)

	_, ok := stats.Get(FanLevelKey(1))
	assert.False(t, ok)

	_, ok = stats.Average(FanRpmKey(1))
	assert.False(t, ok)
}

func TestStatsRollingAverage(t *testing.T) {
	// GIVEN: a window of 3 that has seen 4 values
	stats := NewStats(3)
	for _, rpm := range []float64{1000, 2000, 3000, 4000} {
		stats.Record(FanRpmKey(1), rpm)
	}

	// WHEN
	value, ok := stats.Average(FanRpmKey(1))

	// THEN: the oldest value has been evicted
	assert.True(t, ok)
	assert.Equal(t, 3000.0, value)
}
