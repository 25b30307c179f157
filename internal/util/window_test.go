package util

import (
	"testing"

	"github.com/asecurityteam/rolling"
	"github.com/stretchr/testify/assert"
)

func TestRollingWindowAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	avg := window.Reduce(rolling.Avg)

	// THEN
	assert.Equal(t, 2.0, avg)
}

func TestRollingWindowEvictsOldestValue(t *testing.T) {
	window := CreateRollingWindow(2)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	assert.Equal(t, 3.0, window.Reduce(rolling.Max))
}
