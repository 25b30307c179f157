package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	// GIVEN
	input := map[int]string{3: "c", 1: "a", 2: "b"}

	// WHEN
	keys := SortedKeys(input)

	// THEN
	assert.Equal(t, []int{1, 2, 3}, keys)
}
