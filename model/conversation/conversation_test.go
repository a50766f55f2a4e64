package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	type testCase struct {
		name     string
		scores   []int
		expected float64
	}

	tests := []testCase{
		{name: "empty set defaults to zero", scores: nil, expected: 0},
		{name: "single score", scores: []int{4}, expected: 4},
		{name: "uniform scores", scores: []int{4, 4, 4}, expected: 4},
		{name: "mixed scores", scores: []int{2, 3, 4}, expected: 3},
		{name: "fractional mean", scores: []int{2, 3}, expected: 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.EqualValues(t, tc.expected, Average(tc.scores))
		})
	}
}

func TestAnyBelow(t *testing.T) {
	assert.True(t, AnyBelow([]int{2, 4, 5}, 3))
	assert.False(t, AnyBelow([]int{3, 4, 5}, 3))
	assert.False(t, AnyBelow(nil, 3))
}

func TestCountBelow(t *testing.T) {
	assert.Equal(t, 2, CountBelow([]int{1, 2, 4}, 3))
	assert.Equal(t, 0, CountBelow([]int{4, 5}, 3))
}
