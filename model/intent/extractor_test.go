package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_Count(t *testing.T) {
	type testCase struct {
		name     string
		goal     string
		expected int
	}

	tests := []testCase{
		{name: "count before chats", goal: "Review the last 3 chats", expected: 3},
		{name: "count before conversations", goal: "Check 7 conversations", expected: 7},
		{name: "no count defaults to 5", goal: "Review recent conversations", expected: 5},
		{name: "unrelated number ignored", goal: "Review conversations from week 12", expected: 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.goal).Count)
		})
	}
}

func TestExtract_Thresholds(t *testing.T) {
	type testCase struct {
		name              string
		goal              string
		expectedThreshold float64
		expectedHard      *float64
	}

	hard := func(v float64) *float64 { return &v }

	tests := []testCase{
		{
			name:              "defaults",
			goal:              "Review the last 5 conversations",
			expectedThreshold: 3.0,
		},
		{
			name:              "aggregate threshold from scores are below",
			goal:              "Check the last 3 chats and update prompt if scores are below 3.5",
			expectedThreshold: 3.5,
		},
		{
			name:              "hard per-item threshold",
			goal:              "Review 5 chats and update prompt if any score is below 4",
			expectedThreshold: 4,
			expectedHard:      hard(4),
		},
		{
			name:              "hard threshold with comparison operator",
			goal:              "Update prompt if score < 2",
			expectedThreshold: 3.0,
			expectedHard:      hard(2),
		},
		{
			name:              "hard threshold with singular score phrase",
			goal:              "Check chats and update prompt if score is below 2.5",
			expectedThreshold: 2.5,
			expectedHard:      hard(2.5),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := Extract(tc.goal)
			assert.EqualValues(t, tc.expectedThreshold, actual.ScoreThreshold)
			if tc.expectedHard == nil {
				assert.Nil(t, actual.HardThreshold)
				return
			}
			if assert.NotNil(t, actual.HardThreshold) {
				assert.EqualValues(t, *tc.expectedHard, *actual.HardThreshold)
			}
		})
	}
}

func TestExtract_Classification(t *testing.T) {
	type testCase struct {
		name     string
		goal     string
		expected Action
	}

	tests := []testCase{
		{
			name:     "review only",
			goal:     "Review the last 5 conversations",
			expected: Inspect,
		},
		{
			name:     "review and update",
			goal:     "Check the last 3 chats and update prompt if scores are below 3.5",
			expected: InspectAndMutate,
		},
		{
			name:     "direct pr creation",
			goal:     "Create a PR to update the system prompt",
			expected: DirectMutate,
		},
		{
			name:     "show conversations is not a direct mutation",
			goal:     "Show conversations and update prompt",
			expected: Unknown,
		},
		{
			name:     "evaluate alone",
			goal:     "Evaluate the most recent conversation",
			expected: Inspect,
		},
		{
			name:     "inspect wins over direct when both review and update present",
			goal:     "Review conversations and create PR",
			expected: InspectAndMutate,
		},
		{
			name:     "unparseable input",
			goal:     "hello there",
			expected: Unknown,
		},
		{
			name:     "empty input",
			goal:     "",
			expected: Unknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.goal).Action)
		})
	}
}

func TestExtract_Flags(t *testing.T) {
	actual := Extract("Show the last 5 conversations")
	assert.True(t, actual.ListRequested)
	assert.False(t, actual.ExplicitMutation)

	actual = Extract("Review chats and create a pull request")
	assert.True(t, actual.ExplicitMutation)
	assert.False(t, actual.ListRequested)
}
