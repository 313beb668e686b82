package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_RejectsInvalidRanges(t *testing.T) {
	tests := []struct {
		name string
		r    Range
	}{
		{"negative start", Range{Start: -1, End: 4}},
		{"empty", Range{Start: 4, End: 4}},
		{"inverted", Range{Start: 8, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet()
			err := s.Add(tt.r)
			require.ErrorIs(t, err, ErrInvalid)
			assert.Zero(t, s.Len())
		})
	}
}

func TestAdd_RejectsOverlap(t *testing.T) {
	tests := []struct {
		name string
		r    Range
	}{
		{"exact duplicate", Range{Start: 4, End: 8}},
		{"contained", Range{Start: 5, End: 7}},
		{"straddles left edge", Range{Start: 2, End: 5}},
		{"straddles right edge", Range{Start: 7, End: 10}},
		{"covers existing", Range{Start: 3, End: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet()
			require.NoError(t, s.Add(Range{Start: 4, End: 8}))

			err := s.Add(tt.r)
			require.ErrorIs(t, err, ErrOverlap)

			// the set must be left untouched
			assert.Equal(t, []Range{{Start: 4, End: 8}}, s.Spans())
			assert.EqualValues(t, 4, s.Covered())
		})
	}
}

func TestAdd_AcceptsAdjacentRanges(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(Range{Start: 4, End: 8}))
	require.NoError(t, s.Add(Range{Start: 0, End: 4}))
	require.NoError(t, s.Add(Range{Start: 8, End: 10}))

	assert.Equal(t, []Range{{0, 4}, {4, 8}, {8, 10}}, s.Spans())
	assert.EqualValues(t, 10, s.Covered())
}

func TestConflicts(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(Range{Start: 4, End: 8}))

	assert.True(t, s.Conflicts(Range{Start: 4, End: 8}))
	assert.True(t, s.Conflicts(Range{Start: 7, End: 12}))
	assert.True(t, s.Conflicts(Range{Start: 0, End: 5}))
	assert.False(t, s.Conflicts(Range{Start: 0, End: 4}))
	assert.False(t, s.Conflicts(Range{Start: 8, End: 12}))

	// probing never mutates
	assert.Equal(t, []Range{{Start: 4, End: 8}}, s.Spans())
}

func TestComplete(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(Range{Start: 4, End: 10}))
	assert.False(t, s.Complete(10), "missing [0,4)")

	require.NoError(t, s.Add(Range{Start: 0, End: 4}))
	assert.True(t, s.Complete(10))
	assert.False(t, s.Complete(12), "tail [10,12) missing")
}

func TestGaps(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(Range{Start: 2, End: 4}))
	require.NoError(t, s.Add(Range{Start: 6, End: 8}))

	assert.Equal(t, []Range{{0, 2}, {4, 6}, {8, 10}}, s.Gaps(10))

	require.NoError(t, s.Add(Range{Start: 0, End: 2}))
	require.NoError(t, s.Add(Range{Start: 4, End: 6}))
	require.NoError(t, s.Add(Range{Start: 8, End: 10}))
	assert.Empty(t, s.Gaps(10))
}

func TestSpans_SortedRegardlessOfInsertionOrder(t *testing.T) {
	s := NewSet()
	require.NoError(t, s.Add(Range{Start: 8, End: 10}))
	require.NoError(t, s.Add(Range{Start: 0, End: 4}))
	require.NoError(t, s.Add(Range{Start: 4, End: 8}))

	spans := s.Spans()
	require.Len(t, spans, 3)
	assert.EqualValues(t, 0, spans[0].Start)
	assert.EqualValues(t, 4, spans[1].Start)
	assert.EqualValues(t, 8, spans[2].Start)
}
