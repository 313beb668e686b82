package ranges

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalid = errors.New("invalid range")
	ErrOverlap = errors.New("range overlaps an accepted range")
)

// Range is a half-open byte interval [Start, End).
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (r Range) Len() int64 {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Set holds pairwise disjoint ranges sorted by start offset. Accepted
// ranges are kept exactly as submitted (no coalescing), because each one
// maps to a separately stored chunk.
type Set struct {
	spans []Range
}

func NewSet() *Set {
	return &Set{}
}

// Add inserts r, rejecting it with ErrOverlap if any byte of r is already
// covered. Partial overlap counts as a conflict too: chunk boundaries must
// either match prior submissions exactly or be fully disjoint.
func (s *Set) Add(r Range) error {
	if r.Start < 0 || r.End <= r.Start {
		return fmt.Errorf("%w: %s", ErrInvalid, r)
	}

	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].Start >= r.Start
	})

	if i < len(s.spans) && s.spans[i].Start < r.End {
		return fmt.Errorf("%w: %s intersects %s", ErrOverlap, r, s.spans[i])
	}
	if i > 0 && s.spans[i-1].End > r.Start {
		return fmt.Errorf("%w: %s intersects %s", ErrOverlap, r, s.spans[i-1])
	}

	s.spans = append(s.spans, Range{})
	copy(s.spans[i+1:], s.spans[i:])
	s.spans[i] = r
	return nil
}

// Conflicts reports whether any byte of r is already covered, without
// mutating the set.
func (s *Set) Conflicts(r Range) bool {
	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].Start >= r.Start
	})
	if i < len(s.spans) && s.spans[i].Start < r.End {
		return true
	}
	return i > 0 && s.spans[i-1].End > r.Start
}

// Covered returns the total number of bytes in the set.
func (s *Set) Covered() int64 {
	var total int64
	for _, sp := range s.spans {
		total += sp.Len()
	}
	return total
}

// Complete reports whether the set covers [0, size) with no gaps.
func (s *Set) Complete(size int64) bool {
	if size == 0 {
		return true
	}
	var next int64
	for _, sp := range s.spans {
		if sp.Start != next {
			return false
		}
		next = sp.End
	}
	return next == size
}

// Gaps returns the uncovered sub-intervals of [0, size) in ascending order.
func (s *Set) Gaps(size int64) []Range {
	var gaps []Range
	var next int64
	for _, sp := range s.spans {
		if sp.Start > next {
			gaps = append(gaps, Range{Start: next, End: sp.Start})
		}
		next = sp.End
	}
	if next < size {
		gaps = append(gaps, Range{Start: next, End: size})
	}
	return gaps
}

// Spans returns a copy of the accepted ranges in ascending start order.
func (s *Set) Spans() []Range {
	out := make([]Range, len(s.spans))
	copy(out, s.spans)
	return out
}

func (s *Set) Len() int {
	return len(s.spans)
}
