// Package random produces reproducible pseudo-random choices for randomized
// walks over the picker.
package random

import (
	"math/rand"
	"sort"
	"time"

	"github.com/username/rangepicker/pkg/dateutil"
)

// Source is a seeded generator. It is not safe for concurrent use.
type Source struct {
	seed int64
	r    *rand.Rand
}

// New creates a source. Seed 0 picks a seed from the clock.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed needed to reproduce this source
func (s *Source) Seed() int64 {
	return s.seed
}

// Intn returns a value in [0, n); n <= 0 yields 0
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

// Between returns a value in [lo, hi]
func (s *Source) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// Chance reports true with the given percent probability
func (s *Source) Chance(percent float64) bool {
	if percent <= 0 {
		return false
	}
	return s.r.Float64()*100 < percent
}

// Weighted picks an index with probability proportional to its weight.
// Non-positive weights are never picked; -1 means nothing could be.
func (s *Source) Weighted(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}

	n := s.r.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

// SelectRandomItems selects n random items from slice
// Returns indices of selected items
func (s *Source) SelectRandomItems(totalCount, n int) []int {
	if n <= 0 || totalCount <= 0 {
		return []int{}
	}

	allIndices := make([]int, totalCount)
	for i := range allIndices {
		allIndices[i] = i
	}
	if n >= totalCount {
		return allIndices
	}

	// Fisher-Yates
	for i := len(allIndices) - 1; i > 0; i-- {
		j := s.r.Intn(i + 1)
		allIndices[i], allIndices[j] = allIndices[j], allIndices[i]
	}

	return allIndices[:n]
}

// DateBetween returns a day in [from, to]
func (s *Source) DateBetween(from, to dateutil.Date) dateutil.Date {
	return from.AddDays(s.Between(0, from.DaysUntil(to)))
}

// SelectRandomDates picks n distinct days in [from, to], in calendar order
func (s *Source) SelectRandomDates(from, to dateutil.Date, n int) []dateutil.Date {
	indices := s.SelectRandomItems(from.DaysUntil(to)+1, n)
	sort.Ints(indices)

	dates := make([]dateutil.Date, len(indices))
	for i, idx := range indices {
		dates[i] = from.AddDays(idx)
	}
	return dates
}
