package modifiers

import (
	"sort"

	"github.com/username/rangepicker/pkg/dateutil"
)

// Store is a persistent map of month -> day -> tag set.
//
// A Store is never modified after it is returned. Every mutation copies
// only the month buckets it touches and shares the rest with its parent,
// so snapshots handed to readers stay valid forever.
type Store struct {
	months map[dateutil.Month]*bucket
}

type bucket struct {
	order []dateutil.Date // render order, shared between versions
	tags  map[dateutil.Date]TagSet
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{months: map[dateutil.Month]*bucket{}}
}

// PutMonth returns a store holding a bucket for m with the given days.
// tagsOf may be nil, in which case every day starts untagged.
func (s *Store) PutMonth(m dateutil.Month, days []dateutil.Date, tagsOf func(dateutil.Date) TagSet) *Store {
	b := &bucket{
		order: append([]dateutil.Date(nil), days...),
		tags:  make(map[dateutil.Date]TagSet, len(days)),
	}
	for _, d := range days {
		if tagsOf != nil {
			b.tags[d] = tagsOf(d)
		} else {
			b.tags[d] = TagSet{}
		}
	}

	months := s.cloneMonths()
	months[m] = b
	return &Store{months: months}
}

// DropMonth returns a store without the bucket for m
func (s *Store) DropMonth(m dateutil.Month) *Store {
	if _, ok := s.months[m]; !ok {
		return s
	}
	months := s.cloneMonths()
	delete(months, m)
	return &Store{months: months}
}

// AddTag returns a store where every occurrence of day carries tag.
// The same store is returned when day is not visible or already tagged.
func (s *Store) AddTag(day dateutil.Date, tag Tag) *Store {
	e := s.edit()
	e.set(day, tag, true)
	return e.done()
}

// RemoveTag is the inverse of AddTag
func (s *Store) RemoveTag(day dateutil.Date, tag Tag) *Store {
	e := s.edit()
	e.set(day, tag, false)
	return e.done()
}

// AddTagToRange tags every day in [start, endExclusive). Empty or inverted
// ranges leave the store untouched.
func (s *Store) AddTagToRange(start, endExclusive dateutil.Date, tag Tag) *Store {
	return s.rangeOp(start, endExclusive, tag, true)
}

// RemoveTagFromRange untags every day in [start, endExclusive)
func (s *Store) RemoveTagFromRange(start, endExclusive dateutil.Date, tag Tag) *Store {
	return s.rangeOp(start, endExclusive, tag, false)
}

func (s *Store) rangeOp(start, endExclusive dateutil.Date, tag Tag, add bool) *Store {
	if start.IsZero() || endExclusive.IsZero() || !endExclusive.After(start) {
		return s
	}
	e := s.edit()
	for d := start; d.Before(endExclusive); d = d.AddDays(1) {
		e.set(d, tag, add)
	}
	return e.done()
}

// Contains reports whether day is in any visible month bucket
func (s *Store) Contains(day dateutil.Date) bool {
	for _, m := range candidateMonths(day) {
		if b, ok := s.months[m]; ok {
			if _, ok := b.tags[day]; ok {
				return true
			}
		}
	}
	return false
}

// Tags returns the tag set of day, or the empty set if day is not visible
func (s *Store) Tags(day dateutil.Date) TagSet {
	for _, m := range candidateMonths(day) {
		if b, ok := s.months[m]; ok {
			if set, ok := b.tags[day]; ok {
				return set
			}
		}
	}
	return TagSet{}
}

func (s *Store) Has(day dateutil.Date, tag Tag) bool {
	return s.Tags(day).Has(tag)
}

// MonthTags returns the tag set of day inside the bucket of m
func (s *Store) MonthTags(m dateutil.Month, day dateutil.Date) (TagSet, bool) {
	b, ok := s.months[m]
	if !ok {
		return TagSet{}, false
	}
	set, ok := b.tags[day]
	return set, ok
}

// Months returns the loaded months in ascending order
func (s *Store) Months() []dateutil.Month {
	out := make([]dateutil.Month, 0, len(s.months))
	for m := range s.months {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Days returns the days of month m in render order
func (s *Store) Days(m dateutil.Month) []dateutil.Date {
	b, ok := s.months[m]
	if !ok {
		return nil
	}
	return append([]dateutil.Date(nil), b.order...)
}

// AllDays returns every distinct visible day in ascending order
func (s *Store) AllDays() []dateutil.Date {
	seen := make(map[dateutil.Date]struct{})
	var out []dateutil.Date
	for _, b := range s.months {
		for _, d := range b.order {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// DaysWithTag returns every distinct visible day carrying tag, ascending
func (s *Store) DaysWithTag(tag Tag) []dateutil.Date {
	var out []dateutil.Date
	for _, d := range s.AllDays() {
		if s.Has(d, tag) {
			out = append(out, d)
		}
	}
	return out
}

// Equal reports whether both stores hold the same months, days and tags
func (s *Store) Equal(other *Store) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil || len(s.months) != len(other.months) {
		return false
	}
	for m, b := range s.months {
		ob, ok := other.months[m]
		if !ok || len(b.tags) != len(ob.tags) {
			return false
		}
		for d, set := range b.tags {
			oset, ok := ob.tags[d]
			if !ok || !set.Equal(oset) {
				return false
			}
		}
	}
	return true
}

// Diff lists the days whose tag sets differ between s and other
func (s *Store) Diff(other *Store) []dateutil.Date {
	days := make(map[dateutil.Date]struct{})
	for _, d := range s.AllDays() {
		days[d] = struct{}{}
	}
	for _, d := range other.AllDays() {
		days[d] = struct{}{}
	}

	var out []dateutil.Date
	for d := range days {
		if s.Contains(d) != other.Contains(d) || !s.Tags(d).Equal(other.Tags(d)) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s *Store) cloneMonths() map[dateutil.Month]*bucket {
	months := make(map[dateutil.Month]*bucket, len(s.months)+1)
	for m, b := range s.months {
		months[m] = b
	}
	return months
}

// candidateMonths lists the buckets that may hold day. Outside days only
// ever spill into the neighbouring months.
func candidateMonths(day dateutil.Date) [3]dateutil.Month {
	m := day.MonthKey()
	return [3]dateutil.Month{m, m.Add(-1), m.Add(1)}
}

// editor batches copy-on-write changes so a bucket is copied at most once
// per operation.
type editor struct {
	base   *Store
	months map[dateutil.Month]*bucket
	copied map[dateutil.Month]bool
}

func (s *Store) edit() *editor {
	return &editor{base: s}
}

func (e *editor) set(day dateutil.Date, tag Tag, add bool) {
	for _, m := range candidateMonths(day) {
		b := e.bucket(m)
		if b == nil {
			continue
		}
		set, ok := b.tags[day]
		if !ok || set.Has(tag) == add {
			continue
		}
		b = e.writable(m)
		if add {
			b.tags[day] = set.With(tag)
		} else {
			b.tags[day] = set.Without(tag)
		}
	}
}

func (e *editor) bucket(m dateutil.Month) *bucket {
	if e.months != nil {
		return e.months[m]
	}
	return e.base.months[m]
}

func (e *editor) writable(m dateutil.Month) *bucket {
	if e.months == nil {
		e.months = e.base.cloneMonths()
		e.copied = make(map[dateutil.Month]bool)
	}
	if e.copied[m] {
		return e.months[m]
	}
	src := e.months[m]
	b := &bucket{order: src.order, tags: make(map[dateutil.Date]TagSet, len(src.tags))}
	for d, set := range src.tags {
		b.tags[d] = set
	}
	e.months[m] = b
	e.copied[m] = true
	return b
}

func (e *editor) done() *Store {
	if e.months == nil {
		return e.base
	}
	return &Store{months: e.months}
}
