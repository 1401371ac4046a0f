package modifiers

import (
	"sort"
	"strings"
)

// Tag is a semantic label attached to a visible day
type Tag string

const (
	TagToday                            Tag = "today"
	TagBlocked                          Tag = "blocked"
	TagBlockedCalendar                  Tag = "blocked-calendar"
	TagBlockedOutOfRange                Tag = "blocked-out-of-range"
	TagBlockedMinimumNights             Tag = "blocked-minimum-nights"
	TagHighlightedCalendar              Tag = "highlighted-calendar"
	TagValid                            Tag = "valid"
	TagSelectedStart                    Tag = "selected-start"
	TagSelectedEnd                      Tag = "selected-end"
	TagSelectedSpan                     Tag = "selected-span"
	TagLastInRange                      Tag = "last-in-range"
	TagSelectedStartNoSelectedEnd       Tag = "selected-start-no-selected-end"
	TagSelectedEndNoSelectedStart       Tag = "selected-end-no-selected-start"
	TagNoSelectedStartBeforeSelectedEnd Tag = "no-selected-start-before-selected-end"
	TagHovered                          Tag = "hovered"
	TagHoveredSpan                      Tag = "hovered-span"
	TagSelectedStartInHoveredSpan       Tag = "selected-start-in-hovered-span"
	TagSelectedEndInHoveredSpan         Tag = "selected-end-in-hovered-span"
	TagAfterHoveredStart                Tag = "after-hovered-start"
	TagBeforeHoveredEnd                 Tag = "before-hovered-end"
	TagHoveredStartBlockedMinNights     Tag = "hovered-start-blocked-minimum-nights"
	TagHoveredStartFirstPossibleEnd     Tag = "hovered-start-first-possible-end"
	TagHoveredOffset                    Tag = "hovered-offset"
	TagFirstDayOfWeek                   Tag = "first-day-of-week"
	TagLastDayOfWeek                    Tag = "last-day-of-week"
)

// Vocabulary lists every tag in display order
var Vocabulary = []Tag{
	TagToday,
	TagBlocked,
	TagBlockedCalendar,
	TagBlockedOutOfRange,
	TagBlockedMinimumNights,
	TagHighlightedCalendar,
	TagValid,
	TagSelectedStart,
	TagSelectedEnd,
	TagSelectedSpan,
	TagLastInRange,
	TagSelectedStartNoSelectedEnd,
	TagSelectedEndNoSelectedStart,
	TagNoSelectedStartBeforeSelectedEnd,
	TagHovered,
	TagHoveredSpan,
	TagSelectedStartInHoveredSpan,
	TagSelectedEndInHoveredSpan,
	TagAfterHoveredStart,
	TagBeforeHoveredEnd,
	TagHoveredStartBlockedMinNights,
	TagHoveredStartFirstPossibleEnd,
	TagHoveredOffset,
	TagFirstDayOfWeek,
	TagLastDayOfWeek,
}

var vocabularyIndex = func() map[Tag]int {
	idx := make(map[Tag]int, len(Vocabulary))
	for i, t := range Vocabulary {
		idx[t] = i
	}
	return idx
}()

// IsKnown reports whether t belongs to the vocabulary
func IsKnown(t Tag) bool {
	_, ok := vocabularyIndex[t]
	return ok
}

// TagSet is an immutable set of tags. The zero value is the empty set.
type TagSet struct {
	tags map[Tag]struct{}
}

// NewTagSet builds a set from the given tags
func NewTagSet(tags ...Tag) TagSet {
	if len(tags) == 0 {
		return TagSet{}
	}
	m := make(map[Tag]struct{}, len(tags))
	for _, t := range tags {
		m[t] = struct{}{}
	}
	return TagSet{tags: m}
}

func (s TagSet) Has(t Tag) bool {
	_, ok := s.tags[t]
	return ok
}

func (s TagSet) Len() int {
	return len(s.tags)
}

// With returns a set that also contains t. The receiver is not modified.
func (s TagSet) With(t Tag) TagSet {
	if s.Has(t) {
		return s
	}
	m := make(map[Tag]struct{}, len(s.tags)+1)
	for k := range s.tags {
		m[k] = struct{}{}
	}
	m[t] = struct{}{}
	return TagSet{tags: m}
}

// Without returns a set that does not contain t. The receiver is not modified.
func (s TagSet) Without(t Tag) TagSet {
	if !s.Has(t) {
		return s
	}
	if len(s.tags) == 1 {
		return TagSet{}
	}
	m := make(map[Tag]struct{}, len(s.tags)-1)
	for k := range s.tags {
		if k != t {
			m[k] = struct{}{}
		}
	}
	return TagSet{tags: m}
}

func (s TagSet) Equal(other TagSet) bool {
	if len(s.tags) != len(other.tags) {
		return false
	}
	for t := range s.tags {
		if !other.Has(t) {
			return false
		}
	}
	return true
}

// Slice returns the tags in vocabulary order; unknown tags sort last alphabetically
func (s TagSet) Slice() []Tag {
	out := make([]Tag, 0, len(s.tags))
	for t := range s.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		ii, iok := vocabularyIndex[out[i]]
		jj, jok := vocabularyIndex[out[j]]
		switch {
		case iok && jok:
			return ii < jj
		case iok != jok:
			return iok
		default:
			return out[i] < out[j]
		}
	})
	return out
}

func (s TagSet) String() string {
	tags := s.Slice()
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
