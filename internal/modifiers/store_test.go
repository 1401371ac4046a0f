package modifiers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/rangepicker/pkg/dateutil"
)

func januaryStore() *Store {
	jan := dateutil.NewMonth(2025, time.January)
	return NewStore().PutMonth(jan, dateutil.DaysBetween(jan.FirstDay(), jan.Add(1).FirstDay()), nil)
}

func day(d int) dateutil.Date {
	return dateutil.NewDate(2025, time.January, d)
}

func TestAddTagIdempotent(t *testing.T) {
	s := januaryStore()

	once := s.AddTag(day(10), TagHovered)
	twice := once.AddTag(day(10), TagHovered)

	assert.Same(t, once, twice, "an already tagged day returns the same store")
	assert.True(t, once.Equal(twice))
	assert.False(t, s.Has(day(10), TagHovered), "AddTag mutated the input store")
	assert.True(t, once.Has(day(10), TagHovered))
}

func TestRemoveTagIdempotent(t *testing.T) {
	s := januaryStore().AddTag(day(3), TagToday)

	once := s.RemoveTag(day(3), TagToday)
	twice := once.RemoveTag(day(3), TagToday)

	assert.Same(t, once, twice, "an untagged day returns the same store")
	assert.False(t, once.Has(day(3), TagToday))
	assert.True(t, s.Has(day(3), TagToday), "RemoveTag mutated the input store")
}

func TestInvisibleDayIsNoop(t *testing.T) {
	s := januaryStore()
	outside := dateutil.NewDate(2025, time.March, 1)

	assert.Same(t, s, s.AddTag(outside, TagHovered))
	assert.Same(t, s, s.RemoveTag(outside, TagHovered))
}

func TestRangeInversionSafety(t *testing.T) {
	s := januaryStore()

	tests := []struct {
		name  string
		start dateutil.Date
		end   dateutil.Date
	}{
		{"equal bounds", day(5), day(5)},
		{"inverted", day(9), day(4)},
		{"zero end", day(4), dateutil.Date{}},
		{"zero start", dateutil.Date{}, day(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Same(t, s, s.AddTagToRange(tt.start, tt.end, TagSelectedSpan))
			assert.Same(t, s, s.RemoveTagFromRange(tt.start, tt.end, TagSelectedSpan))
		})
	}
}

func TestAddTagToRangeIsHalfOpen(t *testing.T) {
	s := januaryStore().AddTagToRange(day(5), day(8), TagSelectedSpan)

	assert.Equal(t, []dateutil.Date{day(5), day(6), day(7)}, s.DaysWithTag(TagSelectedSpan))

	cleared := s.RemoveTagFromRange(day(1), day(31), TagSelectedSpan)
	assert.Empty(t, cleared.DaysWithTag(TagSelectedSpan))
}

func TestRangeClipsToWindow(t *testing.T) {
	s := januaryStore()
	out := s.AddTagToRange(dateutil.NewDate(2024, time.December, 28), dateutil.NewDate(2025, time.January, 3), TagHoveredSpan)

	assert.Equal(t, []dateutil.Date{day(1), day(2)}, out.DaysWithTag(TagHoveredSpan))
}

func TestStructuralSharing(t *testing.T) {
	jan := dateutil.NewMonth(2025, time.January)
	feb := jan.Add(1)
	s := januaryStore().PutMonth(feb, dateutil.DaysBetween(feb.FirstDay(), feb.Add(1).FirstDay()), nil)

	next := s.AddTag(day(15), TagToday)

	assert.Same(t, s.months[feb], next.months[feb], "untouched month bucket is shared")
	assert.NotSame(t, s.months[jan], next.months[jan], "touched month bucket is copied")
}

func TestDuplicateOutsideDays(t *testing.T) {
	jan := dateutil.NewMonth(2025, time.January)
	feb := jan.Add(1)
	shared := dateutil.NewDate(2025, time.February, 1)

	s := NewStore().
		PutMonth(jan, []dateutil.Date{day(30), day(31), shared}, nil).
		PutMonth(feb, []dateutil.Date{day(31), shared, shared.AddDays(1)}, nil)

	s = s.AddTag(shared, TagSelectedStart)
	for _, m := range []dateutil.Month{jan, feb} {
		set, ok := s.MonthTags(m, shared)
		assert.True(t, ok, "bucket %v", m)
		assert.True(t, set.Has(TagSelectedStart), "bucket %v", m)
	}

	s = s.RemoveTag(shared, TagSelectedStart)
	for _, m := range []dateutil.Month{jan, feb} {
		set, _ := s.MonthTags(m, shared)
		assert.False(t, set.Has(TagSelectedStart), "bucket %v", m)
	}
}

func TestDropMonth(t *testing.T) {
	s := januaryStore().AddTag(day(2), TagToday)
	jan := dateutil.NewMonth(2025, time.January)

	dropped := s.DropMonth(jan)
	assert.False(t, dropped.Contains(day(2)))
	assert.True(t, s.Contains(day(2)), "DropMonth mutated the input store")
	assert.Same(t, dropped, dropped.DropMonth(jan), "dropping a missing month is a no-op")
}

func TestEqualAndDiff(t *testing.T) {
	a := januaryStore()
	b := januaryStore()
	require.True(t, a.Equal(b), "fresh stores are equal")

	b = b.AddTag(day(7), TagBlocked)
	assert.False(t, a.Equal(b))
	assert.Equal(t, []dateutil.Date{day(7)}, a.Diff(b))
}

func TestTagSetSliceOrder(t *testing.T) {
	set := NewTagSet(TagValid, TagToday, TagSelectedStart)

	assert.Equal(t, []Tag{TagToday, TagValid, TagSelectedStart}, set.Slice())
	assert.Equal(t, "{today, valid, selected-start}", set.String())
}
