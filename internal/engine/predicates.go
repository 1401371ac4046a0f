package engine

import (
	"time"

	"github.com/username/rangepicker/internal/modifiers"
	"github.com/username/rangepicker/pkg/dateutil"
)

// span is a half-open day range [from, to). The zero span is empty.
type span struct {
	from dateutil.Date
	to   dateutil.Date
}

func between(from, to dateutil.Date) span {
	if from.IsZero() || to.IsZero() || !to.After(from) {
		return span{}
	}
	return span{from: from, to: to}
}

func single(day dateutil.Date) span {
	if day.IsZero() {
		return span{}
	}
	return span{from: day, to: day.AddDays(1)}
}

func (s span) empty() bool {
	return s.from.IsZero()
}

func (s span) contains(day dateutil.Date) bool {
	return !s.empty() && !day.Before(s.from) && day.Before(s.to)
}

// everything is the view used when evaluating a single day outside a store
var everything = span{from: dateutil.NewDate(1, time.January, 1), to: dateutil.NewDate(9999, time.December, 31)}

func (in *Inputs) hasStart() bool { return !in.StartDate.IsZero() }
func (in *Inputs) hasEnd() bool { return !in.EndDate.IsZero() }
func (in *Inputs) hasHover() bool { return !in.Hover.IsZero() }

// IsStartDate reports whether day is the selected start
func (in *Inputs) IsStartDate(day dateutil.Date) bool {
	return in.hasStart() && day == in.StartDate
}

func (in *Inputs) IsEndDate(day dateutil.Date) bool {
	return in.hasEnd() && day == in.EndDate
}

func (in *Inputs) IsToday(day dateutil.Date) bool {
	return !in.Today.IsZero() && day == in.Today
}

// DoesNotMeetMinimumNights reports whether choosing day as the end would
// violate the minimum stay. Days before the start never do.
func (in *Inputs) DoesNotMeetMinimumNights(day dateutil.Date) bool {
	if in.FocusedInput != FocusEndDate {
		return false
	}
	if in.hasStart() {
		diff := in.StartDate.DaysUntil(day)
		return diff >= 0 && diff < in.MinimumNights
	}
	return in.Predicates.IsOutsideRange.Test(day.AddDays(-in.MinimumNights))
}

// IsBlockedForDisplay is the predicate behind the blocked tag
func (in *Inputs) IsBlockedForDisplay(day dateutil.Date) bool {
	return in.Predicates.IsDayBlocked.Test(day) ||
		in.Predicates.IsOutsideRange.Test(day) ||
		in.DoesNotMeetMinimumNights(day)
}

// IsBlockedForInteraction decides whether a day can be clicked or hovered
// into a span. Minimum-nights violations stay clickable when the host opts in.
func (in *Inputs) IsBlockedForInteraction(day dateutil.Date) bool {
	if in.Predicates.IsDayBlocked.Test(day) || in.Predicates.IsOutsideRange.Test(day) {
		return true
	}
	return !in.DaysViolatingMinNightsCanBeClicked && in.DoesNotMeetMinimumNights(day)
}

func (in *Inputs) IsInSelectedSpan(day dateutil.Date) bool {
	return in.selectedSpan().contains(day)
}

func (in *Inputs) IsLastInRange(day dateutil.Date) bool {
	return in.lastInRange().contains(day)
}

func (in *Inputs) IsHovered(day dateutil.Date) bool {
	return in.hovered().contains(day)
}

func (in *Inputs) IsInHoveredSpan(day dateutil.Date) bool {
	return in.hoveredSpan().contains(day)
}

// IsDayAfterHoveredStartDate reports whether day carries after-hovered-start.
// Unlike a single start+1 check it covers the whole stay the minimum forces,
// [start+1, start+minimumNights+1), matching the range the start transition
// moves.
func (in *Inputs) IsDayAfterHoveredStartDate(day dateutil.Date) bool {
	return in.afterHoveredStart().contains(day)
}

func (in *Inputs) IsInHoveredOffset(day dateutil.Date) bool {
	return in.hoveredOffset().contains(day)
}

func (in *Inputs) IsDayBeforeHoveredEndDate(day dateutil.Date) bool {
	return in.beforeHoveredEnd().contains(day)
}

func IsFirstDayOfWeek(day dateutil.Date, firstDay time.Weekday) bool {
	return day.Weekday() == firstDay
}

func IsLastDayOfWeek(day dateutil.Date, firstDay time.Weekday) bool {
	return day.Weekday() == (firstDay+6)%7
}

// Extents. Each returns exactly the days on which its tag holds, so the
// incremental rules and ComputeModifiers cannot disagree.

func (in *Inputs) selectedStart() span { return single(in.StartDate) }
func (in *Inputs) selectedEnd() span { return single(in.EndDate) }

func (in *Inputs) startNoEnd() span {
	if in.hasEnd() {
		return span{}
	}
	return single(in.StartDate)
}

func (in *Inputs) endNoStart() span {
	if in.hasStart() {
		return span{}
	}
	return single(in.EndDate)
}

func (in *Inputs) noStartBeforeEnd(view span) span {
	if in.hasStart() || !in.hasEnd() {
		return span{}
	}
	return between(view.from, in.EndDate)
}

func (in *Inputs) selectedSpan() span {
	if !in.hasStart() || !in.hasEnd() {
		return span{}
	}
	return between(in.StartDate.AddDays(1), in.EndDate)
}

func (in *Inputs) lastInRange() span {
	sel := in.selectedSpan()
	if sel.empty() {
		return span{}
	}
	return single(in.EndDate.AddDays(-1))
}

func (in *Inputs) hovered() span {
	if in.FocusedInput == FocusNone || in.hasOffsets() {
		return span{}
	}
	return single(in.Hover)
}

// hoveredOffset previews the range a click on the hovered day would select.
// It replaces every other hover tag while an offset is set.
func (in *Inputs) hoveredOffset() span {
	if in.FocusedInput == FocusNone || !in.hasHover() || !in.hasOffsets() {
		return span{}
	}
	start, end := in.OffsetRange(in.Hover)
	return between(start, end.AddDays(1))
}

// hoverCanAnchor gates every span that follows the hovered day
func (in *Inputs) hoverCanAnchor() bool {
	return in.hasHover() && !in.hasOffsets() && !in.IsBlockedForInteraction(in.Hover)
}

func (in *Inputs) hoveringForward() bool {
	return in.hasStart() && !in.hasEnd() && in.FocusedInput == FocusEndDate &&
		in.hoverCanAnchor() && in.Hover.After(in.StartDate)
}

func (in *Inputs) hoveringBackward() bool {
	return in.hasEnd() && !in.hasStart() && in.FocusedInput == FocusStartDate &&
		in.hoverCanAnchor() && in.Hover.Before(in.EndDate)
}

func (in *Inputs) hoveredSpan() span {
	switch {
	case in.hoveringForward():
		return between(in.StartDate.AddDays(1), in.Hover.AddDays(1))
	case in.hoveringBackward():
		return between(in.Hover, in.EndDate)
	default:
		return span{}
	}
}

func (in *Inputs) selectedStartInHoveredSpan() span {
	if !in.hoveringForward() {
		return span{}
	}
	return single(in.StartDate)
}

func (in *Inputs) selectedEndInHoveredSpan() span {
	if !in.hoveringBackward() {
		return span{}
	}
	return single(in.EndDate)
}

func (in *Inputs) afterHoveredStart() span {
	if in.hasOffsets() || !in.hasStart() || in.hasEnd() || in.MinimumNights <= 0 || in.Hover != in.StartDate {
		return span{}
	}
	return between(in.StartDate.AddDays(1), in.StartDate.AddDays(in.MinimumNights+1))
}

func (in *Inputs) beforeHoveredEnd() span {
	if in.hasOffsets() || !in.hasEnd() || in.hasStart() || in.MinimumNights <= 0 || in.Hover != in.EndDate {
		return span{}
	}
	return between(in.EndDate.AddDays(-in.MinimumNights), in.EndDate)
}

// hoverMinNights returns the minimum stay anchored on the hovered day when
// the start input is focused, or 0.
func (in *Inputs) hoverMinNights() int {
	if in.FocusedInput != FocusStartDate || !in.hoverCanAnchor() {
		return 0
	}
	return in.Predicates.GetMinNightsForHoverDate.Nights(in.Hover)
}

func (in *Inputs) hoveredStartBlockedMinNights() span {
	k := in.hoverMinNights()
	if k <= 0 {
		return span{}
	}
	return between(in.Hover.AddDays(1), in.Hover.AddDays(k))
}

func (in *Inputs) hoveredStartFirstPossibleEnd() span {
	k := in.hoverMinNights()
	if k <= 0 {
		return span{}
	}
	return single(in.Hover.AddDays(k))
}

// minNightsRange covers blocked-minimum-nights while a start is set. When no
// start is set the tag depends on every day and has no finite extent.
func (in *Inputs) minNightsRange() span {
	if in.FocusedInput != FocusEndDate || !in.hasStart() || in.MinimumNights <= 0 {
		return span{}
	}
	return between(in.StartDate, in.StartDate.AddDays(in.MinimumNights))
}

func (in *Inputs) minNightsNeedsWindow() bool {
	return in.FocusedInput == FocusEndDate && !in.hasStart()
}

type extentFunc func(in *Inputs, view span) span

func fixed(f func(*Inputs) span) extentFunc {
	return func(in *Inputs, _ span) span { return f(in) }
}

// rangeTags lists every tag whose truth is a single contiguous extent
var rangeTags = []struct {
	tag    modifiers.Tag
	extent extentFunc
}{
	{modifiers.TagSelectedStart, fixed((*Inputs).selectedStart)},
	{modifiers.TagSelectedEnd, fixed((*Inputs).selectedEnd)},
	{modifiers.TagSelectedStartNoSelectedEnd, fixed((*Inputs).startNoEnd)},
	{modifiers.TagSelectedEndNoSelectedStart, fixed((*Inputs).endNoStart)},
	{modifiers.TagNoSelectedStartBeforeSelectedEnd, (*Inputs).noStartBeforeEnd},
	{modifiers.TagSelectedSpan, fixed((*Inputs).selectedSpan)},
	{modifiers.TagLastInRange, fixed((*Inputs).lastInRange)},
	{modifiers.TagHovered, fixed((*Inputs).hovered)},
	{modifiers.TagHoveredSpan, fixed((*Inputs).hoveredSpan)},
	{modifiers.TagSelectedStartInHoveredSpan, fixed((*Inputs).selectedStartInHoveredSpan)},
	{modifiers.TagSelectedEndInHoveredSpan, fixed((*Inputs).selectedEndInHoveredSpan)},
	{modifiers.TagAfterHoveredStart, fixed((*Inputs).afterHoveredStart)},
	{modifiers.TagBeforeHoveredEnd, fixed((*Inputs).beforeHoveredEnd)},
	{modifiers.TagHoveredStartBlockedMinNights, fixed((*Inputs).hoveredStartBlockedMinNights)},
	{modifiers.TagHoveredStartFirstPossibleEnd, fixed((*Inputs).hoveredStartFirstPossibleEnd)},
}

// ComputeModifiers returns the full tag set of day. It is a pure function of
// its arguments and is what RebuildWindow evaluates for every visible day.
func ComputeModifiers(day dateutil.Date, in Inputs, firstDayOfWeek time.Weekday) modifiers.TagSet {
	tags := make([]modifiers.Tag, 0, 8)

	if in.IsToday(day) {
		tags = append(tags, modifiers.TagToday)
	}

	blocked := false
	if in.Predicates.IsDayBlocked.Test(day) {
		tags = append(tags, modifiers.TagBlockedCalendar)
		blocked = true
	}
	if in.Predicates.IsOutsideRange.Test(day) {
		tags = append(tags, modifiers.TagBlockedOutOfRange)
		blocked = true
	}
	if in.DoesNotMeetMinimumNights(day) {
		tags = append(tags, modifiers.TagBlockedMinimumNights)
		blocked = true
	}
	if blocked {
		tags = append(tags, modifiers.TagBlocked)
	} else {
		tags = append(tags, modifiers.TagValid)
	}
	if in.Predicates.IsDayHighlighted.Test(day) {
		tags = append(tags, modifiers.TagHighlightedCalendar)
	}

	for _, rt := range rangeTags {
		if rt.extent(&in, everything).contains(day) {
			tags = append(tags, rt.tag)
		}
	}

	if IsFirstDayOfWeek(day, firstDayOfWeek) {
		tags = append(tags, modifiers.TagFirstDayOfWeek)
	}
	if IsLastDayOfWeek(day, firstDayOfWeek) {
		tags = append(tags, modifiers.TagLastDayOfWeek)
	}

	return modifiers.NewTagSet(tags...)
}
