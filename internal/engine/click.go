package engine

import (
	"fmt"

	"github.com/username/rangepicker/pkg/dateutil"
)

// DisabledInput marks a date input the user cannot change
type DisabledInput int

const (
	DisabledNone DisabledInput = iota
	DisabledStart
	DisabledEnd
)

func ParseDisabledInput(s string) (DisabledInput, error) {
	switch s {
	case "", "none":
		return DisabledNone, nil
	case "start", "startDate":
		return DisabledStart, nil
	case "end", "endDate":
		return DisabledEnd, nil
	default:
		return DisabledNone, fmt.Errorf("unknown disabled input %q", s)
	}
}

// ClickOptions are host settings that shape click handling
type ClickOptions struct {
	KeepOpenOnDateSelect bool
	Disabled             DisabledInput
}

// ClickResult is the selection a day click produces
type ClickResult struct {
	Selection Selection
	// Ignored is set when the click could not change anything
	Ignored bool
	// Closed is set when the picker should close after this click
	Closed bool
}

// ResolveClick computes the selection that results from clicking day. The
// engine only reflects selection state; this is the reference click handler
// a host can adopt to keep start and end ordered.
func ResolveClick(day dateutil.Date, in Inputs, opts ClickOptions) ClickResult {
	sel := in.Selection
	if day.IsZero() || in.IsBlockedForInteraction(day) {
		return ClickResult{Selection: sel, Ignored: true}
	}
	if in.hasOffsets() {
		return clickOffset(day, in, opts)
	}

	switch sel.FocusedInput {
	case FocusStartDate:
		return clickStart(day, in, opts)
	case FocusEndDate:
		return clickEnd(day, in, opts)
	default:
		return ClickResult{Selection: sel, Ignored: true}
	}
}

// clickOffset selects the whole offset range around day, whatever the focus.
// A range whose start or end is blocked leaves the selection alone.
func clickOffset(day dateutil.Date, in Inputs, opts ClickOptions) ClickResult {
	sel := in.Selection
	start, end := in.OffsetRange(day)
	if start.IsZero() || end.IsZero() || in.IsBlockedForInteraction(start) || in.IsBlockedForInteraction(end) {
		return ClickResult{Selection: sel, Ignored: true}
	}

	sel.StartDate, sel.EndDate = start, end
	if opts.KeepOpenOnDateSelect {
		return ClickResult{Selection: sel}
	}
	sel.FocusedInput = FocusNone
	return ClickResult{Selection: sel, Closed: true}
}

func clickStart(day dateutil.Date, in Inputs, opts ClickOptions) ClickResult {
	sel := in.Selection
	lastAllowedStart := dateutil.Date{}
	if in.hasEnd() {
		lastAllowedStart = in.EndDate.AddDays(-in.MinimumNights)
	}
	startAfterEnd := (!lastAllowedStart.IsZero() && day.After(lastAllowedStart)) ||
		(in.hasStart() && in.hasEnd() && in.StartDate.After(in.EndDate))
	endDisabled := opts.Disabled == DisabledEnd

	if !endDisabled || !startAfterEnd {
		sel.StartDate = day
		if startAfterEnd {
			sel.EndDate = dateutil.Date{}
		}
	}

	res := ClickResult{Selection: sel}
	switch {
	case endDisabled && !startAfterEnd:
		res.Selection.FocusedInput = FocusNone
		res.Closed = true
	case !endDisabled:
		res.Selection.FocusedInput = FocusEndDate
	default:
		res.Ignored = true
	}
	return res
}

func clickEnd(day dateutil.Date, in Inputs, opts ClickOptions) ClickResult {
	sel := in.Selection

	if !in.hasStart() {
		sel.EndDate = day
		sel.FocusedInput = FocusStartDate
		return ClickResult{Selection: sel}
	}

	firstAllowedEnd := in.StartDate.AddDays(in.MinimumNights)
	switch {
	case !day.Before(firstAllowedEnd):
		sel.EndDate = day
		if !opts.KeepOpenOnDateSelect {
			sel.FocusedInput = FocusNone
			return ClickResult{Selection: sel, Closed: true}
		}
	case in.DaysViolatingMinNightsCanBeClicked && in.DoesNotMeetMinimumNights(day):
		sel.EndDate = day
	case opts.Disabled != DisabledStart:
		sel.StartDate = day
		sel.EndDate = dateutil.Date{}
	default:
		return ClickResult{Selection: sel, Ignored: true}
	}
	return ClickResult{Selection: sel}
}
