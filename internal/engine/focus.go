package engine

import (
	"github.com/username/rangepicker/pkg/dateutil"
)

// FirstFocusableDay returns the day keyboard navigation should land on when
// month becomes the first visible month. The second result is false when
// every remaining visible day is blocked.
func FirstFocusableDay(month dateutil.Month, in Inputs, numberOfMonths int) (dateutil.Date, bool) {
	candidate := month.FirstDay()
	switch {
	case in.FocusedInput == FocusStartDate && in.hasStart():
		candidate = in.StartDate
	case in.FocusedInput == FocusEndDate && !in.hasEnd() && in.hasStart():
		candidate = in.StartDate.AddDays(in.MinimumNights)
	case in.FocusedInput == FocusEndDate && in.hasEnd():
		candidate = in.EndDate
	}

	if !in.IsBlockedForInteraction(candidate) {
		return candidate, true
	}

	lastVisible := month.Add(max(numberOfMonths, 1) - 1).LastDay()
	for d := candidate.AddDays(1); !d.After(lastVisible); d = d.AddDays(1) {
		if !in.IsBlockedForInteraction(d) {
			return d, true
		}
	}
	return dateutil.Date{}, false
}
