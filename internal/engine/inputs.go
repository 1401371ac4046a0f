package engine

import (
	"fmt"

	"github.com/username/rangepicker/pkg/dateutil"
)

// FocusedInput names the date input the next click will set
type FocusedInput int

const (
	FocusNone FocusedInput = iota
	FocusStartDate
	FocusEndDate
)

func (f FocusedInput) String() string {
	switch f {
	case FocusStartDate:
		return "startDate"
	case FocusEndDate:
		return "endDate"
	default:
		return "none"
	}
}

// ParseFocusedInput accepts "start", "startDate", "end", "endDate", "none" or ""
func ParseFocusedInput(s string) (FocusedInput, error) {
	switch s {
	case "", "none", "null":
		return FocusNone, nil
	case "start", "startDate", "start_date":
		return FocusStartDate, nil
	case "end", "endDate", "end_date":
		return FocusEndDate, nil
	default:
		return FocusNone, fmt.Errorf("unknown focused input %q", s)
	}
}

// Selection is the host-owned range state. Zero dates are unset.
type Selection struct {
	StartDate    dateutil.Date
	EndDate      dateutil.Date
	FocusedInput FocusedInput
}

// Predicate is a host day predicate. Version identifies the function: the
// host bumps it whenever Eval starts answering differently.
type Predicate struct {
	Version uint64
	Eval    func(dateutil.Date) bool
}

// Test evaluates the predicate; a nil Eval is always false
func (p Predicate) Test(day dateutil.Date) bool {
	if p.Eval == nil {
		return false
	}
	return p.Eval(day)
}

// NightsFunc returns a per-day minimum stay. Version works as for Predicate.
type NightsFunc struct {
	Version uint64
	Eval    func(dateutil.Date) int
}

// Nights evaluates the function; nil and negative results count as zero
func (n NightsFunc) Nights(day dateutil.Date) int {
	if n.Eval == nil {
		return 0
	}
	return max(n.Eval(day), 0)
}

// DateOffset maps a hovered or clicked day to one bound of a fixed-length
// range. Version works as for Predicate. A nil Eval leaves the day as is.
type DateOffset struct {
	Version uint64
	Eval    func(dateutil.Date) dateutil.Date
}

// IsSet reports whether the host supplied the offset
func (o DateOffset) IsSet() bool {
	return o.Eval != nil
}

func (o DateOffset) Apply(day dateutil.Date) dateutil.Date {
	if o.Eval == nil {
		return day
	}
	return o.Eval(day)
}

// ShiftDays returns an offset that moves a day by n days
func ShiftDays(n int, version uint64) DateOffset {
	return DateOffset{
		Version: version,
		Eval:    func(d dateutil.Date) dateutil.Date { return d.AddDays(n) },
	}
}

// Predicates is the host-supplied predicate set
type Predicates struct {
	IsDayBlocked             Predicate
	IsOutsideRange           Predicate
	IsDayHighlighted         Predicate
	GetMinNightsForHoverDate NightsFunc
}

// Inputs is everything tag computation depends on, apart from the window
type Inputs struct {
	Selection
	Hover                              dateutil.Date
	Today                              dateutil.Date
	MinimumNights                      int
	DaysViolatingMinNightsCanBeClicked bool
	Predicates                         Predicates
	// With either offset set, a click selects the whole offset range and
	// hovering previews it instead of the hover spans.
	StartDateOffset DateOffset
	EndDateOffset   DateOffset
}

func (in *Inputs) hasOffsets() bool {
	return in.StartDateOffset.IsSet() || in.EndDateOffset.IsSet()
}

// OffsetRange returns the start and end a click on day selects when
// offsets are set
func (in *Inputs) OffsetRange(day dateutil.Date) (dateutil.Date, dateutil.Date) {
	return in.StartDateOffset.Apply(day), in.EndDateOffset.Apply(day)
}

// Bounds limit month navigation
type Bounds struct {
	MinDate dateutil.Date
	MaxDate dateutil.Date
}

// InitialMonth picks the first visible month when the host gives none
func InitialMonth(sel Selection, today dateutil.Date) dateutil.Month {
	switch {
	case sel.FocusedInput == FocusEndDate && !sel.EndDate.IsZero():
		return sel.EndDate.MonthKey()
	case !sel.StartDate.IsZero():
		return sel.StartDate.MonthKey()
	default:
		return today.MonthKey()
	}
}
