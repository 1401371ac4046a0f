package window

import (
	"fmt"
	"time"

	"github.com/username/rangepicker/pkg/dateutil"
)

// Orientation controls how the window pages through months
type Orientation string

const (
	Horizontal         Orientation = "horizontal"
	Vertical           Orientation = "vertical"
	VerticalScrollable Orientation = "verticalScrollable"
)

// ParseOrientation maps a config value to an Orientation
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(s) {
	case "", Horizontal:
		return Horizontal, nil
	case Vertical:
		return Vertical, nil
	case VerticalScrollable, "vertical-scrollable":
		return VerticalScrollable, nil
	default:
		return "", fmt.Errorf("unknown orientation %q", s)
	}
}

// Options are the host's window parameters
type Options struct {
	NumberOfMonths    int
	Orientation       Orientation
	EnableOutsideDays bool
	FirstDayOfWeek    time.Weekday
}

func (o Options) normalized() Options {
	if o.NumberOfMonths < 1 {
		o.NumberOfMonths = 1
	}
	if o.Orientation == "" {
		o.Orientation = Horizontal
	}
	return o
}

// Scrollable reports whether months are appended instead of slid
func (o Options) Scrollable() bool {
	return o.Orientation == VerticalScrollable
}

// Window is the set of months currently loaded. Paged orientations keep a
// hidden month on either side of the visible ones for transitions.
type Window struct {
	opts    Options
	current dateutil.Month
	months  []dateutil.Month
}

// Shift describes the months a navigation step added and removed
type Shift struct {
	Entered []dateutil.Month
	Dropped []dateutil.Month
}

// New loads the window whose first visible month is initial
func New(initial dateutil.Month, opts Options) Window {
	opts = opts.normalized()
	w := Window{opts: opts, current: initial}

	first, count := initial.Add(-1), opts.NumberOfMonths+2
	if opts.Scrollable() {
		first, count = initial, opts.NumberOfMonths
	}
	w.months = make([]dateutil.Month, count)
	for i := range w.months {
		w.months[i] = first.Add(i)
	}
	return w
}

func (w Window) Options() Options { return w.opts }
func (w Window) CurrentMonth() dateutil.Month { return w.current }
func (w Window) Months() []dateutil.Month { return append([]dateutil.Month(nil), w.months...) }
func (w Window) Days(m dateutil.Month) []dateutil.Date {
	return MonthDays(m, w.opts.EnableOutsideDays, w.opts.FirstDayOfWeek)
}

// VisibleMonths returns the months a user can see, without transition months
func (w Window) VisibleMonths() []dateutil.Month {
	if w.opts.Scrollable() {
		return w.Months()
	}
	out := make([]dateutil.Month, w.opts.NumberOfMonths)
	for i := range out {
		out[i] = w.current.Add(i)
	}
	return out
}

// Contains reports whether day belongs to any loaded month bucket
func (w Window) Contains(day dateutil.Date) bool {
	if len(w.months) == 0 || day.IsZero() {
		return false
	}
	first, last := w.span(w.months[0], w.months[len(w.months)-1])
	return !day.Before(first) && !day.After(last)
}

// IsVisible reports whether day is on screen
func (w Window) IsVisible(day dateutil.Date) bool {
	visible := w.VisibleMonths()
	return IsDayVisible(day, visible[0], len(visible), w.opts.EnableOutsideDays, w.opts.FirstDayOfWeek)
}

// LastVisibleDay is the last day on screen
func (w Window) LastVisibleDay() dateutil.Date {
	visible := w.VisibleMonths()
	_, last := w.span(visible[0], visible[len(visible)-1])
	return last
}

func (w Window) span(first, last dateutil.Month) (dateutil.Date, dateutil.Date) {
	start, end := first.FirstDay(), last.LastDay()
	if w.opts.EnableOutsideDays {
		start = dateutil.StartOfWeek(start, w.opts.FirstDayOfWeek)
		end = dateutil.EndOfWeek(end, w.opts.FirstDayOfWeek)
	}
	return start, end
}

// Next slides the window forward by one month
func (w Window) Next() (Window, Shift) {
	last := w.months[len(w.months)-1]
	out := w.with(w.current.Add(1), append(w.Months()[1:], last.Add(1)))
	return out, Shift{Entered: []dateutil.Month{last.Add(1)}, Dropped: []dateutil.Month{w.months[0]}}
}

// Prev slides the window back by one month
func (w Window) Prev() (Window, Shift) {
	first := w.months[0]
	months := append([]dateutil.Month{first.Add(-1)}, w.months[:len(w.months)-1]...)
	out := w.with(w.current.Add(-1), months)
	return out, Shift{Entered: []dateutil.Month{first.Add(-1)}, Dropped: []dateutil.Month{w.months[len(w.months)-1]}}
}

// LoadMore pages forward. Scrollable windows append a full screen of months
// and keep everything already loaded; paged windows slide by one month.
func (w Window) LoadMore() (Window, Shift) {
	if !w.opts.Scrollable() {
		return w.Next()
	}
	last := w.months[len(w.months)-1]
	entered := make([]dateutil.Month, w.opts.NumberOfMonths)
	for i := range entered {
		entered[i] = last.Add(i + 1)
	}
	return w.with(w.current, append(w.Months(), entered...)), Shift{Entered: entered}
}

func (w Window) with(current dateutil.Month, months []dateutil.Month) Window {
	return Window{opts: w.opts, current: current, months: months}
}

// MonthDays lists the days rendered for month m, padded to whole weeks when
// outside days are enabled.
func MonthDays(m dateutil.Month, enableOutsideDays bool, firstDay time.Weekday) []dateutil.Date {
	start, end := m.FirstDay(), m.LastDay()
	if enableOutsideDays {
		start = dateutil.StartOfWeek(start, firstDay)
		end = dateutil.EndOfWeek(end, firstDay)
	}
	return dateutil.DaysBetween(start, end.AddDays(1))
}

// IsDayVisible reports whether day falls on screen for a window whose first
// visible month is month and which shows numberOfMonths months.
func IsDayVisible(day dateutil.Date, month dateutil.Month, numberOfMonths int, enableOutsideDays bool, firstDay time.Weekday) bool {
	if day.IsZero() || numberOfMonths < 1 {
		return false
	}
	start, end := month.FirstDay(), month.Add(numberOfMonths-1).LastDay()
	if enableOutsideDays {
		start = dateutil.StartOfWeek(start, firstDay)
		end = dateutil.EndOfWeek(end, firstDay)
	}
	return !day.Before(start) && !day.After(end)
}
