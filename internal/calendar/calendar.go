package calendar

import (
	"fmt"

	"github.com/username/rangepicker/pkg/dateutil"
)

// DayKind represents the kind of an availability entry
type DayKind int

const (
	DayKindAvailable DayKind = iota + 1
	DayKindBlocked
	DayKindHighlighted
	DayKindMinNights
)

func (k DayKind) String() string {
	switch k {
	case DayKindAvailable:
		return "available"
	case DayKindBlocked:
		return "blocked"
	case DayKindHighlighted:
		return "highlighted"
	case DayKindMinNights:
		return "min-nights"
	default:
		return fmt.Sprintf("DayKind(%d)", int(k))
	}
}

// ParseDayKind parses the kind column of availability files and rules
func ParseDayKind(s string) (DayKind, error) {
	switch s {
	case "available", "free":
		return DayKindAvailable, nil
	case "blocked", "busy":
		return DayKindBlocked, nil
	case "highlighted", "highlight":
		return DayKindHighlighted, nil
	case "min-nights", "min_nights", "minimum-nights":
		return DayKindMinNights, nil
	default:
		return 0, fmt.Errorf("unknown day kind %q", s)
	}
}

// DayInfo represents availability of a specific day
type DayInfo struct {
	Date        dateutil.Date
	Blocked     bool
	Highlighted bool
	MinNights   int // minimum stay when the day is hovered as a start
	Note        string
}

// apply folds one entry of the given kind into the day
func (d *DayInfo) apply(kind DayKind, nights int, note string) {
	switch kind {
	case DayKindBlocked:
		d.Blocked = true
	case DayKindHighlighted:
		d.Highlighted = true
	case DayKindMinNights:
		d.MinNights = max(d.MinNights, nights)
	}
	if note != "" && d.Note == "" {
		d.Note = note
	}
}

// merge combines information about the same day from two sources
func (d *DayInfo) merge(other DayInfo) {
	d.Blocked = d.Blocked || other.Blocked
	d.Highlighted = d.Highlighted || other.Highlighted
	d.MinNights = max(d.MinNights, other.MinNights)
	if d.Note == "" {
		d.Note = other.Note
	}
}

// MonthInfo represents availability for a month. Days lists only the days
// that carry any information; a missing day is available.
type MonthInfo struct {
	Month       dateutil.Month
	Blocked     int
	Highlighted int
	Days        []DayInfo
}

// Day looks up date in the month
func (mi *MonthInfo) Day(date dateutil.Date) (DayInfo, bool) {
	for _, day := range mi.Days {
		if day.Date == date {
			return day, true
		}
	}
	return DayInfo{}, false
}

// monthBuilder accumulates day entries of one month in date order
type monthBuilder struct {
	month dateutil.Month
	days  map[dateutil.Date]*DayInfo
}

func newMonthBuilder(m dateutil.Month) *monthBuilder {
	return &monthBuilder{month: m, days: make(map[dateutil.Date]*DayInfo)}
}

func (b *monthBuilder) day(date dateutil.Date) *DayInfo {
	info, ok := b.days[date]
	if !ok {
		info = &DayInfo{Date: date}
		b.days[date] = info
	}
	return info
}

func (b *monthBuilder) build() *MonthInfo {
	mi := &MonthInfo{Month: b.month}
	for _, date := range dateutil.DaysBetween(b.month.FirstDay(), b.month.LastDay().AddDays(1)) {
		info, ok := b.days[date]
		if !ok {
			continue
		}
		if info.Blocked {
			mi.Blocked++
		}
		if info.Highlighted {
			mi.Highlighted++
		}
		mi.Days = append(mi.Days, *info)
	}
	return mi
}

// dayFromMonth answers GetDayInfo through GetMonthInfo
func dayFromMonth(cal Calendar, date dateutil.Date) (*DayInfo, error) {
	mi, err := cal.GetMonthInfo(date.MonthKey())
	if err != nil {
		return nil, err
	}
	if day, ok := mi.Day(date); ok {
		return &day, nil
	}
	return &DayInfo{Date: date}, nil
}

// Calendar interface for looking up day availability
type Calendar interface {
	// GetDayInfo returns availability for a specific day
	GetDayInfo(date dateutil.Date) (*DayInfo, error)

	// GetMonthInfo returns availability for the entire month
	GetMonthInfo(month dateutil.Month) (*MonthInfo, error)
}
