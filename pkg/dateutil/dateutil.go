package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// Date is a civil calendar day. The zero value means "no date".
type Date struct {
	year  int
	month time.Month
	day   int
}

// Month is a civil (year, month) pair.
type Month struct {
	year  int
	month time.Month
}

// InvalidDateError is returned when raw input cannot be turned into a Date or Month
type InvalidDateError struct {
	Input string
	Err   error
}

func (e *InvalidDateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid date %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("invalid date %q", e.Input)
}

func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// NewDate returns the civil date, normalizing overflowing values the way time.Date does
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// DateOf returns the civil date of t in t's location
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Today returns today's date in the local timezone
func Today() Date {
	return DateOf(time.Now())
}

// TodayIn returns today's date in loc
func TodayIn(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

func (d Date) Year() int { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int { return d.day }
func (d Date) IsZero() bool { return d == Date{} }
func (d Date) MonthKey() Month { return Month{year: d.year, month: d.month} }
func (d Date) Weekday() time.Weekday { return d.utc().Weekday() }

// Time returns the canonical local-midday instant of d in loc
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 12, 0, 0, 0, loc)
}

func (d Date) utc() time.Time {
	return time.Date(d.year, d.month, d.day, 12, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days
func (d Date) AddDays(n int) Date {
	if n == 0 {
		return d
	}
	return DateOf(d.utc().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to other (negative if other is earlier)
func (d Date) DaysUntil(other Date) int {
	return int(other.utc().Sub(d.utc()).Hours() / 24)
}

func (d Date) Before(other Date) bool { return d.compare(other) < 0 }
func (d Date) After(other Date) bool { return d.compare(other) > 0 }

func (d Date) compare(other Date) int {
	switch {
	case d.year != other.year:
		return d.year - other.year
	case d.month != other.month:
		return int(d.month) - int(other.month)
	default:
		return d.day - other.day
	}
}

// String formats d as YYYY-MM-DD, or "-" for the zero date
func (d Date) String() string {
	if d.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// NewMonth returns the month key, normalizing overflowing months
func NewMonth(year int, month time.Month) Month {
	return NewDate(year, month, 1).MonthKey()
}

func (m Month) Year() int { return m.year }
func (m Month) Month() time.Month { return m.month }
func (m Month) IsZero() bool { return m == Month{} }
func (m Month) FirstDay() Date { return Date{year: m.year, month: m.month, day: 1} }
func (m Month) LastDay() Date { return m.Add(1).FirstDay().AddDays(-1) }
func (m Month) Add(n int) Month { return NewMonth(m.year, m.month+time.Month(n)) }
func (m Month) Before(o Month) bool { return m.index() < o.index() }
func (m Month) After(o Month) bool { return m.index() > o.index() }
func (m Month) index() int { return m.year*12 + int(m.month) - 1 }

// MonthsUntil returns the number of months from m to other
func (m Month) MonthsUntil(other Month) int {
	return other.index() - m.index()
}

// String formats m as YYYY-MM
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.year, m.month)
}

// StartOfWeek returns the first day of the week containing d
func StartOfWeek(d Date, firstDay time.Weekday) Date {
	offset := (int(d.Weekday()) - int(firstDay) + 7) % 7
	return d.AddDays(-offset)
}

// EndOfWeek returns the last day of the week containing d
func EndOfWeek(d Date, firstDay time.Weekday) Date {
	return StartOfWeek(d, firstDay).AddDays(6)
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(d Date) bool {
	weekday := d.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// DaysBetween returns every date in [from, to)
func DaysBetween(from, to Date) []Date {
	if !to.After(from) {
		return nil
	}
	days := make([]Date, 0, from.DaysUntil(to))
	for d := from; d.Before(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (Date, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return Date{}, &InvalidDateError{Input: dateStr}
	}

	formats := []string{
		"2006-01-02",
		"02.01.2006",
		"20060102",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04:05Z07:00",
	}

	var lastErr error
	for _, format := range formats {
		t, err := time.Parse(format, s)
		if err == nil {
			return DateOf(t), nil
		}
		lastErr = err
	}

	return Date{}, &InvalidDateError{Input: dateStr, Err: lastErr}
}

// ParseMonth parses a YYYY-MM month key
func ParseMonth(monthStr string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(monthStr))
	if err != nil {
		return Month{}, &InvalidDateError{Input: monthStr, Err: err}
	}
	return Month{year: t.Year(), month: t.Month()}, nil
}

// ParseWeekday accepts English weekday names ("monday", "Mon") or 0-6 with Sunday as 0
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if len(name) == 1 && name[0] >= '0' && name[0] <= '6' {
		return time.Weekday(name[0] - '0'), nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		full := strings.ToLower(wd.String())
		if name == full || (len(name) >= 3 && strings.HasPrefix(full, name)) {
			return wd, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
