package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestNewDateNormalizes(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		day      int
		expected string
	}{
		{"plain", 2025, time.January, 15, "2025-01-15"},
		{"day overflow", 2025, time.January, 32, "2025-02-01"},
		{"month overflow", 2025, 13, 1, "2026-01-01"},
		{"leap day", 2024, time.February, 29, "2024-02-29"},
		{"non-leap day", 2025, time.February, 29, "2025-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewDate(tt.year, tt.month, tt.day).String()
			if result != tt.expected {
				t.Errorf("NewDate(%d, %d, %d) = %s, want %s", tt.year, tt.month, tt.day, result, tt.expected)
			}
		})
	}
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*60*60)
	early := time.Date(2025, 3, 30, 0, 30, 0, 0, loc)
	late := time.Date(2025, 3, 30, 23, 59, 0, 0, loc)

	if DateOf(early) != DateOf(late) {
		t.Errorf("DateOf(%v) = %v, DateOf(%v) = %v, want equal", early, DateOf(early), late, DateOf(late))
	}
}

func TestAddDaysAcrossBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		input    Date
		days     int
		expected Date
	}{
		{"next day", NewDate(2025, 1, 15), 1, NewDate(2025, 1, 16)},
		{"month end", NewDate(2025, 1, 31), 1, NewDate(2025, 2, 1)},
		{"year end", NewDate(2024, 12, 31), 1, NewDate(2025, 1, 1)},
		{"backwards", NewDate(2025, 3, 1), -1, NewDate(2025, 2, 28)},
		{"dst week", NewDate(2025, 3, 28), 7, NewDate(2025, 4, 4)},
		{"zero", NewDate(2025, 3, 28), 0, NewDate(2025, 3, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.input.AddDays(tt.days)
			if result != tt.expected {
				t.Errorf("%v.AddDays(%d) = %v, want %v", tt.input, tt.days, result, tt.expected)
			}
		})
	}
}

func TestDaysUntil(t *testing.T) {
	a := NewDate(2025, 2, 20)
	b := NewDate(2025, 3, 5)

	if got := a.DaysUntil(b); got != 13 {
		t.Errorf("DaysUntil(%v, %v) = %d, want 13", a, b, got)
	}
	if got := b.DaysUntil(a); got != -13 {
		t.Errorf("DaysUntil(%v, %v) = %d, want -13", b, a, got)
	}
}

func TestCompare(t *testing.T) {
	a := NewDate(2025, 1, 31)
	b := NewDate(2025, 2, 1)

	if !a.Before(b) || a.After(b) {
		t.Errorf("%v should be before %v", a, b)
	}
	if !b.After(a) || b.Before(a) {
		t.Errorf("%v should be after %v", b, a)
	}
	if a.Before(a) || a.After(a) {
		t.Errorf("%v should be neither before nor after itself", a)
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name     string
		input    Date
		firstDay time.Weekday
		expected Date
	}{
		{"Wednesday returns Monday", NewDate(2025, 1, 15), time.Monday, NewDate(2025, 1, 13)},
		{"Monday returns same Monday", NewDate(2025, 1, 13), time.Monday, NewDate(2025, 1, 13)},
		{"Sunday returns previous Monday", NewDate(2025, 1, 19), time.Monday, NewDate(2025, 1, 13)},
		{"Sunday-first week", NewDate(2025, 1, 15), time.Sunday, NewDate(2025, 1, 12)},
		{"Saturday-first week", NewDate(2025, 1, 15), time.Saturday, NewDate(2025, 1, 11)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StartOfWeek(tt.input, tt.firstDay)
			if result != tt.expected {
				t.Errorf("StartOfWeek(%v, %v) = %v, want %v", tt.input, tt.firstDay, result, tt.expected)
			}
			end := EndOfWeek(tt.input, tt.firstDay)
			if end != tt.expected.AddDays(6) {
				t.Errorf("EndOfWeek(%v, %v) = %v, want %v", tt.input, tt.firstDay, end, tt.expected.AddDays(6))
			}
		})
	}
}

func TestMonth(t *testing.T) {
	m := NewMonth(2024, time.February)

	if m.LastDay() != NewDate(2024, 2, 29) {
		t.Errorf("LastDay(%v) = %v, want 2024-02-29", m, m.LastDay())
	}
	if m.Add(11).String() != "2025-01" {
		t.Errorf("Add(%v, 11) = %v, want 2025-01", m, m.Add(11))
	}
	if m.Add(-2).String() != "2023-12" {
		t.Errorf("Add(%v, -2) = %v, want 2023-12", m, m.Add(-2))
	}
	if got := m.MonthsUntil(NewMonth(2025, time.March)); got != 13 {
		t.Errorf("MonthsUntil = %d, want 13", got)
	}
	if NewDate(2024, 2, 10).MonthKey() != m {
		t.Errorf("MonthKey mismatch for %v", m)
	}
}

func TestDaysBetween(t *testing.T) {
	from := NewDate(2025, 1, 30)
	to := NewDate(2025, 2, 2)

	days := DaysBetween(from, to)
	if len(days) != 3 {
		t.Fatalf("DaysBetween(%v, %v) returned %d days, want 3", from, to, len(days))
	}
	if days[2] != NewDate(2025, 2, 1) {
		t.Errorf("DaysBetween last = %v, want 2025-02-01", days[2])
	}
	if DaysBetween(to, from) != nil {
		t.Errorf("DaysBetween with inverted range should be nil")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		wantErr  bool
	}{
		{"2025-01-15", NewDate(2025, 1, 15), false},
		{"15.01.2025", NewDate(2025, 1, 15), false},
		{"20250115", NewDate(2025, 1, 15), false},
		{"2025-01-15T10:30:00", NewDate(2025, 1, 15), false},
		{"", Date{}, true},
		{"2025-02-30", Date{}, true},
		{"not a date", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseDate(tt.input)
			if tt.wantErr {
				var invalid *InvalidDateError
				if !errors.As(err, &invalid) {
					t.Fatalf("ParseDate(%q) error = %v, want InvalidDateError", tt.input, err)
				}
				if invalid.Input != tt.input {
					t.Errorf("InvalidDateError.Input = %q, want %q", invalid.Input, tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-11")
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	if m != NewMonth(2025, time.November) {
		t.Errorf("ParseMonth(2025-11) = %v", m)
	}

	_, err = ParseMonth("2025-13")
	var invalid *InvalidDateError
	if !errors.As(err, &invalid) {
		t.Errorf("ParseMonth(2025-13) error = %v, want InvalidDateError", err)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Weekday
		wantErr  bool
	}{
		{"monday", time.Monday, false},
		{"Sun", time.Sunday, false},
		{"sat", time.Saturday, false},
		{"1", time.Monday, false},
		{"funday", time.Sunday, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseWeekday(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && result != tt.expected {
				t.Errorf("ParseWeekday(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestZeroDate(t *testing.T) {
	var d Date
	if !d.IsZero() {
		t.Errorf("zero Date should report IsZero")
	}
	if d.String() != "-" {
		t.Errorf("zero Date String() = %q, want \"-\"", d.String())
	}
	if NewDate(2025, 1, 1).IsZero() {
		t.Errorf("2025-01-01 should not be zero")
	}
}
