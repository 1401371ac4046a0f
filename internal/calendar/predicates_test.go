package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// flakyCalendar fails the first failures month lookups, then serves cal
type flakyCalendar struct {
	cal      Calendar
	failures int
	calls    int
}

func (f *flakyCalendar) GetMonthInfo(m dateutil.Month) (*MonthInfo, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("source unavailable")
	}
	return f.cal.GetMonthInfo(m)
}

func (f *flakyCalendar) GetDayInfo(d dateutil.Date) (*DayInfo, error) {
	return f.cal.GetDayInfo(d)
}

func TestPredicates(t *testing.T) {
	fc := mustFileCalendar(t, "2025-03-12 blocked\n2025-03-13 highlighted\n2025-03-14 min-nights 4\n")
	today := dateutil.NewDate(2025, time.March, 10)

	p := Predicates(fc, Policy{}, today, 1, zap.NewNop())

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"blocked day", p.IsDayBlocked.Test(dateutil.NewDate(2025, 3, 12)), true},
		{"free day", p.IsDayBlocked.Test(dateutil.NewDate(2025, 3, 11)), false},
		{"yesterday outside range", p.IsOutsideRange.Test(dateutil.NewDate(2025, 3, 9)), true},
		{"today inside range", p.IsOutsideRange.Test(today), false},
		{"highlighted day", p.IsDayHighlighted.Test(dateutil.NewDate(2025, 3, 13)), true},
		{"plain day not highlighted", p.IsDayHighlighted.Test(dateutil.NewDate(2025, 3, 15)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Equal(t, 4, p.GetMinNightsForHoverDate.Nights(dateutil.NewDate(2025, 3, 14)))
}

func TestPredicates_Versions(t *testing.T) {
	fc := mustFileCalendar(t, "")
	today := dateutil.NewDate(2025, time.March, 10)

	a := Predicates(fc, Policy{}, today, 1, zap.NewNop())
	b := Predicates(fc, Policy{}, today, 1, zap.NewNop())
	assert.Equal(t, a.IsDayBlocked.Version, b.IsDayBlocked.Version, "same inputs, same blocked version")
	assert.Equal(t, a.IsOutsideRange.Version, b.IsOutsideRange.Version, "same inputs, same outside range version")

	tomorrow := Predicates(fc, Policy{}, today.AddDays(1), 1, zap.NewNop())
	assert.NotEqual(t, a.IsOutsideRange.Version, tomorrow.IsOutsideRange.Version, "outside range version follows today")
	assert.Equal(t, a.IsDayBlocked.Version, tomorrow.IsDayBlocked.Version, "blocked version only follows the revision")

	bumped := Predicates(fc, Policy{}, today, 2, zap.NewNop())
	assert.NotEqual(t, a.IsDayBlocked.Version, bumped.IsDayBlocked.Version, "blocked version follows the revision")
}

func TestPredicates_Policy(t *testing.T) {
	today := dateutil.NewDate(2025, time.March, 12) // Wednesday
	p := Predicates(nil, Policy{OutsideRange: OutsideRangeNone, HighlightTodayWeek: true, FirstDayOfWeek: time.Monday}, today, 1, zap.NewNop())

	assert.False(t, p.IsOutsideRange.Test(dateutil.NewDate(2000, 1, 1)), "policy none keeps every day in range")
	assert.True(t, p.IsDayHighlighted.Test(dateutil.NewDate(2025, 3, 10)), "Monday of the current week")
	assert.True(t, p.IsDayHighlighted.Test(dateutil.NewDate(2025, 3, 16)), "Sunday of the current week")
	assert.False(t, p.IsDayHighlighted.Test(dateutil.NewDate(2025, 3, 17)), "next Monday")
	assert.False(t, p.IsDayBlocked.Test(today), "nil calendar blocks nothing")
}

func TestParseOutsideRangePolicy(t *testing.T) {
	for input, want := range map[string]OutsideRangePolicy{"": OutsideRangeBeforeToday, "before-today": OutsideRangeBeforeToday, "none": OutsideRangeNone} {
		got, err := ParseOutsideRangePolicy(input)
		assert.NoError(t, err, "ParseOutsideRangePolicy(%q)", input)
		assert.Equal(t, want, got, "ParseOutsideRangePolicy(%q)", input)
	}

	_, err := ParseOutsideRangePolicy("after-today")
	assert.Error(t, err)
}

func TestPredicates_FailedMonthIsRetried(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cal := &flakyCalendar{
		cal:      mustFileCalendar(t, "2025-03-12 blocked\n"),
		failures: 2,
	}
	p := Predicates(cal, Policy{OutsideRange: OutsideRangeNone}, dateutil.NewDate(2025, time.March, 1), 1, zap.New(core))
	booked := dateutil.NewDate(2025, time.March, 12)

	assert.False(t, p.IsDayBlocked.Test(booked), "first lookup fails, day reads as available")
	assert.False(t, p.IsDayBlocked.Test(booked), "second lookup fails again")
	assert.Equal(t, 1, logs.FilterMessageSnippet("Failed to get month availability").Len(), "one warning per outage")

	assert.True(t, p.IsDayBlocked.Test(booked), "third lookup succeeds")
	assert.False(t, p.IsDayBlocked.Test(booked.AddDays(1)))
	assert.Equal(t, 3, cal.calls, "a successful month is cached")
}
