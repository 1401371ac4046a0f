package engine

import (
	"time"

	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
)

// base is a Monday in the middle of the test window
var base = dateutil.NewDate(2025, time.March, 10)

func d(offset int) dateutil.Date {
	return base.AddDays(offset)
}

func testWindowOptions() window.Options {
	return window.Options{NumberOfMonths: 2, FirstDayOfWeek: time.Monday}
}

func testWindow() window.Window {
	return window.New(base.MonthKey(), testWindowOptions())
}

func blockedOn(version uint64, days ...dateutil.Date) Predicate {
	set := make(map[dateutil.Date]bool, len(days))
	for _, day := range days {
		set[day] = true
	}
	return Predicate{Version: version, Eval: func(day dateutil.Date) bool { return set[day] }}
}

func before(version uint64, limit dateutil.Date) Predicate {
	return Predicate{Version: version, Eval: func(day dateutil.Date) bool { return day.Before(limit) }}
}

func nightsOn(version uint64, nights map[dateutil.Date]int) NightsFunc {
	return NightsFunc{Version: version, Eval: func(day dateutil.Date) int { return nights[day] }}
}
