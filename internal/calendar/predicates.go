package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// OutsideRangePolicy decides which days are outside the selectable range
type OutsideRangePolicy int

const (
	OutsideRangeBeforeToday OutsideRangePolicy = iota
	OutsideRangeNone
)

func ParseOutsideRangePolicy(s string) (OutsideRangePolicy, error) {
	switch s {
	case "", "before-today":
		return OutsideRangeBeforeToday, nil
	case "none":
		return OutsideRangeNone, nil
	default:
		return 0, fmt.Errorf("unknown outside range policy %q", s)
	}
}

// Policy shapes the predicates derived from a calendar
type Policy struct {
	OutsideRange OutsideRangePolicy
	// HighlightTodayWeek highlights the week containing today
	HighlightTodayWeek bool
	FirstDayOfWeek     time.Weekday
}

var epoch = dateutil.NewDate(1970, time.January, 1)

// Predicates adapts cal into the host predicate set. revision must change
// whenever the calendar content changes; the outside-range version also
// follows today under the before-today policy.
func Predicates(cal Calendar, policy Policy, today dateutil.Date, revision uint64, logger *zap.Logger) engine.Predicates {
	lookup := newMonthCache(cal, logger)

	outsideVersion := revision
	if policy.OutsideRange == OutsideRangeBeforeToday {
		outsideVersion = revision<<32 | uint64(uint32(epoch.DaysUntil(today)))
	}

	highlightVersion := revision
	weekStart := dateutil.StartOfWeek(today, policy.FirstDayOfWeek)
	if policy.HighlightTodayWeek {
		highlightVersion = revision<<32 | uint64(uint32(epoch.DaysUntil(weekStart)))
	}

	return engine.Predicates{
		IsDayBlocked: engine.Predicate{
			Version: revision,
			Eval:    func(d dateutil.Date) bool { return lookup.day(d).Blocked },
		},
		IsOutsideRange: engine.Predicate{
			Version: outsideVersion,
			Eval: func(d dateutil.Date) bool {
				return policy.OutsideRange == OutsideRangeBeforeToday && d.Before(today)
			},
		},
		IsDayHighlighted: engine.Predicate{
			Version: highlightVersion,
			Eval: func(d dateutil.Date) bool {
				if policy.HighlightTodayWeek && !d.Before(weekStart) && d.Before(weekStart.AddDays(7)) {
					return true
				}
				return lookup.day(d).Highlighted
			},
		},
		GetMinNightsForHoverDate: engine.NightsFunc{
			Version: revision,
			Eval:    func(d dateutil.Date) int { return lookup.day(d).MinNights },
		},
	}
}

// monthCache memoizes month lookups. A month that fails to load reads as
// available and is asked for again on the next lookup.
type monthCache struct {
	cal    Calendar
	logger *zap.Logger
	mu     sync.Mutex
	months map[dateutil.Month]*MonthInfo
	failed map[dateutil.Month]bool
}

func newMonthCache(cal Calendar, logger *zap.Logger) *monthCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &monthCache{
		cal:    cal,
		logger: logger,
		months: make(map[dateutil.Month]*MonthInfo),
		failed: make(map[dateutil.Month]bool),
	}
}

func (mc *monthCache) day(date dateutil.Date) DayInfo {
	if mc.cal == nil || date.IsZero() {
		return DayInfo{Date: date}
	}

	mi := mc.month(date.MonthKey())
	if info, ok := mi.Day(date); ok {
		return info
	}
	return DayInfo{Date: date}
}

func (mc *monthCache) month(m dateutil.Month) *MonthInfo {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if mi, ok := mc.months[m]; ok {
		return mi
	}
	mi, err := mc.cal.GetMonthInfo(m)
	if err != nil {
		// one warning per month until it loads again
		if !mc.failed[m] {
			mc.logger.Warn("Failed to get month availability, days read as available",
				zap.Stringer("month", m),
				zap.Error(err))
			mc.failed[m] = true
		}
		return &MonthInfo{Month: m}
	}
	if mc.failed[m] {
		mc.logger.Info("Month availability recovered", zap.Stringer("month", m))
		delete(mc.failed, m)
	}
	mc.months[m] = mi
	return mi
}
