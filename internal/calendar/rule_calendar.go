package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// Rule is a recurring availability entry, e.g. every weekend blocked
type Rule struct {
	RRule  string // RFC 5545 recurrence, e.g. FREQ=WEEKLY;BYDAY=SA,SU
	Kind   DayKind
	Nights int // only for DayKindMinNights
	Note   string
}

type compiledRule struct {
	Rule
	rr *rrule.RRule
}

// RuleCalendar expands recurrence rules into per-day availability
type RuleCalendar struct {
	rules  []compiledRule
	loc    *time.Location
	logger *zap.Logger

	mu    sync.Mutex
	cache map[dateutil.Month]*MonthInfo
}

// NewRuleCalendar compiles rules. Rules without DTSTART recur from anchor.
func NewRuleCalendar(rules []Rule, anchor dateutil.Date, loc *time.Location, logger *zap.Logger) (*RuleCalendar, error) {
	if loc == nil {
		loc = time.UTC
	}
	rc := &RuleCalendar{
		loc:    loc,
		logger: logger,
		cache:  make(map[dateutil.Month]*MonthInfo),
	}

	for i, r := range rules {
		rr, err := rrule.StrToRRule(r.RRule)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid rrule %q: %w", i, r.RRule, err)
		}
		if rr.OrigOptions.Dtstart.IsZero() {
			rr.DTStart(anchor.Time(loc))
		}
		if r.Kind == DayKindMinNights && r.Nights <= 0 {
			return nil, fmt.Errorf("rule %d: min-nights rule needs nights > 0", i)
		}
		rc.rules = append(rc.rules, compiledRule{Rule: r, rr: rr})
	}

	logger.Info("Availability rules compiled", zap.Int("rules", len(rc.rules)))
	return rc, nil
}

// GetMonthInfo expands every rule over month. Results are cached.
func (rc *RuleCalendar) GetMonthInfo(month dateutil.Month) (*MonthInfo, error) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if mi, ok := rc.cache[month]; ok {
		return mi, nil
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, rc.loc)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)

	b := newMonthBuilder(month)
	for _, r := range rc.rules {
		for _, occ := range r.rr.Between(from, to, true) {
			date := dateutil.DateOf(occ.In(rc.loc))
			if date.MonthKey() != month {
				continue
			}
			b.day(date).apply(r.Kind, r.Nights, r.Note)
		}
	}

	mi := b.build()
	rc.cache[month] = mi
	rc.logger.Debug("Rules expanded",
		zap.Stringer("month", month),
		zap.Int("days", len(mi.Days)))
	return mi, nil
}

// GetDayInfo returns availability for a specific day
func (rc *RuleCalendar) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	return dayFromMonth(rc, date)
}
