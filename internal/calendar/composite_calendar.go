package calendar

import (
	"errors"
	"fmt"

	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// CompositeCalendar merges several availability sources.
// A day is blocked or highlighted if any source says so, and its minimum
// stay is the largest one reported. A failing source is skipped.
type CompositeCalendar struct {
	sources []Calendar
	logger  *zap.Logger
}

// NewCompositeCalendar creates a new CompositeCalendar
func NewCompositeCalendar(logger *zap.Logger, sources ...Calendar) *CompositeCalendar {
	return &CompositeCalendar{
		sources: sources,
		logger:  logger,
	}
}

// Add appends a source
func (cc *CompositeCalendar) Add(source Calendar) {
	cc.sources = append(cc.sources, source)
}

// Len returns the number of sources
func (cc *CompositeCalendar) Len() int {
	return len(cc.sources)
}

// GetMonthInfo returns merged availability for the entire month
func (cc *CompositeCalendar) GetMonthInfo(month dateutil.Month) (*MonthInfo, error) {
	b := newMonthBuilder(month)
	var errs []error

	for i, source := range cc.sources {
		monthInfo, err := source.GetMonthInfo(month)
		if err != nil {
			cc.logger.Warn("Calendar source failed, skipping",
				zap.Int("source", i),
				zap.Stringer("month", month),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		for _, day := range monthInfo.Days {
			b.day(day.Date).merge(day)
		}
	}

	if len(cc.sources) > 0 && len(errs) == len(cc.sources) {
		return nil, fmt.Errorf("all calendar sources failed: %w", errors.Join(errs...))
	}
	return b.build(), nil
}

// GetDayInfo returns merged availability for a specific day
func (cc *CompositeCalendar) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	return dayFromMonth(cc, date)
}

// Load loads every source that is backed by a file and drops remote caches
func (cc *CompositeCalendar) Load() error {
	for _, source := range cc.sources {
		if cached, ok := source.(interface{ ClearCache() }); ok {
			cached.ClearCache()
		}
		loader, ok := source.(interface{ Load() error })
		if !ok {
			continue
		}
		if err := loader.Load(); err != nil {
			return fmt.Errorf("failed to load calendar source: %w", err)
		}
	}
	cc.logger.Info("Calendar sources loaded", zap.Int("sources", len(cc.sources)))
	return nil
}
