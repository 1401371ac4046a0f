package calendar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// ICSCalendar marks every day touched by a VEVENT as blocked. It is meant for
// booking exports where each event is an occupied stay.
type ICSCalendar struct {
	paths  []string
	loc    *time.Location
	logger *zap.Logger
	data   map[dateutil.Month]*MonthInfo
}

// NewICSCalendar creates a calendar over the given .ics files. Timed events
// are converted to days in loc.
func NewICSCalendar(paths []string, loc *time.Location, logger *zap.Logger) *ICSCalendar {
	if loc == nil {
		loc = time.Local
	}
	return &ICSCalendar{
		paths:  paths,
		loc:    loc,
		logger: logger,
		data:   make(map[dateutil.Month]*MonthInfo),
	}
}

// Load parses every configured file
func (ic *ICSCalendar) Load() error {
	readers := make([]io.Reader, 0, len(ic.paths))
	for _, path := range ic.paths {
		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open ics file: %w", err)
		}
		defer file.Close()
		readers = append(readers, file)
	}
	if err := ic.Parse(readers...); err != nil {
		return err
	}

	ic.logger.Info("ICS calendars loaded",
		zap.Strings("files", ic.paths),
		zap.Int("months", len(ic.data)))
	return nil
}

// Parse reads calendars from readers, replacing anything loaded before
func (ic *ICSCalendar) Parse(readers ...io.Reader) error {
	builders := make(map[dateutil.Month]*monthBuilder)
	events := 0

	for _, r := range readers {
		cal, err := ical.ParseCalendar(r)
		if err != nil {
			return fmt.Errorf("failed to parse ics: %w", err)
		}

		for _, ve := range cal.Events() {
			from, to, err := ic.eventDays(ve)
			if err != nil {
				ic.logger.Warn("Skipping ics event", zap.Error(err))
				continue
			}
			note := ""
			if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
				note = p.Value
			}
			for _, date := range dateutil.DaysBetween(from, to) {
				m := date.MonthKey()
				b, ok := builders[m]
				if !ok {
					b = newMonthBuilder(m)
					builders[m] = b
				}
				b.day(date).apply(DayKindBlocked, 0, note)
			}
			events++
		}
	}

	ic.data = make(map[dateutil.Month]*MonthInfo, len(builders))
	for m, b := range builders {
		ic.data[m] = b.build()
	}
	ic.logger.Debug("ICS events parsed", zap.Int("events", events))
	return nil
}

// eventDays returns the half-open day range [from, to) an event occupies
func (ic *ICSCalendar) eventDays(ve *ical.VEvent) (dateutil.Date, dateutil.Date, error) {
	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil {
		return dateutil.Date{}, dateutil.Date{}, fmt.Errorf("event without DTSTART")
	}

	if isAllDay(startProp) {
		from, err := dateutil.ParseDate(startProp.Value)
		if err != nil {
			return from, from, err
		}
		to := from.AddDays(1)
		// DTEND of an all-day event is exclusive
		if endProp := ve.GetProperty(ical.ComponentPropertyDtEnd); endProp != nil {
			end, err := dateutil.ParseDate(endProp.Value)
			if err != nil {
				return from, from, err
			}
			if end.After(from) {
				to = end
			}
		}
		return from, to, nil
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return dateutil.Date{}, dateutil.Date{}, err
	}
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		end = start
	}

	from := dateutil.DateOf(start.In(ic.loc))
	last := dateutil.DateOf(end.In(ic.loc))
	// an event ending exactly at midnight does not occupy the next day
	endLocal := end.In(ic.loc)
	if last.After(from) && endLocal.Hour() == 0 && endLocal.Minute() == 0 && endLocal.Second() == 0 {
		last = last.AddDays(-1)
	}
	return from, last.AddDays(1), nil
}

func isAllDay(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// GetMonthInfo returns availability for the entire month
func (ic *ICSCalendar) GetMonthInfo(month dateutil.Month) (*MonthInfo, error) {
	if mi, ok := ic.data[month]; ok {
		return mi, nil
	}
	return &MonthInfo{Month: month}, nil
}

// GetDayInfo returns availability for a specific day
func (ic *ICSCalendar) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	return dayFromMonth(ic, date)
}
