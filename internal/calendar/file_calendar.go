package calendar

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// FileCalendar implements Calendar using a local text file
type FileCalendar struct {
	filePath string
	logger   *zap.Logger
	data     map[dateutil.Month]*MonthInfo
}

// NewFileCalendar creates a new FileCalendar instance
func NewFileCalendar(filePath string, logger *zap.Logger) *FileCalendar {
	return &FileCalendar{
		filePath: filePath,
		logger:   logger,
		data:     make(map[dateutil.Month]*MonthInfo),
	}
}

// Load loads availability data from file
func (fc *FileCalendar) Load() error {
	file, err := os.Open(fc.filePath)
	if err != nil {
		return fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	if err := fc.Parse(file); err != nil {
		return err
	}

	fc.logger.Info("Calendar file loaded",
		zap.String("file", fc.filePath),
		zap.Int("months", len(fc.data)))
	return nil
}

// Parse reads availability lines from r, replacing anything loaded before.
//
// Format: DATE[..DATE] kind [nights] [note]
// Example: 2025-07-01..2025-07-14 min-nights 7 High season
//
// Ranges are inclusive on both ends. Malformed lines are logged and skipped.
func (fc *FileCalendar) Parse(r io.Reader) error {
	builders := make(map[dateutil.Month]*monthBuilder)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseEntry(line)
		if err != nil {
			fc.logger.Warn("Invalid calendar line",
				zap.Int("line", lineNo),
				zap.String("text", line),
				zap.Error(err))
			continue
		}

		for _, date := range dateutil.DaysBetween(entry.from, entry.to.AddDays(1)) {
			m := date.MonthKey()
			b, ok := builders[m]
			if !ok {
				b = newMonthBuilder(m)
				builders[m] = b
			}
			b.day(date).apply(entry.kind, entry.nights, entry.note)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading calendar file: %w", err)
	}

	fc.data = make(map[dateutil.Month]*MonthInfo, len(builders))
	for m, b := range builders {
		fc.data[m] = b.build()
	}
	return nil
}

type entry struct {
	from, to dateutil.Date
	kind     DayKind
	nights   int
	note     string
}

func parseEntry(line string) (entry, error) {
	var e entry

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return e, fmt.Errorf("expected at least date and kind")
	}

	fromStr, toStr, isRange := strings.Cut(fields[0], "..")
	from, err := dateutil.ParseDate(fromStr)
	if err != nil {
		return e, err
	}
	to := from
	if isRange {
		if to, err = dateutil.ParseDate(toStr); err != nil {
			return e, err
		}
		if to.Before(from) {
			return e, fmt.Errorf("range end %s before start %s", to, from)
		}
	}
	e.from, e.to = from, to

	if e.kind, err = ParseDayKind(fields[1]); err != nil {
		return e, err
	}

	rest := fields[2:]
	if e.kind == DayKindMinNights {
		if len(rest) == 0 {
			return e, fmt.Errorf("min-nights needs a night count")
		}
		if e.nights, err = strconv.Atoi(rest[0]); err != nil || e.nights < 0 {
			return e, fmt.Errorf("invalid night count %q", rest[0])
		}
		rest = rest[1:]
	}
	e.note = strings.Join(rest, " ")
	return e, nil
}

// GetMonthInfo returns availability for the entire month
func (fc *FileCalendar) GetMonthInfo(month dateutil.Month) (*MonthInfo, error) {
	monthInfo, ok := fc.data[month]
	if !ok {
		return &MonthInfo{Month: month}, nil
	}
	return monthInfo, nil
}

// GetDayInfo returns availability for a specific day
func (fc *FileCalendar) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	return dayFromMonth(fc, date)
}
