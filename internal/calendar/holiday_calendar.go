package calendar

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	DefaultHolidayURL  = "https://isdayoff.ru"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// HolidayCalendar marks public holidays using the isdayoff.ru bulk month API.
// Holidays are highlighted, or blocked when the property closes on them.
type HolidayCalendar struct {
	baseURL    string
	country    string
	block      bool
	httpClient *http.Client
	logger     *zap.Logger

	cacheMu  sync.RWMutex
	cache    map[dateutil.Month]*cachedMonth
	cacheTTL time.Duration
}

type cachedMonth struct {
	data      *MonthInfo
	fetchedAt time.Time
}

// NewHolidayCalendar creates a new HolidayCalendar. An empty baseURL uses
// DefaultHolidayURL.
func NewHolidayCalendar(baseURL, country string, block bool, cacheTTL time.Duration, logger *zap.Logger) *HolidayCalendar {
	if baseURL == "" {
		baseURL = DefaultHolidayURL
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &HolidayCalendar{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		block:   block,
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		logger:   logger,
		cache:    make(map[dateutil.Month]*cachedMonth),
		cacheTTL: cacheTTL,
	}
}

// GetMonthInfo returns the holidays of month
func (c *HolidayCalendar) GetMonthInfo(month dateutil.Month) (*MonthInfo, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[month]; ok && time.Since(cached.fetchedAt) < c.cacheTTL {
		c.cacheMu.RUnlock()
		c.logger.Debug("Using cached holidays", zap.Stringer("month", month))
		return cached.data, nil
	}
	c.cacheMu.RUnlock()

	monthInfo, err := c.fetchMonth(month)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[month] = &cachedMonth{data: monthInfo, fetchedAt: time.Now()}
	c.cacheMu.Unlock()

	return monthInfo, nil
}

// GetDayInfo returns holiday info for a specific day
func (c *HolidayCalendar) GetDayInfo(date dateutil.Date) (*DayInfo, error) {
	return dayFromMonth(c, date)
}

// fetchMonth fetches the whole month from the bulk API
func (c *HolidayCalendar) fetchMonth(month dateutil.Month) (*MonthInfo, error) {
	// Build URL: https://isdayoff.ru/api/getdata?year=2025&month=11&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&month=%d&pre=1",
		c.baseURL, month.Year(), int(month.Month()))
	if c.country != "" {
		url += "&cc=" + c.country
	}

	c.logger.Debug("Fetching holidays",
		zap.String("url", url),
		zap.Stringer("month", month))

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holiday data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	monthInfo, err := c.parseBulkResponse(month, strings.TrimSpace(string(body)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Holidays fetched",
		zap.Stringer("month", month),
		zap.Int("holidays", len(monthInfo.Days)))

	return monthInfo, nil
}

// parseBulkResponse parses the bulk response string
// Format: "211100011000001100000110000011" where:
// 0 = working day
// 1 = non-working day (holiday or weekend)
// 2 = shortened pre-holiday day
// Only non-working weekdays are reported.
func (c *HolidayCalendar) parseBulkResponse(month dateutil.Month, data string) (*MonthInfo, error) {
	daysInMonth := month.LastDay().Day()
	if len(data) != daysInMonth {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInMonth, len(data))
	}

	b := newMonthBuilder(month)
	for i, code := range data {
		date := dateutil.NewDate(month.Year(), month.Month(), i+1)

		switch code {
		case '0', '2':
		case '1':
			if dateutil.IsWeekend(date) {
				continue
			}
			kind := DayKindHighlighted
			if c.block {
				kind = DayKindBlocked
			}
			b.day(date).apply(kind, 0, "Public holiday")
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return b.build(), nil
}

// ClearCache clears the cache
func (c *HolidayCalendar) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[dateutil.Month]*cachedMonth)
	c.logger.Info("Holiday cache cleared")
}
