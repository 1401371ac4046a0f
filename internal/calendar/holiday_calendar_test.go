package calendar

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

func TestHolidayCalendar_ParseBulkResponse(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	cal := NewHolidayCalendar("", "", false, 24*time.Hour, logger)

	tests := []struct {
		name         string
		month        dateutil.Month
		data         string
		wantHolidays []int
	}{
		{
			name:         "November 2025",
			month:        dateutil.NewMonth(2025, time.November),
			data:         "211100011000001100000110000011", // 30 days
			wantHolidays: []int{3, 4},
		},
		{
			name:         "July 2025",
			month:        dateutil.NewMonth(2025, time.July),
			data:         "0000110000011000001100000110000", // 31 days
			wantHolidays: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			monthInfo, err := cal.parseBulkResponse(tt.month, tt.data)
			require.NoError(t, err)

			require.Len(t, monthInfo.Days, len(tt.wantHolidays))
			for i, day := range tt.wantHolidays {
				got := monthInfo.Days[i]
				assert.Equal(t, day, got.Date.Day(), "Days[%d]", i)
				assert.True(t, got.Highlighted, "Days[%d]", i)
				assert.False(t, got.Blocked, "Days[%d]", i)
			}
			assert.Equal(t, len(tt.wantHolidays), monthInfo.Highlighted)
		})
	}
}

func TestHolidayCalendar_ParseBulkResponse_Block(t *testing.T) {
	cal := NewHolidayCalendar("", "", true, 0, zap.NewNop())

	monthInfo, err := cal.parseBulkResponse(dateutil.NewMonth(2025, time.November), "211100011000001100000110000011")
	require.NoError(t, err)
	assert.Equal(t, 2, monthInfo.Blocked)
	assert.Zero(t, monthInfo.Highlighted)
}

func TestHolidayCalendar_ParseBulkResponse_Invalid(t *testing.T) {
	cal := NewHolidayCalendar("", "", false, 0, zap.NewNop())
	november := dateutil.NewMonth(2025, time.November)

	_, err := cal.parseBulkResponse(november, "0101")
	assert.Error(t, err, "short data")
	_, err = cal.parseBulkResponse(november, "911100011000001100000110000011")
	assert.Error(t, err, "unknown day code")
}

func TestHolidayCalendar_FetchAndCache(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Query().Get("year") != "2025" || r.URL.Query().Get("month") != "11" {
			http.Error(w, "unexpected month", http.StatusBadRequest)
			return
		}
		if r.URL.Query().Get("cc") != "ru" {
			http.Error(w, "missing country", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "211100011000001100000110000011")
	}))
	defer server.Close()

	logger, _ := zap.NewDevelopment()
	cal := NewHolidayCalendar(server.URL, "ru", false, time.Hour, logger)

	info, err := cal.GetDayInfo(dateutil.NewDate(2025, time.November, 4))
	require.NoError(t, err)
	assert.True(t, info.Highlighted)

	_, err = cal.GetDayInfo(dateutil.NewDate(2025, time.November, 5))
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load(), "second lookup hits the cache")

	cal.ClearCache()
	_, err = cal.GetMonthInfo(dateutil.NewMonth(2025, time.November))
	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load(), "ClearCache forces a refetch")

	_, err = cal.GetMonthInfo(dateutil.NewMonth(2025, time.December))
	assert.Error(t, err)
}
