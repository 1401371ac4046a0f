package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

func TestRuleCalendar_Weekends(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	rules := []Rule{
		{RRule: "FREQ=WEEKLY;BYDAY=SA,SU", Kind: DayKindBlocked, Note: "Weekend"},
		{RRule: "FREQ=MONTHLY;BYMONTHDAY=15", Kind: DayKindMinNights, Nights: 3},
		{RRule: "FREQ=YEARLY;BYMONTH=3;BYMONTHDAY=20", Kind: DayKindHighlighted},
	}
	rc, err := NewRuleCalendar(rules, dateutil.NewDate(2025, time.January, 1), time.UTC, logger)
	require.NoError(t, err)

	march, err := rc.GetMonthInfo(dateutil.NewMonth(2025, time.March))
	require.NoError(t, err)
	// March 2025 has five full weekends
	assert.Equal(t, 10, march.Blocked)
	assert.Equal(t, 1, march.Highlighted)

	tests := []struct {
		day         int
		wantBlocked bool
		wantNights  int
	}{
		{1, true, 0},  // Saturday
		{3, false, 0}, // Monday
		{15, true, 3}, // Saturday with a monthly minimum stay
		{17, false, 0},
	}
	for _, tt := range tests {
		date := dateutil.NewDate(2025, time.March, tt.day)
		info, err := rc.GetDayInfo(date)
		require.NoError(t, err)
		assert.Equal(t, tt.wantBlocked, info.Blocked, "GetDayInfo(%v).Blocked", date)
		assert.Equal(t, tt.wantNights, info.MinNights, "GetDayInfo(%v).MinNights", date)
	}

	again, _ := rc.GetMonthInfo(dateutil.NewMonth(2025, time.March))
	assert.Same(t, march, again, "second call hits the cache")
}

func TestRuleCalendar_BeforeAnchor(t *testing.T) {
	rules := []Rule{{RRule: "FREQ=DAILY", Kind: DayKindBlocked}}
	rc, err := NewRuleCalendar(rules, dateutil.NewDate(2025, time.March, 10), time.UTC, zap.NewNop())
	require.NoError(t, err)

	march, _ := rc.GetMonthInfo(dateutil.NewMonth(2025, time.March))
	assert.Equal(t, 22, march.Blocked, "10th through 31st")
}

func TestNewRuleCalendar_Invalid(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{"bad rrule", Rule{RRule: "FREQ=SOMETIMES", Kind: DayKindBlocked}},
		{"min nights without nights", Rule{RRule: "FREQ=DAILY", Kind: DayKindMinNights}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleCalendar([]Rule{tt.rule}, dateutil.NewDate(2025, 1, 1), time.UTC, zap.NewNop())
			assert.Error(t, err)
		})
	}
}
