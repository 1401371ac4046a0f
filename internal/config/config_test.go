package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/rangepicker/internal/calendar"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
)

const sampleConfig = `
picker:
  number_of_months: 3
  orientation: vertical-scrollable
  first_day_of_week: monday
  minimum_nights: 2
  disabled_input: end
  min_date: 2025-01-01
  max_date: 2025-12-31
  initial_month: 2025-03
  timezone: UTC
  end_date_offset: 6
availability:
  file: availability.txt
  ics_files:
    - bookings.ics
  outside_range: none
  rules:
    - rrule: FREQ=WEEKLY;BYDAY=SA,SU
      kind: blocked
    - rrule: FREQ=MONTHLY;BYMONTHDAY=1
      kind: min-nights
      nights: 3
session:
  state_file: /tmp/session.json
watch:
  schedule: "@every 30s"
  log_level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, window.Options{NumberOfMonths: 3, Orientation: window.VerticalScrollable, FirstDayOfWeek: time.Monday},
		cfg.Picker.GetWindowOptions())
	assert.Equal(t, engine.DisabledEnd, cfg.Picker.GetClickOptions().Disabled)
	assert.Equal(t, dateutil.NewDate(2025, time.January, 1), cfg.Picker.GetMinDate())
	assert.Equal(t, dateutil.NewDate(2025, time.December, 31), cfg.Picker.GetMaxDate())
	assert.Equal(t, dateutil.NewMonth(2025, time.March), cfg.Picker.GetInitialMonth())

	start, end := cfg.Picker.GetDateOffsets()
	assert.False(t, start.IsSet())
	require.True(t, end.IsSet())
	assert.Equal(t, dateutil.NewDate(2025, time.March, 16), end.Apply(dateutil.NewDate(2025, time.March, 10)))
	assert.Same(t, time.UTC, cfg.Picker.GetLocation())

	rules := cfg.Availability.GetRules()
	require.Len(t, rules, 2)
	assert.Equal(t, calendar.DayKindBlocked, rules[0].Kind)
	assert.Equal(t, 3, rules[1].Nights)

	policy := cfg.GetPolicy()
	assert.Equal(t, calendar.OutsideRangeNone, policy.OutsideRange)
	assert.Equal(t, time.Monday, policy.FirstDayOfWeek)
	assert.Equal(t, []string{"bookings.ics"}, cfg.Availability.ICSFiles)
	assert.Equal(t, "@every 30s", cfg.Watch.GetSchedule())
}

func TestLoad_QuotedAndUnquotedDates(t *testing.T) {
	for name, content := range map[string]string{
		"unquoted":      "picker:\n  min_date: 2025-01-01\n  max_date: 2025-12-31\n",
		"double quoted": "picker:\n  min_date: \"2025-01-01\"\n  max_date: \"2025-12-31\"\n",
		"single quoted": "picker:\n  min_date: '2025-01-01'\n  max_date: '2025-12-31'\n",
	} {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, content))
			require.NoError(t, err)
			assert.Equal(t, "2025-01-01", cfg.Picker.MinDate)
			assert.Equal(t, "2025-12-31", cfg.Picker.MaxDate)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "picker:\n  timezone: UTC\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Picker.NumberOfMonths)
	assert.Equal(t, 1, cfg.Picker.MinimumNights)
	assert.Equal(t, time.Sunday, cfg.Picker.GetFirstDayOfWeek())
	assert.Equal(t, "rangepicker_session.json", cfg.Session.StateFile)
	assert.Equal(t, 24*time.Hour, cfg.Availability.Holidays.GetCacheTTL())
	assert.True(t, cfg.Picker.GetMinDate().IsZero())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RANGEPICKER_PICKER_MINIMUM_NIGHTS", "5")
	t.Setenv("STATE_DIR", "/var/lib/rangepicker")

	cfg, err := Load(writeConfig(t, "session:\n  state_file: ${STATE_DIR}/session.json\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Picker.MinimumNights)
	assert.Equal(t, "/var/lib/rangepicker/session.json", cfg.Session.StateFile)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"zero months", "picker:\n  number_of_months: 0\n", "picker.number_of_months"},
		{"bad orientation", "picker:\n  orientation: diagonal\n", "picker.orientation"},
		{"bad weekday", "picker:\n  first_day_of_week: someday\n", "picker.first_day_of_week"},
		{"negative nights", "picker:\n  minimum_nights: -1\n", "picker.minimum_nights"},
		{"bad disabled input", "picker:\n  disabled_input: both\n", "picker.disabled_input"},
		{"bad min date", "picker:\n  min_date: yesterday\n", "picker.min_date"},
		{"inverted bounds", "picker:\n  min_date: 2025-05-01\n  max_date: 2025-04-01\n", "picker.max_date"},
		{"inverted offsets", "picker:\n  start_date_offset: 2\n  end_date_offset: -1\n", "picker.end_date_offset"},
		{"bad initial month", "picker:\n  initial_month: march\n", "picker.initial_month"},
		{"bad timezone", "picker:\n  timezone: Mars/Olympus\n", "picker.timezone"},
		{"bad outside range", "availability:\n  outside_range: after-today\n", "availability.outside_range"},
		{"rule without rrule", "availability:\n  rules:\n    - kind: blocked\n", "availability.rules[0].rrule"},
		{"rule bad kind", "availability:\n  rules:\n    - rrule: FREQ=DAILY\n      kind: maybe\n", "availability.rules[0].kind"},
		{"rule without nights", "availability:\n  rules:\n    - rrule: FREQ=DAILY\n      kind: min-nights\n", "availability.rules[0].nights"},
		{"bad log level", "watch:\n  log_level: loud\n", "watch.log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
