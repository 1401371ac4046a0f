package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/username/rangepicker/internal/calendar"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Picker       PickerConfig       `mapstructure:"picker"`
	Availability AvailabilityConfig `mapstructure:"availability"`
	Session      SessionConfig      `mapstructure:"session"`
	Watch        WatchConfig        `mapstructure:"watch"`
}

// PickerConfig represents the date-range picker props
type PickerConfig struct {
	NumberOfMonths                     int    `mapstructure:"number_of_months"`
	Orientation                        string `mapstructure:"orientation"` // horizontal, vertical, vertical-scrollable
	EnableOutsideDays                  bool   `mapstructure:"enable_outside_days"`
	FirstDayOfWeek                     string `mapstructure:"first_day_of_week"`
	MinimumNights                      int    `mapstructure:"minimum_nights"`
	DaysViolatingMinNightsCanBeClicked bool   `mapstructure:"days_violating_min_nights_can_be_clicked"`
	KeepOpenOnDateSelect               bool   `mapstructure:"keep_open_on_date_select"`
	DisabledInput                      string `mapstructure:"disabled_input"` // none, start, end
	MinDate                            string `mapstructure:"min_date"`
	MaxDate                            string `mapstructure:"max_date"`
	InitialMonth                       string `mapstructure:"initial_month"` // YYYY-MM
	Timezone                           string `mapstructure:"timezone"`
	// Offsets in days from a clicked day to the selected start and end. When
	// either is set a single click selects the whole range.
	StartDateOffset *int `mapstructure:"start_date_offset"`
	EndDateOffset   *int `mapstructure:"end_date_offset"`
}

// AvailabilityConfig represents the sources behind the host predicates
type AvailabilityConfig struct {
	File               string         `mapstructure:"file"`
	ICSFiles           []string       `mapstructure:"ics_files"`
	Rules              []RuleConfig   `mapstructure:"rules"`
	OutsideRange       string         `mapstructure:"outside_range"` // before-today or none
	HighlightTodayWeek bool           `mapstructure:"highlight_today_week"`
	Holidays           HolidaysConfig `mapstructure:"holidays"`
}

// RuleConfig represents a recurring availability rule
type RuleConfig struct {
	RRule  string `mapstructure:"rrule"`
	Kind   string `mapstructure:"kind"`
	Nights int    `mapstructure:"nights"`
	Note   string `mapstructure:"note"`
}

// HolidaysConfig represents the public holiday source
type HolidaysConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Country  string `mapstructure:"country"`
	Block    bool   `mapstructure:"block"`
	CacheTTL string `mapstructure:"cache_ttl"`
}

// SessionConfig represents session state storage
type SessionConfig struct {
	StateFile string `mapstructure:"state_file"`
}

// WatchConfig represents watch daemon configuration
type WatchConfig struct {
	Schedule string `mapstructure:"schedule"` // cron spec
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("picker.number_of_months", 2)
	v.SetDefault("picker.orientation", "horizontal")
	v.SetDefault("picker.enable_outside_days", false)
	v.SetDefault("picker.first_day_of_week", "sunday")
	v.SetDefault("picker.minimum_nights", 1)
	v.SetDefault("picker.days_violating_min_nights_can_be_clicked", false)
	v.SetDefault("picker.keep_open_on_date_select", false)
	v.SetDefault("picker.disabled_input", "none")
	v.SetDefault("picker.min_date", "")
	v.SetDefault("picker.max_date", "")
	v.SetDefault("picker.initial_month", "")
	v.SetDefault("picker.timezone", "Local")

	v.SetDefault("availability.file", "")
	v.SetDefault("availability.ics_files", []string{})
	v.SetDefault("availability.outside_range", "before-today")
	v.SetDefault("availability.highlight_today_week", false)
	v.SetDefault("availability.holidays.enabled", false)
	v.SetDefault("availability.holidays.url", calendar.DefaultHolidayURL)
	v.SetDefault("availability.holidays.country", "")
	v.SetDefault("availability.holidays.block", false)
	v.SetDefault("availability.holidays.cache_ttl", "24h")

	v.SetDefault("session.state_file", "rangepicker_session.json")

	v.SetDefault("watch.schedule", "@every 1m")
	v.SetDefault("watch.log_file", "")
	v.SetDefault("watch.log_level", "info")
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error and the defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.rangepicker")
		v.AddConfigPath("/etc/rangepicker")
	}

	// Read environment variables, e.g. RANGEPICKER_PICKER_MINIMUM_NIGHTS
	v.SetEnvPrefix("RANGEPICKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		timeToDateStringHook(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&config, decodeHook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// timeToDateStringHook turns YAML timestamps such as an unquoted 2025-01-01
// back into the date strings the config fields hold
func timeToDateStringHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to.Kind() != reflect.String {
			return data, nil
		}
		t, ok := data.(time.Time)
		if !ok {
			return data, nil
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02"), nil
		}
		return t.Format(time.RFC3339), nil
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	p := c.Picker
	if p.NumberOfMonths <= 0 {
		return fmt.Errorf("picker.number_of_months must be positive")
	}
	if _, err := window.ParseOrientation(p.Orientation); err != nil {
		return fmt.Errorf("picker.orientation: %w", err)
	}
	if _, err := dateutil.ParseWeekday(p.FirstDayOfWeek); err != nil {
		return fmt.Errorf("picker.first_day_of_week: %w", err)
	}
	if p.MinimumNights < 0 {
		return fmt.Errorf("picker.minimum_nights must not be negative")
	}
	if _, err := engine.ParseDisabledInput(p.DisabledInput); err != nil {
		return fmt.Errorf("picker.disabled_input: %w", err)
	}
	minDate, err := parseOptionalDate(p.MinDate)
	if err != nil {
		return fmt.Errorf("picker.min_date: %w", err)
	}
	maxDate, err := parseOptionalDate(p.MaxDate)
	if err != nil {
		return fmt.Errorf("picker.max_date: %w", err)
	}
	if !minDate.IsZero() && !maxDate.IsZero() && maxDate.Before(minDate) {
		return fmt.Errorf("picker.max_date must not be before picker.min_date")
	}
	if p.InitialMonth != "" {
		if _, err := dateutil.ParseMonth(p.InitialMonth); err != nil {
			return fmt.Errorf("picker.initial_month: %w", err)
		}
	}
	if p.StartDateOffset != nil && p.EndDateOffset != nil && *p.EndDateOffset < *p.StartDateOffset {
		return fmt.Errorf("picker.end_date_offset must not be before picker.start_date_offset")
	}
	if _, err := time.LoadLocation(p.Timezone); err != nil {
		return fmt.Errorf("picker.timezone: %w", err)
	}

	a := c.Availability
	if _, err := calendar.ParseOutsideRangePolicy(a.OutsideRange); err != nil {
		return fmt.Errorf("availability.outside_range: %w", err)
	}
	for i, r := range a.Rules {
		if r.RRule == "" {
			return fmt.Errorf("availability.rules[%d].rrule is required", i)
		}
		kind, err := calendar.ParseDayKind(r.Kind)
		if err != nil {
			return fmt.Errorf("availability.rules[%d].kind: %w", i, err)
		}
		if kind == calendar.DayKindMinNights && r.Nights <= 0 {
			return fmt.Errorf("availability.rules[%d].nights must be positive for min-nights", i)
		}
	}
	if a.Holidays.Enabled && a.Holidays.URL == "" {
		return fmt.Errorf("availability.holidays.url is required when holidays are enabled")
	}

	if c.Session.StateFile == "" {
		return fmt.Errorf("session.state_file is required")
	}

	switch c.Watch.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("watch.log_level must be debug, info, warn or error, got '%s'", c.Watch.LogLevel)
	}

	return nil
}

func parseOptionalDate(s string) (dateutil.Date, error) {
	if s == "" {
		return dateutil.Date{}, nil
	}
	return dateutil.ParseDate(s)
}

// GetFirstDayOfWeek returns the configured first day of week. Default: Sunday
func (p *PickerConfig) GetFirstDayOfWeek() time.Weekday {
	wd, err := dateutil.ParseWeekday(p.FirstDayOfWeek)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// GetLocation returns the timezone used to decide what today is
func (p *PickerConfig) GetLocation() *time.Location {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// GetMinDate returns the earliest navigable date, zero when unbounded
func (p *PickerConfig) GetMinDate() dateutil.Date {
	d, _ := parseOptionalDate(p.MinDate)
	return d
}

// GetMaxDate returns the latest navigable date, zero when unbounded
func (p *PickerConfig) GetMaxDate() dateutil.Date {
	d, _ := parseOptionalDate(p.MaxDate)
	return d
}

// GetInitialMonth returns the configured initial month, zero when unset
func (p *PickerConfig) GetInitialMonth() dateutil.Month {
	m, err := dateutil.ParseMonth(p.InitialMonth)
	if err != nil {
		return dateutil.Month{}
	}
	return m
}

// GetWindowOptions returns the visible-window settings
func (p *PickerConfig) GetWindowOptions() window.Options {
	orientation, _ := window.ParseOrientation(p.Orientation)
	return window.Options{
		NumberOfMonths:    p.NumberOfMonths,
		Orientation:       orientation,
		EnableOutsideDays: p.EnableOutsideDays,
		FirstDayOfWeek:    p.GetFirstDayOfWeek(),
	}
}

// GetDateOffsets returns the click offsets; an unconfigured one stays unset
func (p *PickerConfig) GetDateOffsets() (start, end engine.DateOffset) {
	if p.StartDateOffset != nil {
		start = engine.ShiftDays(*p.StartDateOffset, 1)
	}
	if p.EndDateOffset != nil {
		end = engine.ShiftDays(*p.EndDateOffset, 1)
	}
	return start, end
}

// GetClickOptions returns the click handling settings
func (p *PickerConfig) GetClickOptions() engine.ClickOptions {
	disabled, _ := engine.ParseDisabledInput(p.DisabledInput)
	return engine.ClickOptions{
		KeepOpenOnDateSelect: p.KeepOpenOnDateSelect,
		Disabled:             disabled,
	}
}

// GetPolicy returns the predicate policy for the availability sources
func (c *Config) GetPolicy() calendar.Policy {
	outside, _ := calendar.ParseOutsideRangePolicy(c.Availability.OutsideRange)
	return calendar.Policy{
		OutsideRange:       outside,
		HighlightTodayWeek: c.Availability.HighlightTodayWeek,
		FirstDayOfWeek:     c.Picker.GetFirstDayOfWeek(),
	}
}

// GetRules converts the configured rules
func (a *AvailabilityConfig) GetRules() []calendar.Rule {
	rules := make([]calendar.Rule, 0, len(a.Rules))
	for _, r := range a.Rules {
		kind, _ := calendar.ParseDayKind(r.Kind)
		rules = append(rules, calendar.Rule{RRule: r.RRule, Kind: kind, Nights: r.Nights, Note: r.Note})
	}
	return rules
}

// GetCacheTTL returns the holiday cache TTL duration
func (h *HolidaysConfig) GetCacheTTL() time.Duration {
	if h.CacheTTL == "" {
		return 24 * time.Hour
	}
	duration, err := time.ParseDuration(h.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return duration
}

// GetSchedule returns the cron spec of the watch daemon. Default: @every 1m
func (w *WatchConfig) GetSchedule() string {
	if w.Schedule == "" {
		return "@every 1m"
	}
	return w.Schedule
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Availability.File = os.ExpandEnv(c.Availability.File)
	for i, f := range c.Availability.ICSFiles {
		c.Availability.ICSFiles[i] = os.ExpandEnv(f)
	}
	c.Session.StateFile = os.ExpandEnv(c.Session.StateFile)
	c.Watch.LogFile = os.ExpandEnv(c.Watch.LogFile)
}
