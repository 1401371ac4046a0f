// Package scenario loads scripted picker sessions from YAML and replays them
// against an engine.Controller.
package scenario

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/username/rangepicker/internal/calendar"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/modifiers"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Scenario is one scripted session
type Scenario struct {
	Name         string         `yaml:"name"`
	Today        string         `yaml:"today"`
	Month        string         `yaml:"month,omitempty"`
	Picker       PickerSettings `yaml:"picker"`
	Selection    SelectionSpec  `yaml:"selection"`
	Availability []string       `yaml:"availability,omitempty"` // availability file lines
	OutsideRange string         `yaml:"outside_range,omitempty"`
	Steps        []Step         `yaml:"steps"`
}

// PickerSettings mirrors the picker config section
type PickerSettings struct {
	NumberOfMonths                     int    `yaml:"number_of_months"`
	Orientation                        string `yaml:"orientation"`
	EnableOutsideDays                  bool   `yaml:"enable_outside_days"`
	FirstDayOfWeek                     string `yaml:"first_day_of_week"`
	MinimumNights                      int    `yaml:"minimum_nights"`
	DaysViolatingMinNightsCanBeClicked bool   `yaml:"days_violating_min_nights_can_be_clicked"`
	KeepOpenOnDateSelect               bool   `yaml:"keep_open_on_date_select"`
	DisabledInput                      string `yaml:"disabled_input"`
	MinDate                            string `yaml:"min_date"`
	MaxDate                            string `yaml:"max_date"`
	StartDateOffset                    *int   `yaml:"start_date_offset,omitempty"`
	EndDateOffset                      *int   `yaml:"end_date_offset,omitempty"`
}

type SelectionSpec struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Focus string `yaml:"focus"`
}

// Step is a single event. Exactly one action field must be set.
type Step struct {
	Focus string    `yaml:"focus,omitempty"`
	Hover string    `yaml:"hover,omitempty"`
	Leave string    `yaml:"leave,omitempty"`
	Click string    `yaml:"click,omitempty"`
	Next  int       `yaml:"next,omitempty"`
	Prev  int       `yaml:"prev,omitempty"`
	More  int       `yaml:"more,omitempty"`
	Tick  string    `yaml:"tick,omitempty"`
	Set   *Settings `yaml:"set,omitempty"`

	// Expect lists tags a day must carry after the step, Absent tags it must not
	Expect map[string][]string `yaml:"expect,omitempty"`
	Absent map[string][]string `yaml:"absent,omitempty"`
}

// Settings changes host props mid-session
type Settings struct {
	MinimumNights                      *int     `yaml:"minimum_nights,omitempty"`
	DaysViolatingMinNightsCanBeClicked *bool    `yaml:"days_violating_min_nights_can_be_clicked,omitempty"`
	Start                              *string  `yaml:"start,omitempty"`
	End                                *string  `yaml:"end,omitempty"`
	Availability                       []string `yaml:"availability,omitempty"`
}

// Action names the step's event
func (s Step) Action() string {
	var actions []string
	if s.Focus != "" {
		actions = append(actions, "focus")
	}
	if s.Hover != "" {
		actions = append(actions, "hover")
	}
	if s.Leave != "" {
		actions = append(actions, "leave")
	}
	if s.Click != "" {
		actions = append(actions, "click")
	}
	if s.Next > 0 {
		actions = append(actions, "next")
	}
	if s.Prev > 0 {
		actions = append(actions, "prev")
	}
	if s.More > 0 {
		actions = append(actions, "more")
	}
	if s.Tick != "" {
		actions = append(actions, "tick")
	}
	if s.Set != nil {
		actions = append(actions, "set")
	}
	switch len(actions) {
	case 0:
		return "check"
	case 1:
		return actions[0]
	default:
		return strings.Join(actions, "+")
	}
}

// Load reads a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// Marshal encodes s in the format Parse reads
func (s *Scenario) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks every date, enum and step of the scenario
func (s *Scenario) Validate() error {
	if s.Today == "" {
		return fmt.Errorf("today is required")
	}
	if _, err := dateutil.ParseDate(s.Today); err != nil {
		return fmt.Errorf("today: %w", err)
	}
	if s.Month != "" {
		if _, err := dateutil.ParseMonth(s.Month); err != nil {
			return fmt.Errorf("month: %w", err)
		}
	}
	if _, err := window.ParseOrientation(s.Picker.Orientation); err != nil {
		return fmt.Errorf("picker.orientation: %w", err)
	}
	if s.Picker.FirstDayOfWeek != "" {
		if _, err := dateutil.ParseWeekday(s.Picker.FirstDayOfWeek); err != nil {
			return fmt.Errorf("picker.first_day_of_week: %w", err)
		}
	}
	if s.Picker.MinimumNights < 0 {
		return fmt.Errorf("picker.minimum_nights must not be negative")
	}
	if _, err := engine.ParseDisabledInput(s.Picker.DisabledInput); err != nil {
		return fmt.Errorf("picker.disabled_input: %w", err)
	}
	for field, value := range map[string]string{
		"picker.min_date": s.Picker.MinDate,
		"picker.max_date": s.Picker.MaxDate,
		"selection.start": s.Selection.Start,
		"selection.end":   s.Selection.End,
	} {
		if _, err := optionalDate(value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if _, err := engine.ParseFocusedInput(s.Selection.Focus); err != nil {
		return fmt.Errorf("selection.focus: %w", err)
	}
	if _, err := calendar.ParseOutsideRangePolicy(s.OutsideRange); err != nil {
		return fmt.Errorf("outside_range: %w", err)
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	action := s.Action()
	if strings.Contains(action, "+") {
		return fmt.Errorf("more than one action (%s)", action)
	}
	if s.Next < 0 || s.Prev < 0 || s.More < 0 {
		return fmt.Errorf("navigation counts must not be negative")
	}
	if s.Focus != "" {
		if _, err := engine.ParseFocusedInput(s.Focus); err != nil {
			return err
		}
	}
	for _, value := range []string{s.Hover, s.Leave, s.Click, s.Tick} {
		if _, err := optionalDate(value); err != nil {
			return err
		}
	}
	if s.Set != nil {
		if s.Set.MinimumNights != nil && *s.Set.MinimumNights < 0 {
			return fmt.Errorf("set.minimum_nights must not be negative")
		}
		for _, value := range []*string{s.Set.Start, s.Set.End} {
			if value != nil {
				if _, err := optionalDate(*value); err != nil {
					return err
				}
			}
		}
	}
	for _, expectations := range []map[string][]string{s.Expect, s.Absent} {
		for day, tags := range expectations {
			if _, err := dateutil.ParseDate(day); err != nil {
				return err
			}
			for _, tag := range tags {
				if !modifiers.IsKnown(modifiers.Tag(tag)) {
					return fmt.Errorf("unknown tag %q", tag)
				}
			}
		}
	}
	return nil
}

func optionalDate(s string) (dateutil.Date, error) {
	if s == "" {
		return dateutil.Date{}, nil
	}
	return dateutil.ParseDate(s)
}
