package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/username/rangepicker/internal/calendar"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/modifiers"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// ExpectationError reports a tag that was (or was not) on a day after a step
type ExpectationError struct {
	Step    int
	Day     dateutil.Date
	Tag     modifiers.Tag
	Present bool
	Tags    modifiers.TagSet
}

func (e *ExpectationError) Error() string {
	want := "carry"
	if !e.Present {
		want = "not carry"
	}
	return fmt.Sprintf("step %d: %s should %s %s, has %s", e.Step, e.Day, want, e.Tag, e.Tags)
}

// DivergenceError reports days where the incremental store and a rebuild disagree
type DivergenceError struct {
	Step int
	Days []dateutil.Date
}

func (e *DivergenceError) Error() string {
	days := make([]string, len(e.Days))
	for i, d := range e.Days {
		days[i] = d.String()
	}
	return fmt.Sprintf("step %d: store diverged from rebuild on %s", e.Step, strings.Join(days, ", "))
}

// StepResult describes the effect of one step
type StepResult struct {
	Index   int
	Action  string
	Report  engine.Report
	Changed []dateutil.Date
}

// Result is the outcome of a replay
type Result struct {
	Name       string
	Steps      []StepResult
	Controller *engine.Controller
}

// Runner replays scenarios
type Runner struct {
	verify bool
	logger *zap.Logger
}

// NewRunner creates a runner. With verify set every step is checked against
// a full rebuild.
func NewRunner(verify bool, logger *zap.Logger) *Runner {
	return &Runner{verify: verify, logger: logger}
}

// session is the host-side state a replay threads through its steps
type session struct {
	cal      calendar.Calendar
	policy   calendar.Policy
	today    dateutil.Date
	revision uint64
	logger   *zap.Logger
}

func (s *session) predicates() engine.Predicates {
	return calendar.Predicates(s.cal, s.policy, s.today, s.revision, s.logger)
}

// Run replays s and stops at the first failed expectation
func (r *Runner) Run(s *Scenario) (*Result, error) {
	c, host, err := r.setup(s)
	if err != nil {
		return nil, err
	}

	result := &Result{Name: s.Name, Controller: c}
	if err := r.check(0, c, Step{}); err != nil {
		return result, err
	}

	for i, step := range s.Steps {
		index := i + 1
		before := c.Snapshot()

		report, err := r.apply(c, host, step)
		if err != nil {
			return result, fmt.Errorf("step %d: %w", index, err)
		}

		sr := StepResult{
			Index:   index,
			Action:  step.Action(),
			Report:  report,
			Changed: before.Diff(c.Snapshot()),
		}
		result.Steps = append(result.Steps, sr)

		r.logger.Debug("Scenario step applied",
			zap.String("scenario", s.Name),
			zap.Int("step", index),
			zap.String("action", sr.Action),
			zap.Int("changed_days", len(sr.Changed)))

		if err := r.check(index, c, step); err != nil {
			return result, err
		}
	}

	r.logger.Info("Scenario replayed",
		zap.String("scenario", s.Name),
		zap.Int("steps", len(result.Steps)))
	return result, nil
}

func (r *Runner) setup(s *Scenario) (*engine.Controller, *session, error) {
	today, _ := dateutil.ParseDate(s.Today)
	outside, _ := calendar.ParseOutsideRangePolicy(s.OutsideRange)

	cal, err := availability(s.Availability, r.logger)
	if err != nil {
		return nil, nil, err
	}
	host := &session{
		cal:      cal,
		policy:   calendar.Policy{OutsideRange: outside, FirstDayOfWeek: s.firstDayOfWeek()},
		today:    today,
		revision: 1,
		logger:   r.logger,
	}

	start, _ := optionalDate(s.Selection.Start)
	end, _ := optionalDate(s.Selection.End)
	focus, _ := engine.ParseFocusedInput(s.Selection.Focus)

	in := engine.Inputs{
		Selection:                          engine.Selection{StartDate: start, EndDate: end, FocusedInput: focus},
		Today:                              today,
		MinimumNights:                      s.Picker.MinimumNights,
		DaysViolatingMinNightsCanBeClicked: s.Picker.DaysViolatingMinNightsCanBeClicked,
		Predicates:                         host.predicates(),
	}
	if s.Picker.StartDateOffset != nil {
		in.StartDateOffset = engine.ShiftDays(*s.Picker.StartDateOffset, 1)
	}
	if s.Picker.EndDateOffset != nil {
		in.EndDateOffset = engine.ShiftDays(*s.Picker.EndDateOffset, 1)
	}

	orientation, _ := window.ParseOrientation(s.Picker.Orientation)
	disabled, _ := engine.ParseDisabledInput(s.Picker.DisabledInput)
	minDate, _ := optionalDate(s.Picker.MinDate)
	maxDate, _ := optionalDate(s.Picker.MaxDate)
	month, _ := dateutil.ParseMonth(s.Month)

	cfg := engine.Config{
		Window: window.Options{
			NumberOfMonths:    max(s.Picker.NumberOfMonths, 1),
			Orientation:       orientation,
			EnableOutsideDays: s.Picker.EnableOutsideDays,
			FirstDayOfWeek:    s.firstDayOfWeek(),
		},
		Bounds:       engine.Bounds{MinDate: minDate, MaxDate: maxDate},
		Click:        engine.ClickOptions{KeepOpenOnDateSelect: s.Picker.KeepOpenOnDateSelect, Disabled: disabled},
		InitialMonth: month,
	}
	return engine.NewController(cfg, in, r.logger), host, nil
}

func (s *Scenario) firstDayOfWeek() time.Weekday {
	wd, err := dateutil.ParseWeekday(s.Picker.FirstDayOfWeek)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// availability builds the host calendar from inline availability lines
func availability(lines []string, logger *zap.Logger) (calendar.Calendar, error) {
	fc := calendar.NewFileCalendar("", logger)
	if err := fc.Parse(strings.NewReader(strings.Join(lines, "\n"))); err != nil {
		return nil, err
	}
	return fc, nil
}

func (r *Runner) apply(c *engine.Controller, host *session, step Step) (engine.Report, error) {
	switch {
	case step.Focus != "":
		focus, _ := engine.ParseFocusedInput(step.Focus)
		sel := c.Inputs().Selection
		sel.FocusedInput = focus
		return c.SetSelection(sel), nil

	case step.Hover != "":
		day, _ := dateutil.ParseDate(step.Hover)
		return c.HoverEnter(day), nil

	case step.Leave != "":
		day, _ := dateutil.ParseDate(step.Leave)
		return c.HoverLeave(day), nil

	case step.Click != "":
		day, _ := dateutil.ParseDate(step.Click)
		prev := c.Inputs()
		res := c.Click(day)
		if res.Ignored {
			return engine.Report{}, nil
		}
		return engine.Report{Changes: engine.Diff(prev, c.Inputs())}, nil

	case step.Next > 0:
		return engine.Report{}, navigate(step.Next, c.NextMonth, "next")

	case step.Prev > 0:
		return engine.Report{}, navigate(step.Prev, c.PrevMonth, "previous")

	case step.More > 0:
		return engine.Report{}, navigate(step.More, c.LoadMoreMonths, "more")

	case step.Tick != "":
		day, _ := dateutil.ParseDate(step.Tick)
		host.today = day
		next := c.Inputs()
		next.Today = day
		next.Predicates = host.predicates()
		return c.Update(next), nil

	case step.Set != nil:
		return r.set(c, host, step.Set)
	}
	return engine.Report{}, nil
}

func navigate(n int, move func() bool, what string) error {
	for i := 0; i < n; i++ {
		if !move() {
			return fmt.Errorf("cannot navigate %s: bound is visible", what)
		}
	}
	return nil
}

func (r *Runner) set(c *engine.Controller, host *session, set *Settings) (engine.Report, error) {
	next := c.Inputs()
	if set.MinimumNights != nil {
		next.MinimumNights = *set.MinimumNights
	}
	if set.DaysViolatingMinNightsCanBeClicked != nil {
		next.DaysViolatingMinNightsCanBeClicked = *set.DaysViolatingMinNightsCanBeClicked
	}
	if set.Start != nil {
		next.StartDate, _ = optionalDate(*set.Start)
	}
	if set.End != nil {
		next.EndDate, _ = optionalDate(*set.End)
	}
	if set.Availability != nil {
		cal, err := availability(set.Availability, r.logger)
		if err != nil {
			return engine.Report{}, err
		}
		host.cal = cal
		host.revision++
		next.Predicates = host.predicates()
	}
	return c.Update(next), nil
}

func (r *Runner) check(index int, c *engine.Controller, step Step) error {
	if r.verify {
		if days := c.Verify(); len(days) > 0 {
			return &DivergenceError{Step: index, Days: days}
		}
	}

	snap := c.Snapshot()
	for _, expectations := range []struct {
		days    map[string][]string
		present bool
	}{{step.Expect, true}, {step.Absent, false}} {
		for dayStr, tags := range expectations.days {
			day, _ := dateutil.ParseDate(dayStr)
			have := snap.Tags(day)
			for _, tag := range tags {
				if have.Has(modifiers.Tag(tag)) != expectations.present {
					return &ExpectationError{Step: index, Day: day, Tag: modifiers.Tag(tag), Present: expectations.present, Tags: have}
				}
			}
		}
	}
	return nil
}
