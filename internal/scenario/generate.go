package scenario

import (
	"fmt"
	"time"

	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
	"github.com/username/rangepicker/pkg/random"
)

// GenerateOptions shape a random walk
type GenerateOptions struct {
	Steps int
	Today dateutil.Date
}

type stepKind int

const (
	kindFocus stepKind = iota
	kindHover
	kindLeave
	kindClick
	kindNext
	kindPrev
	kindMore
	kindTick
	kindNights
	kindAvailability
	kindSelection
	kindCheck
)

var stepWeights = []int{
	kindFocus:        10,
	kindHover:        25,
	kindLeave:        12,
	kindClick:        15,
	kindNext:         5,
	kindPrev:         5,
	kindMore:         3,
	kindTick:         4,
	kindNights:       5,
	kindAvailability: 4,
	kindSelection:    3,
	kindCheck:        1,
}

// Generate builds a reproducible random scenario: picker settings,
// availability and a walk of host events. Replayed with verification it
// compares the incremental store against a rebuild after every step.
func Generate(src *random.Source, opts GenerateOptions) *Scenario {
	today := opts.Today
	if today.IsZero() {
		today = dateutil.Today()
	}

	g := &generator{src: src, today: today, month: today.MonthKey()}
	picker := g.picker()
	g.screen = picker.NumberOfMonths
	g.months = picker.NumberOfMonths
	g.scrollable = picker.Orientation == string(window.VerticalScrollable)

	s := &Scenario{
		Name:         fmt.Sprintf("random walk (seed %d)", src.Seed()),
		Today:        today.String(),
		Month:        g.month.String(),
		Picker:       picker,
		Availability: g.availability(),
	}
	if src.Chance(25) {
		s.OutsideRange = "none"
	}

	for i := 0; i < opts.Steps; i++ {
		s.Steps = append(s.Steps, g.step())
	}
	return s
}

type generator struct {
	src        *random.Source
	today      dateutil.Date
	month      dateutil.Month
	screen     int
	months     int
	scrollable bool
	hovered    dateutil.Date
}

func (g *generator) picker() PickerSettings {
	orientations := []window.Orientation{window.Horizontal, window.Vertical, window.VerticalScrollable}
	settings := PickerSettings{
		NumberOfMonths:                     g.src.Between(1, 3),
		Orientation:                        string(orientations[g.src.Intn(len(orientations))]),
		EnableOutsideDays:                  g.src.Chance(50),
		FirstDayOfWeek:                     time.Weekday(g.src.Intn(7)).String(),
		MinimumNights:                      g.src.Between(0, 3),
		DaysViolatingMinNightsCanBeClicked: g.src.Chance(20),
		KeepOpenOnDateSelect:               g.src.Chance(20),
	}
	if g.src.Chance(15) {
		start, end := -g.src.Between(0, 2), g.src.Between(0, 7)
		settings.StartDateOffset, settings.EndDateOffset = &start, &end
	}
	return settings
}

func (g *generator) availability() []string {
	from, to := g.today.AddDays(-14), g.today.AddDays(120)

	var lines []string
	for _, d := range g.src.SelectRandomDates(from, to, g.src.Between(1, 12)) {
		lines = append(lines, d.String()+" blocked")
	}
	for _, d := range g.src.SelectRandomDates(from, to, g.src.Between(0, 6)) {
		lines = append(lines, d.String()+" highlighted")
	}
	for _, d := range g.src.SelectRandomDates(from, to, g.src.Between(0, 6)) {
		lines = append(lines, fmt.Sprintf("%s min-nights %d", d, g.src.Between(2, 5)))
	}
	return lines
}

// day picks a date on screen or just around it
func (g *generator) day() dateutil.Date {
	first := g.month.FirstDay().AddDays(-7)
	last := g.month.Add(g.months).FirstDay().AddDays(6)
	return g.src.DateBetween(first, last)
}

func (g *generator) step() Step {
	switch stepKind(g.src.Weighted(stepWeights)) {
	case kindFocus:
		return Step{Focus: []string{"start", "end", "none"}[g.src.Intn(3)]}

	case kindHover:
		g.hovered = g.day()
		return Step{Hover: g.hovered.String()}

	case kindLeave:
		day := g.hovered
		if day.IsZero() || g.src.Chance(20) {
			// stale leave
			day = g.day()
		}
		g.hovered = dateutil.Date{}
		return Step{Leave: day.String()}

	case kindClick:
		return Step{Click: g.day().String()}

	case kindNext:
		g.month = g.month.Add(1)
		return Step{Next: 1}

	case kindPrev:
		g.month = g.month.Add(-1)
		return Step{Prev: 1}

	case kindMore:
		if g.scrollable {
			g.months += g.screen
		} else {
			g.month = g.month.Add(1)
		}
		return Step{More: 1}

	case kindTick:
		g.today = g.today.AddDays(g.src.Between(1, 3))
		return Step{Tick: g.today.String()}

	case kindNights:
		nights := g.src.Between(0, 4)
		return Step{Set: &Settings{MinimumNights: &nights}}

	case kindAvailability:
		return Step{Set: &Settings{Availability: append([]string{}, g.availability()...)}}

	case kindSelection:
		start, end := "", ""
		if g.src.Chance(70) {
			s := g.day()
			start = s.String()
			if g.src.Chance(60) {
				end = s.AddDays(g.src.Between(0, 10)).String()
			}
		}
		return Step{Set: &Settings{Start: &start, End: &end}}
	}
	return Step{}
}
