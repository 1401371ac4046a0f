package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/rangepicker/internal/modifiers"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
)

// dayMarks maps tags to the single character drawn next to a day number.
// The first tag a day carries wins.
var dayMarks = []struct {
	tag  modifiers.Tag
	mark byte
}{
	{modifiers.TagSelectedStart, '['},
	{modifiers.TagSelectedEnd, ']'},
	{modifiers.TagHovered, '^'},
	{modifiers.TagSelectedSpan, '='},
	{modifiers.TagHoveredSpan, '~'},
	{modifiers.TagHoveredOffset, '~'},
	{modifiers.TagAfterHoveredStart, '~'},
	{modifiers.TagBeforeHoveredEnd, '~'},
	{modifiers.TagHoveredStartFirstPossibleEnd, '>'},
	{modifiers.TagHoveredStartBlockedMinNights, 'm'},
	{modifiers.TagBlockedMinimumNights, 'm'},
	{modifiers.TagBlockedOutOfRange, '-'},
	{modifiers.TagBlockedCalendar, 'x'},
	{modifiers.TagHighlightedCalendar, '*'},
	{modifiers.TagToday, '.'},
}

const legend = "[ start  ] end  = selected  ^ hovered  ~ hovered span or offset  > first possible end  m minimum nights  x blocked  - out of range  * highlighted  . today"

func markOf(tags modifiers.TagSet) byte {
	for _, dm := range dayMarks {
		if tags.Has(dm.tag) {
			return dm.mark
		}
	}
	return ' '
}

func renderCmd() *cobra.Command {
	var month string
	var tags bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the visible months with their day modifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := openPicker(cfg)
			if err != nil {
				return err
			}

			if month != "" {
				m, err := dateutil.ParseMonth(month)
				if err != nil {
					return fmt.Errorf("invalid --month: %w", err)
				}
				p.controller.Reset(m)
			}

			w, store := p.controller.Window(), p.controller.Snapshot()
			if tags {
				renderTags(out, w, store)
			} else {
				renderGrid(out, w, store)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "First visible month (YYYY-MM)")
	cmd.Flags().BoolVar(&tags, "tags", false, "List every day's tags instead of drawing a grid")

	return cmd
}

// renderGrid draws each visible month as a week grid
func renderGrid(w io.Writer, win window.Window, store *modifiers.Store) {
	firstDay := win.Options().FirstDayOfWeek

	for i, m := range win.VisibleMonths() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %d\n", m.Month(), m.Year())

		header := make([]string, 7)
		for j := range header {
			header[j] = fmt.Sprintf("%-3s", dayName(firstDay+time.Weekday(j)))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(header, " "), " "))

		days := win.Days(m)
		if len(days) == 0 {
			continue
		}

		var line strings.Builder
		col := weekColumn(days[0], firstDay)
		line.WriteString(strings.Repeat("    ", col))
		for _, day := range days {
			tags, _ := store.MonthTags(m, day)
			fmt.Fprintf(&line, "%2d%c ", day.Day(), markOf(tags))
			col++
			if col == 7 {
				fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
				line.Reset()
				col = 0
			}
		}
		if line.Len() > 0 {
			fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, legend)
}

// renderTags lists every tagged day of the visible months
func renderTags(w io.Writer, win window.Window, store *modifiers.Store) {
	for _, m := range win.VisibleMonths() {
		fmt.Fprintf(w, "%s\n", m)
		for _, day := range win.Days(m) {
			tags, _ := store.MonthTags(m, day)
			if tags.Len() == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s  %s\n", day, tags)
		}
	}
}

// renderChanges prints the tags each changed day gained and lost
func renderChanges(w io.Writer, before, after *modifiers.Store) {
	changed := before.Diff(after)
	if len(changed) == 0 {
		fmt.Fprintln(w, "no days changed")
		return
	}
	for _, day := range changed {
		old, cur := before.Tags(day), after.Tags(day)

		var parts []string
		for _, t := range cur.Slice() {
			if !old.Has(t) {
				parts = append(parts, "+"+string(t))
			}
		}
		for _, t := range old.Slice() {
			if !cur.Has(t) {
				parts = append(parts, "-"+string(t))
			}
		}
		fmt.Fprintf(w, "%s  %s\n", day, strings.Join(parts, " "))
	}
}

func weekColumn(day dateutil.Date, firstDay time.Weekday) int {
	return (int(day.Weekday()) - int(firstDay) + 7) % 7
}

func dayName(wd time.Weekday) string {
	return (wd % 7).String()[:2]
}
