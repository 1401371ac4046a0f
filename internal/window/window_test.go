package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/rangepicker/pkg/dateutil"
)

func TestNewLoadsTransitionMonths(t *testing.T) {
	initial := dateutil.NewMonth(2025, time.March)

	tests := []struct {
		name        string
		opts        Options
		wantFirst   string
		wantCount   int
		wantVisible int
	}{
		{"horizontal", Options{NumberOfMonths: 2}, "2025-02", 4, 2},
		{"vertical", Options{NumberOfMonths: 1, Orientation: Vertical}, "2025-02", 3, 1},
		{"scrollable", Options{NumberOfMonths: 3, Orientation: VerticalScrollable}, "2025-03", 3, 3},
		{"zero months", Options{}, "2025-02", 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(initial, tt.opts)
			months := w.Months()

			require.Len(t, months, tt.wantCount)
			assert.Equal(t, tt.wantFirst, months[0].String())
			assert.Len(t, w.VisibleMonths(), tt.wantVisible)
			assert.Equal(t, initial, w.VisibleMonths()[0])
		})
	}
}

func TestMonthDays(t *testing.T) {
	feb := dateutil.NewMonth(2025, time.February) // Saturday the 1st

	plain := MonthDays(feb, false, time.Monday)
	require.Len(t, plain, 28)
	assert.Equal(t, feb.FirstDay(), plain[0])
	assert.Equal(t, feb.LastDay(), plain[27])

	padded := MonthDays(feb, true, time.Monday)
	require.Zero(t, len(padded)%7, "padded month is whole weeks")
	assert.Equal(t, dateutil.NewDate(2025, time.January, 27), padded[0])
	assert.Equal(t, dateutil.NewDate(2025, time.March, 2), padded[len(padded)-1])

	sundayFirst := MonthDays(feb, true, time.Sunday)
	assert.Equal(t, dateutil.NewDate(2025, time.January, 26), sundayFirst[0])
}

func TestIsDayVisible(t *testing.T) {
	month := dateutil.NewMonth(2025, time.February)

	tests := []struct {
		name    string
		day     dateutil.Date
		n       int
		outside bool
		want    bool
	}{
		{"first of month", dateutil.NewDate(2025, 2, 1), 1, false, true},
		{"day before", dateutil.NewDate(2025, 1, 31), 1, false, false},
		{"day before with outside days", dateutil.NewDate(2025, 1, 31), 1, true, true},
		{"second month", dateutil.NewDate(2025, 3, 15), 2, false, true},
		{"beyond window", dateutil.NewDate(2025, 4, 1), 2, false, false},
		{"trailing outside day", dateutil.NewDate(2025, 4, 6), 2, true, true},
		{"zero date", dateutil.Date{}, 2, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDayVisible(tt.day, month, tt.n, tt.outside, time.Monday))
		})
	}
}

func TestNextAndPrev(t *testing.T) {
	initial := dateutil.NewMonth(2025, time.January)
	w := New(initial, Options{NumberOfMonths: 2})

	next, shift := w.Next()
	assert.Equal(t, initial.Add(1), next.CurrentMonth())
	assert.Equal(t, []dateutil.Month{initial.Add(-1)}, shift.Dropped)
	assert.Equal(t, []dateutil.Month{initial.Add(3)}, shift.Entered)

	back, shift := next.Prev()
	assert.Equal(t, initial, back.CurrentMonth())
	assert.Equal(t, []dateutil.Month{initial.Add(-1)}, shift.Entered)
	assert.Equal(t, []dateutil.Month{initial.Add(3)}, shift.Dropped)
	assert.Equal(t, w.Months(), back.Months(), "Prev undoes Next")
}

func TestLoadMore(t *testing.T) {
	initial := dateutil.NewMonth(2025, time.January)

	scroll := New(initial, Options{NumberOfMonths: 2, Orientation: VerticalScrollable})
	more, shift := scroll.LoadMore()
	assert.Len(t, more.Months(), 4)
	assert.Len(t, shift.Entered, 2)
	assert.Empty(t, shift.Dropped)
	assert.Equal(t, initial, more.CurrentMonth(), "scrollable LoadMore keeps the current month")
	assert.True(t, more.IsVisible(dateutil.NewDate(2025, time.April, 30)), "appended months are visible")

	paged := New(initial, Options{NumberOfMonths: 2})
	slid, shift := paged.LoadMore()
	assert.Equal(t, initial.Add(1), slid.CurrentMonth(), "paged LoadMore slides one month")
	assert.Len(t, shift.Entered, 1)
}

func TestContainsIncludesTransitionMonths(t *testing.T) {
	w := New(dateutil.NewMonth(2025, time.March), Options{NumberOfMonths: 1})

	hidden := dateutil.NewDate(2025, time.February, 10)
	assert.True(t, w.Contains(hidden), "transition month days are loaded")
	assert.False(t, w.IsVisible(hidden), "transition month days are hidden")
	assert.Equal(t, dateutil.NewDate(2025, time.March, 31), w.LastVisibleDay())
}

func TestParseOrientation(t *testing.T) {
	for in, want := range map[string]Orientation{
		"":                    Horizontal,
		"horizontal":          Horizontal,
		"vertical":            Vertical,
		"verticalScrollable":  VerticalScrollable,
		"vertical-scrollable": VerticalScrollable,
	} {
		got, err := ParseOrientation(in)
		assert.NoError(t, err, "ParseOrientation(%q)", in)
		assert.Equal(t, want, got, "ParseOrientation(%q)", in)
	}

	_, err := ParseOrientation("diagonal")
	assert.Error(t, err)
}
