package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/rangepicker/internal/modifiers"
	"go.uber.org/zap"
)

func TestRunBookingScenario(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	s, err := Load("testdata/booking.yaml")
	require.NoError(t, err)

	result, err := NewRunner(true, logger).Run(s)
	require.NoError(t, err)

	require.Len(t, result.Steps, len(s.Steps))
	assert.Equal(t, "click", result.Steps[0].Action)
	assert.NotEmpty(t, result.Steps[0].Changed, "first click changes days")
	assert.Equal(t, "focus", result.Steps[4].Action)
	assert.Equal(t, "2025-05", result.Controller.Window().CurrentMonth().String())
}

func TestRunReportsFailedExpectation(t *testing.T) {
	s, err := Parse([]byte(`
today: 2025-03-01
selection:
  focus: start
steps:
  - click: 2025-03-10
    expect:
      2025-03-10: [selected-end]
`))
	require.NoError(t, err)

	_, err = NewRunner(false, zap.NewNop()).Run(s)
	var expErr *ExpectationError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, 1, expErr.Step)
	assert.Equal(t, modifiers.TagSelectedEnd, expErr.Tag)
	assert.True(t, expErr.Present)
}

func TestRunNavigationBound(t *testing.T) {
	s, err := Parse([]byte(`
today: 2025-03-01
month: 2025-03
picker:
  max_date: 2025-04-15
steps:
  - next: 3
`))
	require.NoError(t, err)

	_, err = NewRunner(false, zap.NewNop()).Run(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot navigate")
}

func TestRunWeekOffsets(t *testing.T) {
	s, err := Parse([]byte(`
name: one click books a week
today: 2025-03-01
month: 2025-03
outside_range: none
picker:
  number_of_months: 1
  end_date_offset: 6
selection:
  focus: start
steps:
  - hover: 2025-03-10
    expect:
      2025-03-10: [hovered-offset]
      2025-03-16: [hovered-offset]
    absent:
      2025-03-10: [hovered]
      2025-03-17: [hovered-offset]
  - click: 2025-03-10
    expect:
      2025-03-10: [selected-start]
      2025-03-16: [selected-end]
    absent:
      2025-03-12: [hovered-offset]
`))
	require.NoError(t, err)

	_, err = NewRunner(true, zap.NewNop()).Run(s)
	assert.NoError(t, err)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"missing today", "steps: []\n", "today is required"},
		{"bad today", "today: someday\n", "today"},
		{"two actions", "today: 2025-03-01\nsteps:\n  - hover: 2025-03-02\n    click: 2025-03-02\n", "more than one action"},
		{"unknown tag", "today: 2025-03-01\nsteps:\n  - hover: 2025-03-02\n    expect:\n      2025-03-02: [sparkly]\n", "unknown tag"},
		{"unknown field", "today: 2025-03-01\ncolour: blue\n", "colour"},
		{"bad focus", "today: 2025-03-01\nselection:\n  focus: middle\n", "selection.focus"},
		{"bad orientation", "today: 2025-03-01\npicker:\n  orientation: sideways\n", "picker.orientation"},
		{"negative nights", "today: 2025-03-01\nsteps:\n  - set:\n      minimum_nights: -2\n", "minimum_nights"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestStepAction(t *testing.T) {
	tests := []struct {
		step Step
		want string
	}{
		{Step{}, "check"},
		{Step{Hover: "2025-03-01"}, "hover"},
		{Step{Next: 1}, "next"},
		{Step{Set: &Settings{}}, "set"},
		{Step{Hover: "2025-03-01", Next: 1}, "hover+next"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.step.Action())
	}
}
