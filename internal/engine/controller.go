package engine

import (
	"sync"

	"github.com/username/rangepicker/internal/modifiers"
	"github.com/username/rangepicker/internal/window"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// Config holds the construction-time settings of a Controller
type Config struct {
	Window window.Options
	Bounds Bounds
	Click  ClickOptions
	// InitialMonth is the first visible month; zero picks one from the selection
	InitialMonth dateutil.Month
}

// Controller owns the live modifier store and applies every transition to it.
// Readers get immutable snapshots and may hold them across transitions.
type Controller struct {
	mu     sync.RWMutex
	logger *zap.Logger
	bounds Bounds
	click  ClickOptions
	in     Inputs
	win    window.Window
	store  *modifiers.Store
}

// NewController builds the window and the initial store
func NewController(cfg Config, in Inputs, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	initial := cfg.InitialMonth
	if initial.IsZero() {
		initial = InitialMonth(in.Selection, in.Today)
	}

	c := &Controller{
		logger: logger,
		bounds: cfg.Bounds,
		click:  cfg.Click,
		in:     in,
	}
	c.rebuild(window.New(initial, cfg.Window))
	return c
}

// Snapshot returns the current store
func (c *Controller) Snapshot() *modifiers.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

func (c *Controller) Inputs() Inputs {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.in
}

func (c *Controller) Window() window.Window {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.win
}

// Update moves the controller to next and returns what changed
func (c *Controller) Update(next Inputs) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transition(next)
}

func (c *Controller) transition(next Inputs) Report {
	store, report := applyTransition(c.in, next, c.store)
	c.in = next
	c.store = store

	if report.Changes != 0 {
		c.logger.Debug("Transition applied",
			zap.String("changes", report.Changes.String()),
			zap.Strings("rules", report.Rules),
			zap.Int("mutations", report.Mutations))
	}
	return report
}

// SetSelection applies new host selection props
func (c *Controller) SetSelection(sel Selection) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.in
	next.Selection = sel
	return c.transition(next)
}

// SetPredicates swaps the host predicate set
func (c *Controller) SetPredicates(p Predicates) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.in
	next.Predicates = p
	return c.transition(next)
}

func (c *Controller) SetMinimumNights(n int) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.in
	next.MinimumNights = max(n, 0)
	return c.transition(next)
}

// SetDateOffsets swaps the host offsets. Unset offsets turn offset
// selection off.
func (c *Controller) SetDateOffsets(start, end DateOffset) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.in
	next.StartDateOffset = start
	next.EndDateOffset = end
	return c.transition(next)
}

// HoverEnter records the pointer entering day
func (c *Controller) HoverEnter(day dateutil.Date) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.in
	next.Hover = day
	return c.transition(next)
}

// HoverLeave clears the hover if it is still on day. A late leave for a day
// that is no longer hovered does nothing.
func (c *Controller) HoverLeave(day dateutil.Date) Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.in.Hover != day {
		return Report{}
	}
	next := c.in
	next.Hover = dateutil.Date{}
	return c.transition(next)
}

// Click resolves a day click and applies the resulting selection
func (c *Controller) Click(day dateutil.Date) ClickResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	res := ResolveClick(day, c.in, c.click)
	if res.Ignored {
		c.logger.Debug("Click ignored", zap.Stringer("day", day))
		return res
	}

	next := c.in
	next.Selection = res.Selection
	report := c.transition(next)
	c.logger.Info("Day clicked",
		zap.Stringer("day", day),
		zap.Stringer("start", res.Selection.StartDate),
		zap.Stringer("end", res.Selection.EndDate),
		zap.Stringer("focus", res.Selection.FocusedInput),
		zap.Bool("closed", res.Closed),
		zap.Int("mutations", report.Mutations))
	return res
}

// Tick moves the today tag when the calendar day has rolled over
func (c *Controller) Tick(today dateutil.Date) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.in.Today == today {
		return false
	}
	previous := c.in.Today
	next := c.in
	next.Today = today
	c.transition(next)
	c.logger.Info("Today rolled over",
		zap.Stringer("previous", previous),
		zap.Stringer("current", today))
	return true
}

// CanNavigatePrev is false once MinDate is on screen
func (c *Controller) CanNavigatePrev() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.boundVisible(c.bounds.MinDate)
}

// CanNavigateNext is false once MaxDate is on screen
func (c *Controller) CanNavigateNext() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.boundVisible(c.bounds.MaxDate)
}

func (c *Controller) boundVisible(bound dateutil.Date) bool {
	return !bound.IsZero() && c.win.IsVisible(bound)
}

// NextMonth slides the window forward. It returns false when MaxDate blocks it.
func (c *Controller) NextMonth() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.boundVisible(c.bounds.MaxDate) {
		return false
	}
	c.shift(c.win.Next())
	return true
}

// PrevMonth slides the window back. It returns false when MinDate blocks it.
func (c *Controller) PrevMonth() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.boundVisible(c.bounds.MinDate) {
		return false
	}
	c.shift(c.win.Prev())
	return true
}

// LoadMoreMonths pages forward: a full screen of months when scrollable,
// otherwise one month.
func (c *Controller) LoadMoreMonths() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.win.Options().Scrollable() && c.boundVisible(c.bounds.MaxDate) {
		return false
	}
	c.shift(c.win.LoadMore())
	return true
}

func (c *Controller) shift(w window.Window, s window.Shift) {
	store := c.store
	for _, m := range s.Dropped {
		store = store.DropMonth(m)
	}
	for _, m := range s.Entered {
		store = putMonth(store, w, m, c.in)
	}
	c.win = w
	c.store = store

	c.logger.Debug("Window shifted",
		zap.Stringer("current_month", w.CurrentMonth()),
		zap.Int("entered", len(s.Entered)),
		zap.Int("dropped", len(s.Dropped)))
}

// SetWindowOptions changes numberOfMonths, orientation, outside days or the
// first day of week. The store is rebuilt from scratch.
func (c *Controller) SetWindowOptions(opts window.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuild(window.New(c.win.CurrentMonth(), opts))
}

// Reset rebuilds the window starting at month
func (c *Controller) Reset(month dateutil.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuild(window.New(month, c.win.Options()))
}

func (c *Controller) rebuild(w window.Window) {
	c.win = w
	c.store = RebuildWindow(w, c.in)
	c.logger.Debug("Window rebuilt",
		zap.Stringer("current_month", w.CurrentMonth()),
		zap.Int("months", len(w.Months())))
}

// FirstFocusableDay resolves the landing day for keyboard navigation in month
func (c *Controller) FirstFocusableDay(month dateutil.Month) (dateutil.Date, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return FirstFocusableDay(month, c.in, c.win.Options().NumberOfMonths)
}

// Verify compares the live store with a full rebuild and returns the days
// that disagree.
func (c *Controller) Verify() []dateutil.Date {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Diff(RebuildWindow(c.win, c.in))
}
