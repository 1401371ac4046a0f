package main

import (
	"errors"
	"fmt"

	"github.com/username/rangepicker/internal/calendar"
	"github.com/username/rangepicker/internal/config"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/session"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// picker is a controller restored from the saved session
type picker struct {
	cfg        *config.Config
	source     *calendar.Source
	controller *engine.Controller
	sessions   *session.Manager
}

// buildAvailability merges every configured source into one calendar
func buildAvailability(cfg *config.Config, today dateutil.Date) (*calendar.Source, error) {
	loc := cfg.Picker.GetLocation()
	composite := calendar.NewCompositeCalendar(logger)

	if cfg.Availability.File != "" {
		composite.Add(calendar.NewFileCalendar(cfg.Availability.File, logger))
	}
	if len(cfg.Availability.ICSFiles) > 0 {
		composite.Add(calendar.NewICSCalendar(cfg.Availability.ICSFiles, loc, logger))
	}
	if rules := cfg.Availability.GetRules(); len(rules) > 0 {
		rc, err := calendar.NewRuleCalendar(rules, today, loc, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build availability rules: %w", err)
		}
		composite.Add(rc)
	}
	if h := cfg.Availability.Holidays; h.Enabled {
		logger.Info("Using holiday calendar API", zap.String("url", h.URL))
		composite.Add(calendar.NewHolidayCalendar(h.URL, h.Country, h.Block, h.GetCacheTTL(), logger))
	}

	src := calendar.NewSource(composite, cfg.GetPolicy(), logger)
	if err := src.Load(); err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	logger.Debug("Availability ready", zap.Int("sources", composite.Len()))
	return src, nil
}

// openPicker restores the saved session, or starts a fresh one focused on
// the start date, and rolls today over if the session is from an earlier day.
func openPicker(cfg *config.Config) (*picker, error) {
	today := dateutil.TodayIn(cfg.Picker.GetLocation())

	src, err := buildAvailability(cfg, today)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(cfg.Session.StateFile, logger)
	snap := session.Snapshot{
		Selection: engine.Selection{FocusedInput: engine.FocusStartDate},
		Today:     today,
	}
	switch err := sessions.Load(); {
	case err == nil:
		if snap, err = sessions.GetCurrentState().Snapshot(); err != nil {
			return nil, fmt.Errorf("failed to restore session: %w", err)
		}
		if sessions.IsNewDay(today) {
			logger.Info("Session was saved on an earlier day",
				zap.String("session_today", sessions.GetCurrentState().Today),
				zap.Stringer("today", today))
		}
	case errors.Is(err, session.ErrNoSession):
		logger.Debug("No saved session, starting fresh")
	default:
		return nil, err
	}
	if snap.Today.IsZero() {
		snap.Today = today
	}

	initial := snap.CurrentMonth
	if initial.IsZero() {
		initial = cfg.Picker.GetInitialMonth()
	}

	startOffset, endOffset := cfg.Picker.GetDateOffsets()
	c := engine.NewController(engine.Config{
		Window: cfg.Picker.GetWindowOptions(),
		Bounds: engine.Bounds{
			MinDate: cfg.Picker.GetMinDate(),
			MaxDate: cfg.Picker.GetMaxDate(),
		},
		Click:        cfg.Picker.GetClickOptions(),
		InitialMonth: initial,
	}, engine.Inputs{
		Selection:                          snap.Selection,
		Hover:                              snap.Hover,
		Today:                              snap.Today,
		MinimumNights:                      cfg.Picker.MinimumNights,
		DaysViolatingMinNightsCanBeClicked: cfg.Picker.DaysViolatingMinNightsCanBeClicked,
		Predicates:                         src.Predicates(snap.Today),
		StartDateOffset:                    startOffset,
		EndDateOffset:                      endOffset,
	}, logger)

	if c.Tick(today) {
		c.SetPredicates(src.Predicates(today))
	}

	return &picker{cfg: cfg, source: src, controller: c, sessions: sessions}, nil
}

// save records the controller state into the session file
func (p *picker) save() error {
	p.sessions.Record(session.SnapshotOf(p.controller))
	if err := p.sessions.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
