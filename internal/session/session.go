package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// ErrNoSession is returned by Load when no session has been saved yet
var ErrNoSession = errors.New("no saved session")

// State represents a persisted picker session
type State struct {
	ID           string `json:"id"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	FocusedInput string `json:"focused_input"`
	Hover        string `json:"hover,omitempty"`
	CurrentMonth string `json:"current_month"`
	Today        string `json:"today"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Snapshot is the typed picker state a session stores
type Snapshot struct {
	Selection    engine.Selection
	Hover        dateutil.Date
	CurrentMonth dateutil.Month
	Today        dateutil.Date
}

// SnapshotOf captures the state of a live controller
func SnapshotOf(c *engine.Controller) Snapshot {
	in := c.Inputs()
	return Snapshot{
		Selection:    in.Selection,
		Hover:        in.Hover,
		CurrentMonth: c.Window().CurrentMonth(),
		Today:        in.Today,
	}
}

// Snapshot parses the stored fields
func (s *State) Snapshot() (Snapshot, error) {
	var snap Snapshot
	var err error

	if snap.Selection.StartDate, err = optionalDate(s.StartDate); err != nil {
		return snap, fmt.Errorf("start_date: %w", err)
	}
	if snap.Selection.EndDate, err = optionalDate(s.EndDate); err != nil {
		return snap, fmt.Errorf("end_date: %w", err)
	}
	if snap.Selection.FocusedInput, err = engine.ParseFocusedInput(s.FocusedInput); err != nil {
		return snap, fmt.Errorf("focused_input: %w", err)
	}
	if snap.Hover, err = optionalDate(s.Hover); err != nil {
		return snap, fmt.Errorf("hover: %w", err)
	}
	if snap.Today, err = optionalDate(s.Today); err != nil {
		return snap, fmt.Errorf("today: %w", err)
	}
	if s.CurrentMonth != "" {
		if snap.CurrentMonth, err = dateutil.ParseMonth(s.CurrentMonth); err != nil {
			return snap, fmt.Errorf("current_month: %w", err)
		}
	}
	return snap, nil
}

func optionalDate(s string) (dateutil.Date, error) {
	if s == "" {
		return dateutil.Date{}, nil
	}
	return dateutil.ParseDate(s)
}

func formatDate(d dateutil.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// Manager manages the session state file
type Manager struct {
	stateFile string
	state     *State
	logger    *zap.Logger
}

// NewManager creates a new session manager
func NewManager(stateFile string, logger *zap.Logger) *Manager {
	return &Manager{
		stateFile: stateFile,
		logger:    logger,
	}
}

// Load loads the session from file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = nil
			return ErrNoSession
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.ID == "" {
		return fmt.Errorf("state file has no session id")
	}

	m.state = &state
	m.logger.Info("Session loaded",
		zap.String("session_id", state.ID),
		zap.String("start_date", state.StartDate),
		zap.String("end_date", state.EndDate))

	return nil
}

// Save saves the session to file
func (m *Manager) Save() error {
	if m.state == nil {
		return ErrNoSession
	}

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(m.stateFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	if err := os.WriteFile(m.stateFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	m.logger.Info("Session saved",
		zap.String("session_id", m.state.ID),
		zap.String("current_month", m.state.CurrentMonth))

	return nil
}

// Start begins a new session with a fresh ID
func (m *Manager) Start(snap Snapshot) *State {
	now := time.Now().Format(time.RFC3339)
	m.state = &State{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	m.Record(snap)

	m.logger.Info("Session started", zap.String("session_id", m.state.ID))
	return m.state
}

// Record stores snap into the current session
func (m *Manager) Record(snap Snapshot) {
	if m.state == nil {
		m.Start(snap)
		return
	}
	m.state.StartDate = formatDate(snap.Selection.StartDate)
	m.state.EndDate = formatDate(snap.Selection.EndDate)
	m.state.FocusedInput = snap.Selection.FocusedInput.String()
	m.state.Hover = formatDate(snap.Hover)
	m.state.Today = formatDate(snap.Today)
	m.state.CurrentMonth = ""
	if !snap.CurrentMonth.IsZero() {
		m.state.CurrentMonth = snap.CurrentMonth.String()
	}
	m.state.UpdatedAt = time.Now().Format(time.RFC3339)
}

// IsNewDay checks if today differs from the day the session last saw
func (m *Manager) IsNewDay(today dateutil.Date) bool {
	if m.state == nil {
		return true
	}
	return m.state.Today != formatDate(today)
}

// Remove deletes the session file
func (m *Manager) Remove() error {
	m.state = nil
	if err := os.Remove(m.stateFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove state file: %w", err)
	}
	m.logger.Info("Session removed", zap.String("file", m.stateFile))
	return nil
}

// GetCurrentState returns current state
func (m *Manager) GetCurrentState() *State {
	return m.state
}

// StateFile returns the path the session is saved to
func (m *Manager) StateFile() string {
	return m.stateFile
}
