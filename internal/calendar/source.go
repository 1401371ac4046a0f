package calendar

import (
	"sync"

	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// Source hands out predicate sets over one calendar and bumps the revision
// every time the calendar is reloaded.
type Source struct {
	cal    Calendar
	policy Policy
	logger *zap.Logger

	mu       sync.Mutex
	revision uint64
}

// NewSource creates a source at revision 1
func NewSource(cal Calendar, policy Policy, logger *zap.Logger) *Source {
	return &Source{cal: cal, policy: policy, logger: logger, revision: 1}
}

// Load reloads the calendar when it is file backed. The revision changes
// even when nothing was loaded so cached months are dropped.
func (s *Source) Load() error {
	if loader, ok := s.cal.(interface{ Load() error }); ok {
		if err := loader.Load(); err != nil {
			return err
		}
	}
	if cached, ok := s.cal.(interface{ ClearCache() }); ok {
		cached.ClearCache()
	}

	s.mu.Lock()
	s.revision++
	s.mu.Unlock()
	return nil
}

// Revision returns the current calendar revision
func (s *Source) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Predicates returns the predicate set for today at the current revision
func (s *Source) Predicates(today dateutil.Date) engine.Predicates {
	return Predicates(s.cal, s.policy, today, s.Revision(), s.logger)
}
