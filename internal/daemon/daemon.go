package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/username/rangepicker/internal/engine"
	"github.com/username/rangepicker/internal/session"
	"github.com/username/rangepicker/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultSchedule checks for a rollover once a minute
const DefaultSchedule = "@every 1m"

// Availability supplies predicates for a given today. Load refreshes the
// underlying calendar.
type Availability interface {
	Load() error
	Predicates(today dateutil.Date) engine.Predicates
}

// Options configure the watch daemon
type Options struct {
	Schedule string
	Location *time.Location
	// Reload re-reads availability on every run
	Reload bool
}

// Daemon keeps a controller's today tag and availability current on a cron
// schedule and persists the session whenever something moved.
type Daemon struct {
	controller   *engine.Controller
	availability Availability
	sessions     *session.Manager
	schedule     string
	location     *time.Location
	reload       bool
	logger       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	cron   *cron.Cron
	now    func() time.Time

	mu          sync.Mutex // serializes runs
	running     bool
	lastRunDate dateutil.Date
	lastRunTime time.Time
	runs        int
}

// NewDaemon creates a new daemon instance. sessions may be nil.
func NewDaemon(controller *engine.Controller, availability Availability, sessions *session.Manager, opts Options, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	schedule := opts.Schedule
	if schedule == "" {
		schedule = DefaultSchedule
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Daemon{
		controller:   controller,
		availability: availability,
		sessions:     sessions,
		schedule:     schedule,
		location:     loc,
		reload:       opts.Reload,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
		cron:         cron.New(cron.WithLocation(loc)),
		now:          time.Now,
	}
}

// Start runs once immediately, then on schedule until Stop or a signal
func (d *Daemon) Start() error {
	if _, err := d.cron.AddFunc(d.schedule, d.scheduledRun); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", d.schedule, err)
	}

	d.logger.Info("Daemon started",
		zap.String("schedule", d.schedule),
		zap.String("timezone", d.location.String()))

	d.scheduledRun()
	d.cron.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-d.ctx.Done():
	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		d.Stop()
	}

	<-d.cron.Stop().Done()
	d.logger.Info("Daemon stopped")
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

func (d *Daemon) scheduledRun() {
	if err := d.RunOnce(); err != nil {
		d.logger.Error("Scheduled run failed", zap.Error(err))
	}
}

// RunOnce advances today, refreshes predicates and saves the session if the
// store changed. Concurrent calls are rejected.
func (d *Daemon) RunOnce() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		d.logger.Warn("Run already in progress, skipping concurrent execution")
		return fmt.Errorf("run already in progress")
	}
	d.running = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	today := dateutil.DateOf(d.now().In(d.location))

	if d.reload {
		if err := d.availability.Load(); err != nil {
			// Keep serving the last good availability
			d.logger.Warn("Failed to reload availability", zap.Error(err))
		}
	}

	rolled := d.controller.Tick(today)
	report := d.controller.SetPredicates(d.availability.Predicates(today))
	changed := rolled || report.Mutations > 0

	d.logger.Debug("Run completed",
		zap.Stringer("today", today),
		zap.Bool("rolled_over", rolled),
		zap.Int("mutations", report.Mutations))

	var err error
	if changed && d.sessions != nil {
		d.sessions.Record(session.SnapshotOf(d.controller))
		if err = d.sessions.Save(); err != nil {
			err = fmt.Errorf("failed to save session: %w", err)
		}
	}

	d.mu.Lock()
	d.lastRunDate = today
	d.lastRunTime = d.now()
	d.runs++
	d.mu.Unlock()

	return err
}

// GetStatus returns daemon status
func (d *Daemon) GetStatus() map[string]interface{} {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := map[string]interface{}{
		"schedule": d.schedule,
		"timezone": d.location.String(),
		"runs":     d.runs,
		"today":    d.controller.Inputs().Today.String(),
	}
	if !d.lastRunTime.IsZero() {
		status["last_run_date"] = d.lastRunDate.String()
		status["last_run_time"] = d.lastRunTime.Format(time.RFC3339)
	}
	if entries := d.cron.Entries(); len(entries) > 0 && !entries[0].Next.IsZero() {
		status["next_run"] = entries[0].Next.Format(time.RFC3339)
	}
	return status
}
