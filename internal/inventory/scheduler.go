package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AioliaTech/api-ia/internal/observability"
)

// DefaultSchedule refreshes shortly after midnight and noon.
const DefaultSchedule = "5 0,12 * * *"

// Scheduler runs a Refresher on a cron schedule in a fixed timezone.
type Scheduler struct {
	cron      *cron.Cron
	refresher *Refresher
	logger    *observability.Logger
	entry     cron.EntryID
	timeout   time.Duration
}

// NewScheduler parses spec and prepares a scheduler. Overlapping runs are
// skipped rather than queued.
func NewScheduler(refresher *Refresher, spec string, loc *time.Location, timeout time.Duration, logger *observability.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if loc == nil {
		loc = time.UTC
	}
	if spec == "" {
		spec = DefaultSchedule
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	s := &Scheduler{cron: c, refresher: refresher, logger: logger, timeout: timeout}

	id, err := c.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info().Msg("Scheduled inventory refresh starting")
	// Failures are logged by the refresher and the current snapshot stays.
	_, _ = s.refresher.Refresh(ctx)
}

// Start begins running in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Time("next_run", s.Next()).Msg("Inventory refresh scheduler started")
}

// Stop halts scheduling and waits for a running refresh, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// cronLogger adapts the service logger to cron.Logger.
type cronLogger struct {
	logger *observability.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Interface("details", keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Interface("details", keysAndValues).Msg("cron: " + msg)
}
