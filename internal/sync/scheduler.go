package sync

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/renderinc/practice-blog/internal/logging"
)

// Syncer is what the scheduler runs on every tick.
type Syncer interface {
	Sync(ctx context.Context) (*Stats, error)
}

// Scheduler runs a Syncer on a cron schedule. A run that is still going when
// the next tick arrives makes that tick a no-op.
type Scheduler struct {
	cron   *cron.Cron
	syncer Syncer
	logger logging.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler parses spec (standard five-field cron) and prepares the job.
func NewScheduler(spec string, syncer Syncer, logger logging.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = logging.NoOp()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{logger}),
			cron.SkipIfStillRunning(cronLogger{logger}),
		)),
		syncer: syncer,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.logger.Info("sync scheduler started")
	s.cron.Start()
}

// Stop cancels a running sync and waits for it to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("sync scheduler stop timed out")
	}
}

func (s *Scheduler) run() {
	if _, err := s.syncer.Sync(s.ctx); err != nil {
		s.logger.Error("scheduled sync failed", "error", err)
	}
}

// cronLogger adapts logging.Logger to cron.Logger
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
