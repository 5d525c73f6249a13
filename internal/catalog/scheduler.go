package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler runs SyncAll on a cron schedule. A tick that fires while the
// previous run is still going is skipped.
type Scheduler struct {
	cron    *cron.Cron
	syncer  *Syncer
	folders Folders
	log     *slog.Logger

	// jobCtx is the context passed to Run; cancelling it aborts a
	// scheduled sync between items.
	jobCtx context.Context
}

// NewScheduler parses spec (standard five-field cron or a descriptor such
// as "@every 1h") and registers the sync job.
func NewScheduler(spec string, syncer *Syncer, folders Folders, logger *slog.Logger) (*Scheduler, error) {
	log := logger.With("component", "scheduler")
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger{log}),
			cron.SkipIfStillRunning(cronLogger{log}),
		)),
		syncer:  syncer,
		folders: folders,
		log:     log,
		jobCtx:  context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the scheduler and blocks until ctx is cancelled. A sync in
// flight at that point runs under ctx too, so it stops at the next item and
// records a failed run; Run returns once it has.
func (s *Scheduler) Run(ctx context.Context) error {
	s.jobCtx = ctx
	s.cron.Start()
	s.log.Info("sync scheduler started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("sync scheduler stopped")
	return nil
}

func (s *Scheduler) run() {
	ctx := s.jobCtx
	if ctx.Err() != nil {
		return
	}
	res := s.syncer.SyncAll(ctx, s.folders)
	for kind, r := range map[string]*Result{"movies": res.Movies, "series": res.Series} {
		if r != nil && r.Err != nil {
			s.log.Warn("scheduled sync failed", "kind", kind, "error", r.Err)
		}
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
