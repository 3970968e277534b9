package export

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/five82/stockpile/internal/state"
	"github.com/five82/stockpile/internal/view"
)

const scheduledRefreshTimeout = 30 * time.Second

// Cache is the Sync Cache as seen by the scheduler.
type Cache interface {
	Refresh(ctx context.Context)
	Snapshot() state.Snapshot
}

// Scheduler writes a timestamped dashboard report on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	exporter Exporter
	cache    Cache
	logger   *zap.Logger
}

// NewScheduler validates spec (standard 5-field cron or a descriptor such as
// "@daily") and registers the report job. Call Start to begin.
func NewScheduler(spec string, exporter Exporter, cache Cache, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:     cron.New(),
		spec:     spec,
		exporter: exporter,
		cache:    cache,
		logger:   logger.Named("export"),
	}
	if _, err := s.cron.AddFunc(spec, s.runJob); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start starts the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("starting export scheduler", zap.String("schedule", s.spec))
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping export scheduler")
	<-s.cron.Stop().Done()
}

// RunOnce refreshes the cache and saves a dashboard report ordered by
// priority. It is skipped while nothing has loaded.
func (s *Scheduler) RunOnce(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, scheduledRefreshTimeout)
	defer cancel()

	s.cache.Refresh(ctx)
	snap := s.cache.Snapshot()
	if snap.Loading() {
		return "", fmt.Errorf("no data loaded yet")
	}
	return s.exporter.DashboardSnapshot(view.SortByPriority(snap.Items))
}

func (s *Scheduler) runJob() {
	s.logger.Info("generating scheduled stock report")
	path, err := s.RunOnce(context.Background())
	if err != nil {
		s.logger.Error("scheduled stock report failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled stock report saved", zap.String("path", path))
}
