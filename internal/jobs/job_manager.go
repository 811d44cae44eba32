package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/ports"
	"takeout/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepConfig holds the timeouts and how often each bucket is swept.
type SweepConfig struct {
	UnpaidTimeout    time.Duration
	UnpaidInterval   time.Duration
	DeliveryTimeout  time.Duration
	DeliveryInterval time.Duration
}

// JobManager coordinates the scheduled sweeps.
type JobManager struct {
	cron   *cron.Cron
	jobs   []*SweepJob
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewJobManager(
	cfg SweepConfig,
	handler sweeper,
	lock ports.SweepLock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *JobManager {
	cronLog := newCronLogger(logger.With(zap.String("component", "scheduler")))
	ctx, cancel := context.WithCancel(context.Background())

	return &JobManager{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		jobs: []*SweepJob{
			NewUnpaidSweepJob(cfg.UnpaidInterval, cfg.UnpaidTimeout, handler, lock, m, logger),
			NewDeliverySweepJob(cfg.DeliveryInterval, cfg.DeliveryTimeout, handler, lock, m, logger),
		},
		logger: logger.With(zap.String("component", "job_manager")),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Jobs returns the managed jobs.
func (jm *JobManager) Jobs() []*SweepJob {
	return jm.jobs
}

// StartAll schedules every job and starts the scheduler.
func (jm *JobManager) StartAll() error {
	for _, job := range jm.jobs {
		if job.Interval() <= 0 {
			return fmt.Errorf("job %s: interval must be positive, got %s", job.Name(), job.Interval())
		}
	}

	for _, job := range jm.jobs {
		jm.cron.Schedule(cron.Every(job.Interval()), cron.FuncJob(func() {
			job.tick(jm.ctx)
		}))
		jm.logger.Info("job scheduled", zap.String("job", job.Name()), zap.Duration("every", job.Interval()))
	}

	jm.cron.Start()
	return nil
}

// StopAll stops the scheduler and waits for running passes to finish.
func (jm *JobManager) StopAll() {
	<-jm.cron.Stop().Done()
	jm.cancel()
	jm.logger.Info("jobs stopped")
}

// RunOnce runs every job immediately, one after another.
func (jm *JobManager) RunOnce(ctx context.Context) error {
	var errList []error
	for _, job := range jm.jobs {
		result, err := job.Run(ctx)
		if err != nil {
			errList = append(errList, fmt.Errorf("%s sweep: %w", job.Name(), err))
			continue
		}
		jm.logger.Info("sweep done",
			zap.String("job", job.Name()),
			zap.Int("found", result.Found),
			zap.Int("transitioned", result.Transitioned),
			zap.Int("conflicts", result.Conflicts),
			zap.Int("failed", result.Failed),
		)
	}
	return errors.Join(errList...)
}
