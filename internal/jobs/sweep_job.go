package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ErrSweepLocked is returned by a pass that found the lease held elsewhere.
var ErrSweepLocked = errors.New("sweep lease is held by another instance")

type sweeper interface {
	Handle(ctx context.Context, cmd commands.SweepTimedOutOrdersCommand) (commands.SweepResult, error)
}

type commandFactory func(cutoff time.Time) (commands.SweepTimedOutOrdersCommand, error)

// SweepJob is one timeout bucket: which orders it picks, how often it runs
// and how old an order must be.
type SweepJob struct {
	name       string
	interval   time.Duration
	timeout    time.Duration
	newCommand commandFactory
	handler    sweeper
	lock       ports.SweepLock
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewUnpaidSweepJob cancels orders left unpaid for longer than timeout.
func NewUnpaidSweepJob(
	interval, timeout time.Duration,
	handler sweeper,
	lock ports.SweepLock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SweepJob {
	return newSweepJob(commands.SweepUnpaid, interval, timeout, commands.NewSweepUnpaidOrdersCommand, handler, lock, m, logger)
}

// NewDeliverySweepJob completes deliveries running for longer than timeout.
func NewDeliverySweepJob(
	interval, timeout time.Duration,
	handler sweeper,
	lock ports.SweepLock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SweepJob {
	return newSweepJob(commands.SweepDelivery, interval, timeout, commands.NewSweepDeliveriesCommand, handler, lock, m, logger)
}

func newSweepJob(
	name string,
	interval, timeout time.Duration,
	newCommand commandFactory,
	handler sweeper,
	lock ports.SweepLock,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SweepJob {
	return &SweepJob{
		name:       name,
		interval:   interval,
		timeout:    timeout,
		newCommand: newCommand,
		handler:    handler,
		lock:       lock,
		metrics:    m,
		logger:     logger.With(zap.String("component", "sweep_job"), zap.String("job", name)),
		now:        time.Now,
	}
}

func (j *SweepJob) Name() string {
	return j.name
}

func (j *SweepJob) Interval() time.Duration {
	return j.interval
}

// LeaseTTL is how long the sweep lease outlives a pass that never releases
// it. It spans two intervals, so a pass may overrun its slot once before
// another replica can start on the same bucket; past that, overlapping passes
// are still serialised per order by the conditional update.
func (j *SweepJob) LeaseTTL() time.Duration {
	return 2 * j.interval
}

// Run performs one pass. It returns ErrSweepLocked when another instance
// holds the lease.
func (j *SweepJob) Run(ctx context.Context) (commands.SweepResult, error) {
	ok, err := j.lock.TryLock(ctx, j.name, j.LeaseTTL())
	if err != nil {
		return commands.SweepResult{}, fmt.Errorf("take %s sweep lease: %w", j.name, err)
	}
	if !ok {
		j.metrics.SweepSkipped.WithLabelValues(j.name).Inc()
		return commands.SweepResult{}, ErrSweepLocked
	}

	defer func() {
		if unlockErr := j.lock.Unlock(context.WithoutCancel(ctx), j.name); unlockErr != nil {
			j.logger.Warn("release sweep lease failed", zap.Error(unlockErr))
		}
	}()

	started := j.now()
	cmd, err := j.newCommand(started.Add(-j.timeout))
	if err != nil {
		return commands.SweepResult{}, err
	}

	result, err := j.handler.Handle(ctx, cmd)
	j.metrics.SweepDuration.WithLabelValues(j.name).Observe(time.Since(started).Seconds())
	if err != nil {
		return result, err
	}

	if result.Found > 0 {
		j.logger.Info("sweep pass finished",
			zap.Int("found", result.Found),
			zap.Int("transitioned", result.Transitioned),
			zap.Int("conflicts", result.Conflicts),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}

// tick is the scheduled entry point; it only logs.
func (j *SweepJob) tick(ctx context.Context) {
	if _, err := j.Run(ctx); err != nil {
		if errors.Is(err, ErrSweepLocked) {
			j.logger.Debug("sweep skipped, lease held elsewhere")
			return
		}
		j.logger.Error("sweep pass failed", zap.Error(err))
	}
}
