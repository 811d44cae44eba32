package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type MockSweeper struct{ mock.Mock }

func (m *MockSweeper) Handle(ctx context.Context, cmd commands.SweepTimedOutOrdersCommand) (commands.SweepResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.SweepResult), args.Error(1)
}

type MockSweepLock struct{ mock.Mock }

func (m *MockSweepLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockSweepLock) Unlock(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func withCutoff(status order.Status, cutoff time.Time) any {
	return mock.MatchedBy(func(cmd commands.SweepTimedOutOrdersCommand) bool {
		return cmd.Status() == status && cmd.Cutoff().Equal(cutoff)
	})
}

func TestSweepJob_Run_Unpaid(t *testing.T) {
	ctx := t.Context()
	handler := new(MockSweeper)
	lock := new(MockSweepLock)
	m := metrics.NewNop()

	job := NewUnpaidSweepJob(time.Minute, 15*time.Minute, handler, lock, m, zap.NewNop())
	job.now = func() time.Time { return fixedNow }

	want := commands.SweepResult{Found: 2, Transitioned: 2}
	mock.InOrder(
		lock.On("TryLock", ctx, commands.SweepUnpaid, 2*time.Minute).Return(true, nil).Once(),
		handler.On("Handle", ctx, withCutoff(order.PendingPayment, fixedNow.Add(-15*time.Minute))).Return(want, nil).Once(),
		lock.On("Unlock", mock.Anything, commands.SweepUnpaid).Return(nil).Once(),
	)

	result, err := job.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, want, result)
	assert.Equal(t, 1, testutil.CollectAndCount(m.SweepDuration))
	handler.AssertExpectations(t)
	lock.AssertExpectations(t)
}

func TestSweepJob_Run_Delivery(t *testing.T) {
	ctx := t.Context()
	handler := new(MockSweeper)
	lock := new(MockSweepLock)

	job := NewDeliverySweepJob(time.Hour, time.Hour, handler, lock, metrics.NewNop(), zap.NewNop())
	job.now = func() time.Time { return fixedNow }

	mock.InOrder(
		lock.On("TryLock", ctx, commands.SweepDelivery, 2*time.Hour).Return(true, nil).Once(),
		handler.On("Handle", ctx, withCutoff(order.DeliveryInProgress, fixedNow.Add(-time.Hour))).
			Return(commands.SweepResult{}, nil).Once(),
		lock.On("Unlock", mock.Anything, commands.SweepDelivery).Return(nil).Once(),
	)

	_, err := job.Run(ctx)

	require.NoError(t, err)
	handler.AssertExpectations(t)
	lock.AssertExpectations(t)
}

func TestSweepJob_LeaseTTLOutlivesInterval(t *testing.T) {
	unpaid := NewUnpaidSweepJob(time.Minute, 15*time.Minute, new(MockSweeper), new(MockSweepLock), metrics.NewNop(), zap.NewNop())
	delivery := NewDeliverySweepJob(time.Hour, time.Hour, new(MockSweeper), new(MockSweepLock), metrics.NewNop(), zap.NewNop())

	assert.Greater(t, unpaid.LeaseTTL(), unpaid.Interval())
	assert.Equal(t, 2*time.Minute, unpaid.LeaseTTL())
	assert.Equal(t, 2*time.Hour, delivery.LeaseTTL())
}

func TestSweepJob_Run_LeaseHeldElsewhere(t *testing.T) {
	ctx := t.Context()
	handler := new(MockSweeper)
	lock := new(MockSweepLock)
	m := metrics.NewNop()

	job := NewUnpaidSweepJob(time.Minute, 15*time.Minute, handler, lock, m, zap.NewNop())
	lock.On("TryLock", ctx, commands.SweepUnpaid, 2*time.Minute).Return(false, nil).Once()

	_, err := job.Run(ctx)

	require.ErrorIs(t, err, ErrSweepLocked)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SweepSkipped.WithLabelValues(commands.SweepUnpaid)), 0)
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	lock.AssertNotCalled(t, "Unlock", mock.Anything, mock.Anything)
	lock.AssertExpectations(t)
}

func TestSweepJob_Run_LockError(t *testing.T) {
	ctx := t.Context()
	handler := new(MockSweeper)
	lock := new(MockSweepLock)

	job := NewUnpaidSweepJob(time.Minute, 15*time.Minute, handler, lock, metrics.NewNop(), zap.NewNop())
	lock.On("TryLock", ctx, commands.SweepUnpaid, 2*time.Minute).Return(false, errors.New("redis down")).Once()

	_, err := job.Run(ctx)

	require.ErrorContains(t, err, "redis down")
	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestSweepJob_Run_HandlerErrorReleasesLease(t *testing.T) {
	ctx := t.Context()
	handler := new(MockSweeper)
	lock := new(MockSweepLock)

	job := NewUnpaidSweepJob(time.Minute, 15*time.Minute, handler, lock, metrics.NewNop(), zap.NewNop())
	mock.InOrder(
		lock.On("TryLock", ctx, commands.SweepUnpaid, 2*time.Minute).Return(true, nil).Once(),
		handler.On("Handle", ctx, mock.Anything).Return(commands.SweepResult{}, errors.New("db down")).Once(),
		lock.On("Unlock", mock.Anything, commands.SweepUnpaid).Return(nil).Once(),
	)

	_, err := job.Run(ctx)

	require.ErrorContains(t, err, "db down")
	lock.AssertExpectations(t)
}

func TestJobManager_RunOnce(t *testing.T) {
	ctx := t.Context()
	handler := new(MockSweeper)
	lock := new(MockSweepLock)
	cfg := SweepConfig{
		UnpaidTimeout:    15 * time.Minute,
		UnpaidInterval:   time.Minute,
		DeliveryTimeout:  time.Hour,
		DeliveryInterval: time.Hour,
	}

	lock.On("TryLock", ctx, commands.SweepUnpaid, 2*time.Minute).Return(true, nil).Once()
	lock.On("TryLock", ctx, commands.SweepDelivery, 2*time.Hour).Return(false, nil).Once()
	lock.On("Unlock", mock.Anything, commands.SweepUnpaid).Return(nil).Once()
	handler.On("Handle", ctx, mock.MatchedBy(func(cmd commands.SweepTimedOutOrdersCommand) bool {
		return cmd.Job() == commands.SweepUnpaid
	})).Return(commands.SweepResult{Found: 1, Transitioned: 1}, nil).Once()

	jm := NewJobManager(cfg, handler, lock, metrics.NewNop(), zap.NewNop())
	err := jm.RunOnce(ctx)

	require.ErrorIs(t, err, ErrSweepLocked)
	require.ErrorContains(t, err, "delivery sweep")
	handler.AssertExpectations(t)
	lock.AssertExpectations(t)
}

func TestJobManager_StartStop(t *testing.T) {
	handler := new(MockSweeper)
	lock := new(MockSweepLock)
	lock.On("TryLock", mock.Anything, mock.Anything, mock.Anything).Return(false, nil).Maybe()

	jm := NewJobManager(SweepConfig{
		UnpaidTimeout:    time.Minute,
		UnpaidInterval:   time.Hour,
		DeliveryTimeout:  time.Minute,
		DeliveryInterval: time.Hour,
	}, handler, lock, metrics.NewNop(), zap.NewNop())

	require.NoError(t, jm.StartAll())
	assert.Len(t, jm.cron.Entries(), 2)
	jm.StopAll()
}

func TestJobManager_StartAll_RejectsBadInterval(t *testing.T) {
	jm := NewJobManager(SweepConfig{UnpaidInterval: time.Minute}, new(MockSweeper), new(MockSweepLock),
		metrics.NewNop(), zap.NewNop())

	require.Error(t, jm.StartAll())
	assert.Empty(t, jm.cron.Entries())
}
