package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader hands out queued messages. Once drained it calls stop and
// blocks until ctx is done.
type fakeReader struct {
	messages  []kafka.Message
	committed []int64
	closed    bool
	stop      context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		if r.stop != nil {
			r.stop()
		}
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type MockPaymentConfirmer struct{ mock.Mock }

func (m *MockPaymentConfirmer) Handle(ctx context.Context, cmd commands.ConfirmPaymentCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

func forNumber(n order.Number) any {
	return mock.MatchedBy(func(cmd commands.ConfirmPaymentCommand) bool {
		return cmd.Number() == n
	})
}

func TestPaymentConfirmedConsumer_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	paid, unknown, cancelled, flaky := order.NewNumber(), order.NewNumber(), order.NewNumber(), order.NewNumber()
	reader := &fakeReader{stop: cancel, messages: []kafka.Message{
		{Offset: 1, Value: []byte(`{"orderNumber":"` + paid.String() + `"}`)},
		{Offset: 2, Value: []byte(`not json`)},
		{Offset: 3, Value: []byte(`{"orderNumber":"nope"}`)},
		{Offset: 4, Value: []byte(`{"orderNumber":"` + unknown.String() + `"}`)},
		{Offset: 5, Value: []byte(`{"orderNumber":"` + cancelled.String() + `"}`)},
		{Offset: 6, Value: []byte(`{"orderNumber":"` + flaky.String() + `"}`)},
		{Offset: 7, Key: []byte(paid.String()), Value: []byte(`{}`)},
	}}

	handler := new(MockPaymentConfirmer)
	handler.On("Handle", mock.Anything, forNumber(paid)).Return(nil).Twice()
	handler.On("Handle", mock.Anything, forNumber(unknown)).Return(errs.NewObjectNotFoundError("order", unknown)).Once()
	handler.On("Handle", mock.Anything, forNumber(cancelled)).
		Return(errs.NewInvalidStateTransitionError(order.Cancelled, order.ToBeConfirmed)).Once()
	handler.On("Handle", mock.Anything, forNumber(flaky)).Return(errors.New("db down")).Twice()
	handler.On("Handle", mock.Anything, forNumber(flaky)).Return(nil).Once()

	consumer := NewPaymentConfirmedConsumer(reader, handler, zap.NewNop()).
		WithRetryBackOff(time.Millisecond, 5*time.Millisecond)
	err := consumer.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, reader.committed)
	handler.AssertExpectations(t)
	handler.AssertNumberOfCalls(t, "Handle", 7)

	require.NoError(t, consumer.Close())
	assert.True(t, reader.closed)
}

func TestPaymentConfirmedConsumer_Run_RetriesBeforeMovingOn(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	stuck, next := order.NewNumber(), order.NewNumber()
	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 10, Value: []byte(`{"orderNumber":"` + stuck.String() + `"}`)},
		{Offset: 11, Value: []byte(`{"orderNumber":"` + next.String() + `"}`)},
	}}

	attempts := 0
	handler := new(MockPaymentConfirmer)
	handler.On("Handle", mock.Anything, forNumber(stuck)).
		Return(errs.NewConcurrentStateChangeError(stuck.String(), order.PendingPayment)).
		Run(func(mock.Arguments) {
			attempts++
			if attempts == 3 {
				cancel()
			}
		})

	consumer := NewPaymentConfirmedConsumer(reader, handler, zap.NewNop()).
		WithRetryBackOff(time.Millisecond, 5*time.Millisecond)
	err := consumer.Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Empty(t, reader.committed)
	require.Len(t, reader.messages, 1)
	assert.Equal(t, int64(11), reader.messages[0].Offset)
	handler.AssertNotCalled(t, "Handle", mock.Anything, forNumber(next))
}

type failingReader struct{ fakeReader }

func (r *failingReader) FetchMessage(context.Context) (kafka.Message, error) {
	return kafka.Message{}, errors.New("broker unreachable")
}

func TestPaymentConfirmedConsumer_Run_FetchError(t *testing.T) {
	consumer := NewPaymentConfirmedConsumer(&failingReader{}, new(MockPaymentConfirmer), zap.NewNop())

	err := consumer.Run(t.Context())

	require.ErrorContains(t, err, "broker unreachable")
}
