package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/core/ports"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/metrics"

	"go.uber.org/zap"
)

// errAlreadyApplied lets a mutation report that the order is already past
// the requested step, which ends the handler without a write.
var errAlreadyApplied = errors.New("transition already applied")

// LatePaymentRefundReason is sent with refunds for payments that arrived
// after the order was cancelled.
const LatePaymentRefundReason = "payment received after cancellation"

// Lifecycle runs single-order transitions for the command handlers:
// load, mutate, conditional update, commit, then the post-commit effects
// (metrics, order-changed events, refunds).
type Lifecycle struct {
	uowFactory OrderUoWFactory
	gateway    ports.PaymentGateway
	publisher  ports.EventPublisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewLifecycle(
	uowFactory OrderUoWFactory,
	gateway ports.PaymentGateway,
	publisher ports.EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Lifecycle {
	return &Lifecycle{
		uowFactory: uowFactory,
		gateway:    gateway,
		publisher:  publisher,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock returns a copy that reads time from now.
func (l *Lifecycle) WithClock(now func() time.Time) *Lifecycle {
	c := *l
	c.now = now
	return &c
}

type (
	loader   func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error)
	mutation func(o *order.Order, now time.Time) error
)

func byID(id kernel.UUID) loader {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.Get(ctx, id)
	}
}

func byNumber(number order.Number) loader {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.GetByNumber(ctx, number)
	}
}

// ownedBy hides other users' orders behind a not-found error.
func ownedBy(id kernel.UUID, userID int64) loader {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		o, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !o.IsOwnedBy(userID) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return o, nil
	}
}

// transition applies mutate to the loaded order and writes it guarded by the
// status it was loaded in.
func (l *Lifecycle) transition(
	ctx context.Context,
	operation string,
	actor kernel.Actor,
	load loader,
	mutate mutation,
) error {
	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := load(ctx, repo)
	if err != nil {
		return err
	}

	expected := o.Status()
	if err = mutate(o, l.now()); err != nil {
		if errors.Is(err, errAlreadyApplied) {
			return nil
		}
		return err
	}

	if err = repo.Transition(ctx, actor, o, expected); err != nil {
		if errors.Is(err, errs.ErrConcurrentStateChange) {
			l.metrics.Conflicts.WithLabelValues(operation).Inc()
		}
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	l.afterCommit(context.WithoutCancel(ctx), uow.Changes(), o)
	return nil
}

func (l *Lifecycle) afterCommit(ctx context.Context, changes []ports.OrderChanged, o *order.Order) {
	for _, change := range changes {
		l.metrics.Transitions.WithLabelValues(change.From.String(), change.To.String()).Inc()
		if err := l.publisher.PublishOrderChanged(ctx, change); err != nil {
			l.logger.Warn("publish order changed failed",
				zap.String("order_number", change.Number.String()),
				zap.Stringer("to", change.To),
				zap.Error(err),
			)
		}
	}

	if o.RequiresRefund() {
		l.requestRefund(ctx, o)
	}
}

func (l *Lifecycle) requestRefund(ctx context.Context, o *order.Order) {
	reason := o.RejectionReason()
	if reason == "" {
		reason = o.CancelReason()
	}
	l.sendRefund(ctx, o, reason)
}

// refundLatePayment hands back money that arrived after the order was
// cancelled unpaid. The order itself stays cancelled and is not written.
func (l *Lifecycle) refundLatePayment(ctx context.Context, o *order.Order) {
	l.metrics.LatePayments.Inc()
	l.logger.Error("payment received for cancelled order",
		zap.String("order_number", o.Number().String()),
		zap.Stringer("amount", o.Amount()),
		zap.String("cancel_reason", o.CancelReason()),
	)
	l.sendRefund(ctx, o, LatePaymentRefundReason)
}

func (l *Lifecycle) sendRefund(ctx context.Context, o *order.Order, reason string) {
	err := l.gateway.RequestRefund(ctx, ports.RefundRequest{
		OrderID: o.ID(),
		Number:  o.Number(),
		Amount:  o.Amount(),
		Reason:  reason,
	})
	if err != nil {
		l.metrics.RefundRequests.WithLabelValues(metrics.RefundFailed).Inc()
		l.logger.Error("refund needs manual follow-up",
			zap.String("order_number", o.Number().String()),
			zap.Stringer("amount", o.Amount()),
			zap.Error(fmt.Errorf("%w: %w", ErrRefundRequestFailed, err)),
		)
		return
	}

	l.metrics.RefundRequests.WithLabelValues(metrics.RefundRequested).Inc()
}
