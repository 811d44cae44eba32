package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"
	"takeout/internal/pkg/metrics"

	"go.uber.org/zap"
)

// SweepResult counts what one pass did.
type SweepResult struct {
	Found        int
	Transitioned int
	Conflicts    int
	Failed       int
}

// SweepTimedOutOrdersCommandHandler cancels unpaid orders and completes
// deliveries that ran past their timeout. Each order is moved in its own
// transaction; an order that changed under the sweep is skipped, not retried.
type SweepTimedOutOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	lifecycle  *Lifecycle
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewSweepTimedOutOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	lifecycle *Lifecycle,
	m *metrics.Metrics,
	logger *zap.Logger,
) SweepTimedOutOrdersCommandHandler {
	return SweepTimedOutOrdersCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle,
		metrics:    m,
		logger:     logger,
	}
}

// Handle only returns an error when the candidates cannot be listed.
// Per-order failures are logged and counted in the result.
func (h *SweepTimedOutOrdersCommandHandler) Handle(ctx context.Context, cmd SweepTimedOutOrdersCommand) (SweepResult, error) {
	if err := cmd.Validate(); err != nil {
		return SweepResult{}, err
	}

	ids, err := h.candidates(ctx, cmd)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Found: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		err = h.lifecycle.transition(ctx, "sweep_"+cmd.Job(), kernel.SystemActor, byID(id), sweepMutation(cmd.Status()))
		switch {
		case err == nil:
			result.Transitioned++
			h.metrics.SweptOrders.WithLabelValues(cmd.Job(), metrics.SweepTransitioned).Inc()
		case errors.Is(err, errs.ErrConcurrentStateChange), errors.Is(err, errs.ErrInvalidStateTransition):
			result.Conflicts++
			h.metrics.SweptOrders.WithLabelValues(cmd.Job(), metrics.SweepConflict).Inc()
			h.logger.Debug("order changed during sweep",
				zap.String("job", cmd.Job()),
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
		default:
			result.Failed++
			h.metrics.SweptOrders.WithLabelValues(cmd.Job(), metrics.SweepFailed).Inc()
			h.logger.Error("sweep order failed",
				zap.String("job", cmd.Job()),
				zap.String("order_id", id.String()),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

func (h *SweepTimedOutOrdersCommandHandler) candidates(ctx context.Context, cmd SweepTimedOutOrdersCommand) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ids, err := uow.OrderRepository().FindIDsByStatusBefore(ctx, cmd.Status(), cmd.Cutoff())
	if err != nil {
		return nil, fmt.Errorf("list %s orders before %s: %w", cmd.Status(), cmd.Cutoff().Format(time.RFC3339), err)
	}

	return ids, nil
}

func sweepMutation(status order.Status) mutation {
	if status == order.DeliveryInProgress {
		return func(o *order.Order, now time.Time) error {
			return o.CompleteDelivery(now)
		}
	}
	return func(o *order.Order, now time.Time) error {
		return o.CancelForPaymentTimeout(now)
	}
}
