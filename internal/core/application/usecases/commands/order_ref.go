package commands

import (
	"errors"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/guard"
)

// orderRef is the part every single-order command shares: which order, and
// on whose behalf the write happens.
type orderRef struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func newOrderRef(orderID kernel.UUID, actorID int64) (orderRef, error) {
	ref := orderRef{guard: guard.NewConstructorGuard()}

	actor, actorErr := kernel.UserActor(actorID)
	if err := errors.Join(orderID.Validate(), actorErr); err != nil {
		return orderRef{}, err
	}

	ref.orderID = orderID
	ref.actor = actor
	return ref, nil
}

func (r orderRef) OrderID() kernel.UUID {
	return r.orderID
}

// Actor is the user or employee issuing the command.
func (r orderRef) Actor() kernel.Actor {
	return r.actor
}
