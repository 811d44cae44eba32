package kernel

import (
	"fmt"

	"takeout/internal/pkg/errs"
)

// Actor is whoever a write is performed for. Audit fields record it; there
// is no ambient "current user".
type Actor struct {
	userID int64
}

// SystemActor is used by background processes such as the timeout sweep.
var SystemActor = Actor{}

// UserActor returns an actor for a signed-in user or employee.
func UserActor(userID int64) (Actor, error) {
	if userID <= 0 {
		return Actor{}, errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%d is not a user id", userID))
	}
	return Actor{userID: userID}, nil
}

// UserID returns 0 for the system actor.
func (a Actor) UserID() int64 {
	return a.userID
}

func (a Actor) IsSystem() bool {
	return a.userID == 0
}

func (a Actor) String() string {
	if a.IsSystem() {
		return "system"
	}
	return fmt.Sprintf("user:%d", a.userID)
}
