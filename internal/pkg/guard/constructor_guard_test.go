package guard_test

import (
	"errors"
	"testing"

	"takeout/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// When
		err := g.Validate(errors.New("not constructed"))

		// Then
		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("command not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.ErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errCommandNotConstructed := errors.New("RejectCommand must be created via NewRejectCommand")

	type rejectCommand struct {
		reason string
		guard  guard.ConstructorGuard
	}

	newRejectCommand := func(reason string) (rejectCommand, error) {
		if reason == "" {
			return rejectCommand{}, errors.New("reason is required")
		}
		return rejectCommand{reason: reason, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_command_validates", func(t *testing.T) {
		cmd, err := newRejectCommand("out of stock")
		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))
	})

	t.Run("literal_command_fails", func(t *testing.T) {
		cmd := rejectCommand{reason: "out of stock"}
		assert.Equal(t, errCommandNotConstructed, cmd.guard.Validate(errCommandNotConstructed))
	})

	t.Run("guard_copies_keep_state", func(t *testing.T) {
		cmd, err := newRejectCommand("closed")
		require.NoError(t, err)
		cp := cmd
		require.NoError(t, cp.guard.Validate(errCommandNotConstructed))
	})
}
