package kernel_test

import (
	"testing"

	"takeout/internal/core/domain/model/kernel"
	"takeout/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		fen int64
	}{
		{"45", 4500},
		{"45.5", 4550},
		{"45.00", 4500},
		{"0.01", 1},
		{" 2.00 ", 200},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			m, err := kernel.ParseMoney(tc.in)

			require.NoError(t, err)
			assert.Equal(t, tc.fen, m.Fen())
		})
	}

	t.Run("should reject bad input", func(t *testing.T) {
		for _, in := range []string{"", "1.234", "1.", "abc", "-3.00", "1.-5"} {
			_, err := kernel.ParseMoney(in)
			require.Error(t, err, in)
		}
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustParseMoney("22.50")

	total := price.Times(2).Add(kernel.MustParseMoney("2.00"))

	assert.Equal(t, "47.00", total.String())
	assert.True(t, total.IsEqual(kernel.MustParseMoney("47")))
	assert.True(t, price.Times(-1).IsZero())
}

func TestNewMoney_Negative(t *testing.T) {
	_, err := kernel.NewMoney(-1)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestActor(t *testing.T) {
	t.Run("system actor", func(t *testing.T) {
		assert.True(t, kernel.SystemActor.IsSystem())
		assert.Equal(t, int64(0), kernel.SystemActor.UserID())
		assert.Equal(t, "system", kernel.SystemActor.String())
	})

	t.Run("user actor", func(t *testing.T) {
		a, err := kernel.UserActor(7)

		require.NoError(t, err)
		assert.False(t, a.IsSystem())
		assert.Equal(t, "user:7", a.String())
	})

	t.Run("rejects non positive ids", func(t *testing.T) {
		_, err := kernel.UserActor(0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
