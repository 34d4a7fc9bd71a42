package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/money-game-backend/internal/economy"
)

func TestErrorMatchesByCode(t *testing.T) {
	err := newError(CodeWrongPhase, "PRIZE_DRAW is not the active phase")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.NotErrorIs(t, err, ErrAlreadyLocked)
	assert.Equal(t, CodeWrongPhase, CodeOf(fmt.Errorf("lobby: %w", err)))
	assert.Equal(t, Code(""), CodeOf(errors.New("boom")))
}

func TestWrapEconomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{name: "negative amount", err: economy.ErrNegativeAmount, want: CodeInvalidAmount},
		{name: "player short of money", err: economy.ErrInsufficientFunds, want: CodeInsufficient},
		{name: "pool empty", err: economy.ErrInsufficientPool, want: CodeInsufficient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := wrapEconomy(tc.err)
			require.Error(t, err)
			assert.Equal(t, tc.want, CodeOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	assert.NoError(t, wrapEconomy(nil))
	foreign := errors.New("disk on fire")
	assert.Same(t, foreign, wrapEconomy(foreign))
}
