package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayFromBank(t *testing.T) {
	cases := []struct {
		name     string
		bank     int
		amount   int
		wantPaid bool
		wantErr  error
		wantBank int
		wantCash int
	}{
		{name: "pays when bank covers amount", bank: 100, amount: 40, wantPaid: true, wantBank: 60, wantCash: 40},
		{name: "zero is a no-op", bank: 100, amount: 0, wantBank: 100},
		{name: "insufficient bank", bank: 10, amount: 40, wantErr: ErrInsufficientBank, wantBank: 10},
		{name: "negative rejected", bank: 10, amount: -1, wantErr: ErrNegativeAmount, wantBank: 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger(tc.bank, 10)
			var acct Account
			paid, err := l.PayFromBank(&acct, tc.amount)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantPaid, paid)
			assert.Equal(t, tc.wantBank, l.Bank)
			assert.Equal(t, tc.wantCash, acct.Money)
		})
	}
}

func TestPayMedallionsFromPool_ConservesTotal(t *testing.T) {
	l := NewLedger(0, 10)
	a, b := Account{}, Account{}

	_, err := l.PayMedallionsFromPool(&a, 6)
	require.NoError(t, err)
	_, err = l.PayMedallionsFromPool(&b, 5)
	require.ErrorIs(t, err, ErrInsufficientPool)
	_, err = l.PayMedallionsFromPool(&b, 4)
	require.NoError(t, err)

	assert.Equal(t, 10, l.MedallionsAvailable+a.Medallions+b.Medallions)
	assert.Equal(t, 0, l.MedallionsAvailable)
}

func TestTransfers(t *testing.T) {
	from := Account{Money: 50, Medallions: 1}
	to := Account{}

	moved, err := TransferMoney(&from, &to, 60)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.False(t, moved)
	assert.True(t, IsInsufficient(err))

	moved, err = TransferMoney(&from, &to, 50)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, Account{Money: 0, Medallions: 1}, from)
	assert.Equal(t, 50, to.Money)

	_, err = TransferMedallions(&from, &to, 2)
	require.ErrorIs(t, err, ErrInsufficientMedallions)

	moved, err = TransferMedallions(&from, &to, 0)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = TransferMedallions(&from, &to, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, to.Medallions)
}
