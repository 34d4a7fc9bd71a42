// Package economy owns the shared bank and medallion pool of a session.
//
// Every payment into a player's permanent balance goes through a Ledger so
// that bank + sum(money) and pool + sum(medallions) stay conserved.
package economy

import "errors"

var ErrInsufficientBank = errors.New("bank does not have enough money")
var ErrInsufficientPool = errors.New("not enough medallions left in the pool")
var ErrInsufficientFunds = errors.New("player does not have enough money")
var ErrInsufficientMedallions = errors.New("player does not have enough medallions")
var ErrNegativeAmount = errors.New("amount must not be negative")

// Account is the permanent balance of one player.
type Account struct {
	Money      int `json:"money"`
	Medallions int `json:"medallions"`
}

type Ledger struct {
	Bank                int `json:"bank"`
	MedallionsAvailable int `json:"medallions_available"`
}

func NewLedger(bank, medallions int) Ledger {
	return Ledger{Bank: bank, MedallionsAvailable: medallions}
}

// PayFromBank moves amount from the bank into to. A zero amount is a no-op
// and reports paid == false so callers can skip notifications.
func (l *Ledger) PayFromBank(to *Account, amount int) (paid bool, err error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	if amount == 0 {
		return false, nil
	}
	if l.Bank < amount {
		return false, ErrInsufficientBank
	}
	l.Bank -= amount
	to.Money += amount
	return true, nil
}

func (l *Ledger) PayMedallionsFromPool(to *Account, amount int) (paid bool, err error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	if amount == 0 {
		return false, nil
	}
	if l.MedallionsAvailable < amount {
		return false, ErrInsufficientPool
	}
	l.MedallionsAvailable -= amount
	to.Medallions += amount
	return true, nil
}

// TransferMoney moves money between two players. The bank is not touched.
func TransferMoney(from, to *Account, amount int) (moved bool, err error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	if amount == 0 {
		return false, nil
	}
	if from.Money < amount {
		return false, ErrInsufficientFunds
	}
	from.Money -= amount
	to.Money += amount
	return true, nil
}

func TransferMedallions(from, to *Account, amount int) (moved bool, err error) {
	if amount < 0 {
		return false, ErrNegativeAmount
	}
	if amount == 0 {
		return false, nil
	}
	if from.Medallions < amount {
		return false, ErrInsufficientMedallions
	}
	from.Medallions -= amount
	to.Medallions += amount
	return true, nil
}

// IsInsufficient reports whether err is one of the balance shortfall errors.
func IsInsufficient(err error) bool {
	return errors.Is(err, ErrInsufficientBank) ||
		errors.Is(err, ErrInsufficientPool) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrInsufficientMedallions)
}
