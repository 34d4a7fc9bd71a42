package engine

import (
	"math"
	"slices"
)

type MagicMoneyMachinePlayer struct {
	ID               string `json:"id"`
	MoneyInHand      int    `json:"money_in_hand"`
	MoneyInBox       int    `json:"money_in_box"`
	LockedMoney      bool   `json:"locked_money"`
	WinningsPerRound []int  `json:"winnings_per_round"`
	// CashedOut and BonusMedallions are what the ledger actually paid when
	// the module completed.
	CashedOut       int `json:"cashed_out"`
	BonusMedallions int `json:"bonus_medallions"`
}

// MagicMoneyMachine pools every box each round, adds interest and splits the
// pool evenly back into the boxes. Hands and boxes are module chips; they
// are paid out of the bank when the module completes.
type MagicMoneyMachine struct {
	Round                 int                       `json:"round"`
	InterestPerRound      []float64                 `json:"interest_per_round"`
	TotalInterestPerRound []int                     `json:"total_interest_per_round"`
	TotalPayoutPerRound   []int                     `json:"total_payout_per_round"`
	CompletionBonus       int                       `json:"completion_bonus"`
	Players               []MagicMoneyMachinePlayer `json:"players"`
}

func newMagicMoneyMachine(r MagicMoneyMachineRules, ids []string) *MagicMoneyMachine {
	m := &MagicMoneyMachine{
		InterestPerRound: r.InterestPerRound,
		CompletionBonus:  r.CompletionBonus,
		Players:          make([]MagicMoneyMachinePlayer, len(ids)),
	}
	for i, id := range ids {
		m.Players[i] = MagicMoneyMachinePlayer{ID: id, MoneyInHand: r.StartingHand}
	}
	return m
}

func (m *MagicMoneyMachine) Tag() ModuleTag    { return ModuleMagicMoneyMachine }
func (m *MagicMoneyMachine) CurrentRound() int { return m.Round }
func (m *MagicMoneyMachine) MaxRounds() int    { return len(m.InterestPerRound) }

func (m *MagicMoneyMachine) clone() ModuleState {
	c := *m
	c.TotalInterestPerRound = slices.Clone(m.TotalInterestPerRound)
	c.TotalPayoutPerRound = slices.Clone(m.TotalPayoutPerRound)
	c.Players = make([]MagicMoneyMachinePlayer, len(m.Players))
	for i, p := range m.Players {
		p.WinningsPerRound = slices.Clone(p.WinningsPerRound)
		c.Players[i] = p
	}
	return &c
}

func (m *MagicMoneyMachine) player(id string) (*MagicMoneyMachinePlayer, error) {
	i := slices.IndexFunc(m.Players, func(p MagicMoneyMachinePlayer) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrNotEnrolled
	}
	return &m.Players[i], nil
}

func (m *MagicMoneyMachine) allLocked() bool {
	for _, p := range m.Players {
		if !p.LockedMoney {
			return false
		}
	}
	return true
}

func (m *MagicMoneyMachine) lastRound() bool { return m.Round >= m.MaxRounds()-1 }

func (m *MagicMoneyMachine) advanceRound() {
	m.Round++
	for i := range m.Players {
		m.Players[i].LockedMoney = false
	}
}

// payoutPerPlayer pools the boxes with the round's interest and splits the
// result evenly.
func payoutPerPlayer(boxes []int, rate float64) (interest, pool, share int) {
	for _, b := range boxes {
		pool += b
	}
	interest = int(math.Floor(float64(pool) * rate))
	pool += interest
	if len(boxes) > 0 {
		share = pool / len(boxes)
	}
	return interest, pool, share
}

func (m *MagicMoneyMachine) resolveRound(s *State) []Event {
	boxes := make([]int, len(m.Players))
	for i, p := range m.Players {
		boxes[i] = p.MoneyInBox
	}
	interest, pool, share := payoutPerPlayer(boxes, m.InterestPerRound[m.Round])
	m.TotalInterestPerRound = append(m.TotalInterestPerRound, interest)
	m.TotalPayoutPerRound = append(m.TotalPayoutPerRound, pool)
	for i := range m.Players {
		m.Players[i].MoneyInBox = share
		m.Players[i].WinningsPerRound = append(m.Players[i].WinningsPerRound, share)
	}

	events := []Event{{
		Type:    EvtInterestPaid,
		Module:  ModuleMagicMoneyMachine,
		Round:   m.Round,
		Amount:  share,
		Message: printer.Sprintf("The machine paid %d interest on a pool of %d; every box now holds %d", interest, pool, share),
	}}
	if !m.lastRound() {
		return events
	}
	return append(events, m.cashOut(s)...)
}

// cashOut settles every hand and box from the bank and awards the completion
// bonus to the richest player, the earliest joiner winning ties.
func (m *MagicMoneyMachine) cashOut(s *State) []Event {
	var events []Event
	richest := -1
	for i, p := range m.Players {
		total := p.MoneyInHand + p.MoneyInBox
		if richest < 0 || total > m.Players[richest].MoneyInHand+m.Players[richest].MoneyInBox {
			richest = i
		}
		paid, evs := s.payMoney(p.ID, total, ModuleMagicMoneyMachine, m.Round)
		m.Players[i].CashedOut = paid
		events = append(events, evs...)
	}
	if richest < 0 {
		return events
	}

	winner := m.Players[richest]
	events = append(events, Event{
		Type:     EvtWinnerDeclared,
		PlayerID: winner.ID,
		Module:   ModuleMagicMoneyMachine,
		Round:    m.Round,
		Amount:   winner.MoneyInHand + winner.MoneyInBox,
		Message:  printer.Sprintf("%s leaves the machine with the most money (%d)", winner.ID, winner.MoneyInHand+winner.MoneyInBox),
	})
	bonus, evs := s.payMedallions(winner.ID, m.CompletionBonus, ModuleMagicMoneyMachine, m.Round)
	m.Players[richest].BonusMedallions = bonus
	return append(events, evs...)
}

// machinePlayer returns the acting player's record if it may still move money.
func (s *State) machinePlayer(playerID string, amount int) (*MagicMoneyMachine, *MagicMoneyMachinePlayer, error) {
	m, err := activeModule[*MagicMoneyMachine](s, playerID, ModuleMagicMoneyMachine)
	if err != nil {
		return nil, nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, nil, err
	}
	if p.LockedMoney {
		return nil, nil, ErrAlreadyLocked
	}
	if amount < 0 {
		return nil, nil, newError(CodeInvalidAmount, "amount must not be negative")
	}
	return m, p, nil
}

func (s *State) putMoneyInBox(playerID string, amount int) ([]Event, error) {
	_, p, err := s.machinePlayer(playerID, amount)
	if err != nil {
		return nil, err
	}
	if amount > p.MoneyInHand {
		return nil, newError(CodeInsufficient, "only %d in hand", p.MoneyInHand)
	}
	p.MoneyInHand -= amount
	p.MoneyInBox += amount
	return nil, nil
}

func (s *State) removeMoneyFromBox(playerID string, amount int) ([]Event, error) {
	_, p, err := s.machinePlayer(playerID, amount)
	if err != nil {
		return nil, err
	}
	if amount > p.MoneyInBox {
		return nil, newError(CodeInsufficient, "only %d in the box", p.MoneyInBox)
	}
	p.MoneyInBox -= amount
	p.MoneyInHand += amount
	return nil, nil
}

func (s *State) lockMoney(playerID string) ([]Event, error) {
	m, p, err := s.machinePlayer(playerID, 0)
	if err != nil {
		return nil, err
	}
	p.LockedMoney = true
	s.mustPlayer(playerID).Status = PlayerLocked

	events := []Event{lockedEvent(playerID, ModuleMagicMoneyMachine, m.Round)}
	return append(events, s.settleRound(m)...), nil
}
