package engine

import "slices"

type LowestUniqueBidPlayer struct {
	ID string `json:"id"`
	// ChosenPaddle is 0 until a paddle is picked.
	ChosenPaddle       int   `json:"chosen_paddle"`
	LockPaddle         bool  `json:"lock_paddle"`
	WinningsPerRound   []int `json:"winnings_per_round"`
	MedallionsPerRound []int `json:"medallions_per_round"`
}

type LowestUniqueBid struct {
	Round               int                     `json:"round"`
	MultiplierPerRound  []int                   `json:"multiplier_per_round"`
	MedallionsPerRound  []int                   `json:"medallions_per_round"`
	PaddlesToChooseFrom []int                   `json:"paddles_to_choose_from"`
	RevealedPaddles     [][]int                 `json:"revealed_paddles"`
	Players             []LowestUniqueBidPlayer `json:"players"`
	WinnerPerRound      []string                `json:"winner_per_round"`
}

func newLowestUniqueBid(r LowestUniqueBidRules, ids []string) *LowestUniqueBid {
	m := &LowestUniqueBid{
		MultiplierPerRound:  r.MultiplierPerRound,
		MedallionsPerRound:  r.MedallionsPerRound,
		PaddlesToChooseFrom: make([]int, len(ids)),
		Players:             make([]LowestUniqueBidPlayer, len(ids)),
	}
	for i, id := range ids {
		m.PaddlesToChooseFrom[i] = i + 1
		m.Players[i] = LowestUniqueBidPlayer{ID: id}
	}
	return m
}

func (m *LowestUniqueBid) Tag() ModuleTag    { return ModuleLowestUniqueBid }
func (m *LowestUniqueBid) CurrentRound() int { return m.Round }
func (m *LowestUniqueBid) MaxRounds() int    { return len(m.MultiplierPerRound) }

func (m *LowestUniqueBid) clone() ModuleState {
	c := *m
	c.PaddlesToChooseFrom = slices.Clone(m.PaddlesToChooseFrom)
	c.RevealedPaddles = make([][]int, len(m.RevealedPaddles))
	for i, r := range m.RevealedPaddles {
		c.RevealedPaddles[i] = slices.Clone(r)
	}
	c.Players = make([]LowestUniqueBidPlayer, len(m.Players))
	for i, p := range m.Players {
		p.WinningsPerRound = slices.Clone(p.WinningsPerRound)
		p.MedallionsPerRound = slices.Clone(p.MedallionsPerRound)
		c.Players[i] = p
	}
	c.WinnerPerRound = slices.Clone(m.WinnerPerRound)
	return &c
}

func (m *LowestUniqueBid) player(id string) (*LowestUniqueBidPlayer, error) {
	i := slices.IndexFunc(m.Players, func(p LowestUniqueBidPlayer) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrNotEnrolled
	}
	return &m.Players[i], nil
}

func (m *LowestUniqueBid) allLocked() bool {
	for _, p := range m.Players {
		if !p.LockPaddle {
			return false
		}
	}
	return true
}

func (m *LowestUniqueBid) lastRound() bool { return m.Round >= m.MaxRounds()-1 }

func (m *LowestUniqueBid) advanceRound() {
	m.Round++
	for i := range m.Players {
		m.Players[i].ChosenPaddle = 0
		m.Players[i].LockPaddle = false
	}
}

// lowestUnique returns the smallest paddle picked by exactly one player, or 0.
func lowestUnique(paddles []int) int {
	counts := make(map[int]int, len(paddles))
	for _, p := range paddles {
		counts[p]++
	}
	best := 0
	for p, n := range counts {
		if n == 1 && (best == 0 || p < best) {
			best = p
		}
	}
	return best
}

func (m *LowestUniqueBid) resolveRound(s *State) []Event {
	revealed := make([]int, len(m.Players))
	for i, p := range m.Players {
		revealed[i] = p.ChosenPaddle
	}
	m.RevealedPaddles = append(m.RevealedPaddles, revealed)
	events := []Event{{
		Type:    EvtPaddlesRevealed,
		Module:  ModuleLowestUniqueBid,
		Round:   m.Round,
		Message: printer.Sprintf("Paddles revealed: %v", revealed),
	}}

	paddle := lowestUnique(revealed)
	winner := ""
	for _, p := range m.Players {
		if paddle != 0 && p.ChosenPaddle == paddle {
			winner = p.ID
		}
	}
	m.WinnerPerRound = append(m.WinnerPerRound, winner)

	paidMoney, paidMedallions := 0, 0
	if winner == "" {
		events = append(events, Event{
			Type:    EvtNoWinner,
			Module:  ModuleLowestUniqueBid,
			Round:   m.Round,
			Message: "Every paddle was matched, nobody wins this round",
		})
	} else {
		winnings := paddle * m.MultiplierPerRound[m.Round]
		events = append(events, Event{
			Type:     EvtWinnerDeclared,
			PlayerID: winner,
			Module:   ModuleLowestUniqueBid,
			Round:    m.Round,
			Amount:   winnings,
			Message:  printer.Sprintf("%s wins with the lowest unique paddle %d and takes %d", winner, paddle, winnings),
		})
		var evs []Event
		paidMoney, evs = s.payMoney(winner, winnings, ModuleLowestUniqueBid, m.Round)
		events = append(events, evs...)
		paidMedallions, evs = s.payMedallions(winner, m.MedallionsPerRound[m.Round], ModuleLowestUniqueBid, m.Round)
		events = append(events, evs...)
	}

	for i := range m.Players {
		p := &m.Players[i]
		if p.ID == winner {
			p.WinningsPerRound = append(p.WinningsPerRound, paidMoney)
			p.MedallionsPerRound = append(p.MedallionsPerRound, paidMedallions)
			continue
		}
		p.WinningsPerRound = append(p.WinningsPerRound, 0)
		p.MedallionsPerRound = append(p.MedallionsPerRound, 0)
	}
	return events
}

func (s *State) choosePaddle(playerID string, paddle int) ([]Event, error) {
	m, err := activeModule[*LowestUniqueBid](s, playerID, ModuleLowestUniqueBid)
	if err != nil {
		return nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.LockPaddle {
		return nil, ErrAlreadyLocked
	}
	if !slices.Contains(m.PaddlesToChooseFrom, paddle) {
		return nil, newError(CodeOutOfRange, "paddle %d is not on offer", paddle)
	}
	p.ChosenPaddle = paddle
	return nil, nil
}

func (s *State) lockPaddle(playerID string) ([]Event, error) {
	m, err := activeModule[*LowestUniqueBid](s, playerID, ModuleLowestUniqueBid)
	if err != nil {
		return nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.LockPaddle {
		return nil, ErrAlreadyLocked
	}
	if p.ChosenPaddle == 0 {
		return nil, newError(CodeNothingChosen, "choose a paddle before locking")
	}
	p.LockPaddle = true
	s.mustPlayer(playerID).Status = PlayerLocked

	events := []Event{lockedEvent(playerID, ModuleLowestUniqueBid, m.Round)}
	return append(events, s.settleRound(m)...), nil
}
