package engine

import "slices"

type PrizeDrawPlayer struct {
	ID                 string `json:"id"`
	Tickets            int    `json:"tickets"`
	TicketsLocked      bool   `json:"tickets_locked"`
	WinningsPerRound   []int  `json:"winnings_per_round"`
	MedallionsPerRound []int  `json:"medallions_per_round"`
}

// PrizeDraw is a weighted raffle: each round one ticket is drawn from the pool
// of every ticket entered and its owner takes pot/totalTickets.
type PrizeDraw struct {
	Round              int               `json:"round"`
	PotsPerRound       []int             `json:"pots_per_round"`
	MedallionsPerRound []int             `json:"medallions_per_round"`
	MinTickets         int               `json:"min_tickets"`
	MaxTickets         int               `json:"max_tickets"`
	Players            []PrizeDrawPlayer `json:"players"`
	// WinnerPerRound holds "" for rounds without a winner.
	WinnerPerRound []string `json:"winner_per_round"`
}

func newPrizeDraw(r PrizeDrawRules, ids []string) *PrizeDraw {
	m := &PrizeDraw{
		PotsPerRound:       r.PotsPerRound,
		MedallionsPerRound: r.MedallionsPerRound,
		MinTickets:         r.MinTickets,
		MaxTickets:         r.MaxTickets,
		Players:            make([]PrizeDrawPlayer, len(ids)),
	}
	for i, id := range ids {
		m.Players[i] = PrizeDrawPlayer{ID: id}
	}
	return m
}

func (m *PrizeDraw) Tag() ModuleTag    { return ModulePrizeDraw }
func (m *PrizeDraw) CurrentRound() int { return m.Round }
func (m *PrizeDraw) MaxRounds() int    { return len(m.PotsPerRound) }

func (m *PrizeDraw) clone() ModuleState {
	c := *m
	c.Players = make([]PrizeDrawPlayer, len(m.Players))
	for i, p := range m.Players {
		p.WinningsPerRound = slices.Clone(p.WinningsPerRound)
		p.MedallionsPerRound = slices.Clone(p.MedallionsPerRound)
		c.Players[i] = p
	}
	c.WinnerPerRound = slices.Clone(m.WinnerPerRound)
	return &c
}

func (m *PrizeDraw) player(id string) (*PrizeDrawPlayer, error) {
	i := slices.IndexFunc(m.Players, func(p PrizeDrawPlayer) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrNotEnrolled
	}
	return &m.Players[i], nil
}

func (m *PrizeDraw) allLocked() bool {
	for _, p := range m.Players {
		if !p.TicketsLocked {
			return false
		}
	}
	return true
}

func (m *PrizeDraw) lastRound() bool { return m.Round >= m.MaxRounds()-1 }

func (m *PrizeDraw) advanceRound() {
	m.Round++
	for i := range m.Players {
		m.Players[i].Tickets = 0
		m.Players[i].TicketsLocked = false
	}
}

func (m *PrizeDraw) resolveRound(s *State) []Event {
	total := 0
	for _, p := range m.Players {
		total += p.Tickets
	}
	if total == 0 {
		for i := range m.Players {
			m.Players[i].WinningsPerRound = append(m.Players[i].WinningsPerRound, 0)
			m.Players[i].MedallionsPerRound = append(m.Players[i].MedallionsPerRound, 0)
		}
		m.WinnerPerRound = append(m.WinnerPerRound, "")
		return []Event{{
			Type:    EvtNoWinner,
			Module:  ModulePrizeDraw,
			Round:   m.Round,
			Message: "No tickets were entered, nobody wins this round",
		}}
	}

	draw := s.intn(total)
	winner := ""
	for _, p := range m.Players {
		if draw < p.Tickets {
			winner = p.ID
			break
		}
		draw -= p.Tickets
	}

	pot := m.PotsPerRound[m.Round] / total
	medallions := m.MedallionsPerRound[m.Round]
	events := []Event{{
		Type:     EvtWinnerDeclared,
		PlayerID: winner,
		Module:   ModulePrizeDraw,
		Round:    m.Round,
		Amount:   pot,
		Message:  printer.Sprintf("%s won the draw with %d tickets in play and takes %d", winner, total, pot),
	}}
	paidMoney, evs := s.payMoney(winner, pot, ModulePrizeDraw, m.Round)
	events = append(events, evs...)
	paidMedallions, evs := s.payMedallions(winner, medallions, ModulePrizeDraw, m.Round)
	events = append(events, evs...)

	for i := range m.Players {
		p := &m.Players[i]
		if p.ID == winner {
			p.WinningsPerRound = append(p.WinningsPerRound, paidMoney)
			p.MedallionsPerRound = append(p.MedallionsPerRound, paidMedallions)
		} else {
			p.WinningsPerRound = append(p.WinningsPerRound, 0)
			p.MedallionsPerRound = append(p.MedallionsPerRound, 0)
		}
	}
	m.WinnerPerRound = append(m.WinnerPerRound, winner)
	return events
}

func (s *State) enterTicketsAmount(playerID string, tickets int) ([]Event, error) {
	m, err := activeModule[*PrizeDraw](s, playerID, ModulePrizeDraw)
	if err != nil {
		return nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.TicketsLocked {
		return nil, ErrAlreadyLocked
	}
	if tickets < m.MinTickets || tickets > m.MaxTickets {
		return nil, newError(CodeOutOfRange, "tickets must be between %d and %d", m.MinTickets, m.MaxTickets)
	}
	p.Tickets = tickets
	return nil, nil
}

func (s *State) lockTickets(playerID string) ([]Event, error) {
	m, err := activeModule[*PrizeDraw](s, playerID, ModulePrizeDraw)
	if err != nil {
		return nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.TicketsLocked {
		return nil, ErrAlreadyLocked
	}
	if p.Tickets < m.MinTickets {
		return nil, newError(CodeOutOfRange, "enter at least %d tickets before locking", m.MinTickets)
	}
	p.TicketsLocked = true
	s.mustPlayer(playerID).Status = PlayerLocked

	events := []Event{lockedEvent(playerID, ModulePrizeDraw, m.Round)}
	return append(events, s.settleRound(m)...), nil
}
