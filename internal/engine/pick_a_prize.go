package engine

import "slices"

type PickAPrizePlayer struct {
	ID                 string `json:"id"`
	ChosenPrize        int    `json:"chosen_prize"`
	HasChosen          bool   `json:"has_chosen"`
	LockPrizeSelection bool   `json:"lock_prize_selection"`
	WinningsPerRound   []int  `json:"winnings_per_round"`
	MedallionsPerRound []int  `json:"medallions_per_round"`
}

// PickAPrize pays every player whose pick nobody else made. A round without
// collisions boosts two money prizes of the next round.
type PickAPrize struct {
	Round                 int                `json:"round"`
	PrizesPerRound        [][]Prize          `json:"prizes_per_round"`
	BonusEligiblePerRound []bool             `json:"bonus_eligible_per_round"`
	BoostedPerRound       [][]int            `json:"boosted_per_round"`
	BonusIncrement        int                `json:"bonus_increment"`
	Players               []PickAPrizePlayer `json:"players"`
}

func newPickAPrize(r PickAPrizeRules, ids []string) *PickAPrize {
	m := &PickAPrize{
		PrizesPerRound:        make([][]Prize, len(r.PrizesPerRound)),
		BonusEligiblePerRound: make([]bool, len(r.PrizesPerRound)),
		BoostedPerRound:       make([][]int, len(r.PrizesPerRound)),
		BonusIncrement:        r.BonusIncrement,
		Players:               make([]PickAPrizePlayer, len(ids)),
	}
	for i, prizes := range r.PrizesPerRound {
		m.PrizesPerRound[i] = slices.Clone(prizes)
		m.BonusEligiblePerRound[i] = true
	}
	for i, id := range ids {
		m.Players[i] = PickAPrizePlayer{ID: id}
	}
	return m
}

func (m *PickAPrize) Tag() ModuleTag    { return ModulePickAPrize }
func (m *PickAPrize) CurrentRound() int { return m.Round }
func (m *PickAPrize) MaxRounds() int    { return len(m.PrizesPerRound) }

func (m *PickAPrize) clone() ModuleState {
	c := *m
	c.PrizesPerRound = make([][]Prize, len(m.PrizesPerRound))
	for i, prizes := range m.PrizesPerRound {
		c.PrizesPerRound[i] = slices.Clone(prizes)
	}
	c.BonusEligiblePerRound = slices.Clone(m.BonusEligiblePerRound)
	c.BoostedPerRound = make([][]int, len(m.BoostedPerRound))
	for i, b := range m.BoostedPerRound {
		c.BoostedPerRound[i] = slices.Clone(b)
	}
	c.Players = make([]PickAPrizePlayer, len(m.Players))
	for i, p := range m.Players {
		p.WinningsPerRound = slices.Clone(p.WinningsPerRound)
		p.MedallionsPerRound = slices.Clone(p.MedallionsPerRound)
		c.Players[i] = p
	}
	return &c
}

func (m *PickAPrize) player(id string) (*PickAPrizePlayer, error) {
	i := slices.IndexFunc(m.Players, func(p PickAPrizePlayer) bool { return p.ID == id })
	if i < 0 {
		return nil, ErrNotEnrolled
	}
	return &m.Players[i], nil
}

func (m *PickAPrize) allLocked() bool {
	for _, p := range m.Players {
		if !p.LockPrizeSelection {
			return false
		}
	}
	return true
}

func (m *PickAPrize) lastRound() bool { return m.Round >= m.MaxRounds()-1 }

func (m *PickAPrize) advanceRound() {
	m.Round++
	for i := range m.Players {
		m.Players[i].ChosenPrize = 0
		m.Players[i].HasChosen = false
		m.Players[i].LockPrizeSelection = false
	}
}

func (m *PickAPrize) resolveRound(s *State) []Event {
	counts := make(map[int]int, len(m.Players))
	for _, p := range m.Players {
		counts[p.ChosenPrize]++
	}

	var events []Event
	prizes := m.PrizesPerRound[m.Round]
	for i := range m.Players {
		p := &m.Players[i]
		if counts[p.ChosenPrize] > 1 {
			m.BonusEligiblePerRound[m.Round] = false
			p.WinningsPerRound = append(p.WinningsPerRound, 0)
			p.MedallionsPerRound = append(p.MedallionsPerRound, 0)
			continue
		}

		prize := prizes[p.ChosenPrize]
		events = append(events, Event{
			Type:     EvtPrizeAwarded,
			PlayerID: p.ID,
			Module:   ModulePickAPrize,
			Round:    m.Round,
			Amount:   prize.Amount,
			Message:  printer.Sprintf("%s claims prize %d (%d %s)", p.ID, p.ChosenPrize+1, prize.Amount, prize.Type),
		})
		switch prize.Type {
		case PrizeMoney:
			paid, evs := s.payMoney(p.ID, prize.Amount, ModulePickAPrize, m.Round)
			events = append(events, evs...)
			p.WinningsPerRound = append(p.WinningsPerRound, paid)
			p.MedallionsPerRound = append(p.MedallionsPerRound, 0)
		case PrizeMedallions:
			paid, evs := s.payMedallions(p.ID, prize.Amount, ModulePickAPrize, m.Round)
			events = append(events, evs...)
			p.WinningsPerRound = append(p.WinningsPerRound, 0)
			p.MedallionsPerRound = append(p.MedallionsPerRound, paid)
		}
	}

	if m.BonusEligiblePerRound[m.Round] && !m.lastRound() {
		events = append(events, m.applyBonus(s)...)
	}
	return events
}

// applyBonus raises two distinct money prizes of the next round.
func (m *PickAPrize) applyBonus(s *State) []Event {
	next := m.Round + 1
	var money []int
	for i, prize := range m.PrizesPerRound[next] {
		if prize.Type == PrizeMoney {
			money = append(money, i)
		}
	}

	var boosted []int
	switch len(money) {
	case 0:
		return nil
	case 1:
		boosted = money
	default:
		a := s.intn(len(money))
		b := s.intn(len(money) - 1)
		if b >= a {
			b++
		}
		boosted = []int{money[a], money[b]}
	}

	for _, i := range boosted {
		m.PrizesPerRound[next][i].Amount += m.BonusIncrement
	}
	m.BoostedPerRound[next] = boosted
	return []Event{{
		Type:    EvtBonusApplied,
		Module:  ModulePickAPrize,
		Round:   next,
		Amount:  m.BonusIncrement,
		Message: printer.Sprintf("No collisions! %d prize(s) next round grow by %d", len(boosted), m.BonusIncrement),
	}}
}

func (s *State) selectAPrize(playerID string, prize int) ([]Event, error) {
	m, err := activeModule[*PickAPrize](s, playerID, ModulePickAPrize)
	if err != nil {
		return nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.LockPrizeSelection {
		return nil, ErrAlreadyLocked
	}
	if prize < 0 || prize >= len(m.PrizesPerRound[m.Round]) {
		return nil, newError(CodeOutOfRange, "prize %d is not on offer", prize)
	}
	p.ChosenPrize = prize
	p.HasChosen = true
	return nil, nil
}

func (s *State) lockPrizeSelection(playerID string) ([]Event, error) {
	m, err := activeModule[*PickAPrize](s, playerID, ModulePickAPrize)
	if err != nil {
		return nil, err
	}
	p, err := m.player(playerID)
	if err != nil {
		return nil, err
	}
	if p.LockPrizeSelection {
		return nil, ErrAlreadyLocked
	}
	if !p.HasChosen {
		return nil, newError(CodeNothingChosen, "select a prize before locking")
	}
	p.LockPrizeSelection = true
	s.mustPlayer(playerID).Status = PlayerLocked

	events := []Event{lockedEvent(playerID, ModulePickAPrize, m.Round)}
	return append(events, s.settleRound(m)...), nil
}
