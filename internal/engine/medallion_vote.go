package engine

import "slices"

type VotePhase string

const (
	PhaseDecision VotePhase = "decision"
	PhaseVoters   VotePhase = "voters"
)

type MedallionVoter struct {
	ID string `json:"id"`
	// MoneyInBox is the decision player's working offer; it carries over
	// into the next round when a deal is rejected.
	MoneyInBox         int    `json:"money_in_box"`
	MoneyInBoxPerRound []int  `json:"money_in_box_per_round"`
	Vote               bool   `json:"vote"`
	HasVoted           bool   `json:"has_voted"`
	LockedVote         bool   `json:"locked_vote"`
	VotePerRound       []bool `json:"vote_per_round"`
}

// MedallionVote is the closing negotiation. The richest medallion holder
// splits the bank into voter boxes and keeps what is left if a strict
// majority of voters accepts.
type MedallionVote struct {
	Round           int              `json:"round"`
	MaxRounds       int              `json:"max_rounds"`
	DecisionPlayer  string           `json:"decision_player"`
	MoneyAllocation int              `json:"money_allocation"`
	Phase           VotePhase        `json:"phasing_player"`
	LockedDeposit   bool             `json:"locked_deposit"`
	Voters          []MedallionVoter `json:"voters"`
	YesPerRound     []int            `json:"yes_per_round"`
	Accepted        bool             `json:"accepted"`
}

// newMedallionVote picks the decision player: most medallions, earliest
// joiner on ties.
func newMedallionVote(s *State) *MedallionVote {
	decider := 0
	for i, p := range s.Players {
		if p.Medallions > s.Players[decider].Medallions {
			decider = i
		}
	}
	m := &MedallionVote{
		MaxRounds:       s.Rules.VoteRounds,
		DecisionPlayer:  s.Players[decider].ID,
		MoneyAllocation: s.Bank,
		Phase:           PhaseDecision,
	}
	for i, p := range s.Players {
		if i != decider {
			m.Voters = append(m.Voters, MedallionVoter{ID: p.ID})
		}
	}
	return m
}

func (m *MedallionVote) Tag() ModuleTag    { return ModuleMedallionVote }
func (m *MedallionVote) CurrentRound() int { return m.Round }

func (m *MedallionVote) clone() ModuleState {
	c := *m
	c.Voters = make([]MedallionVoter, len(m.Voters))
	for i, v := range m.Voters {
		v.MoneyInBoxPerRound = slices.Clone(v.MoneyInBoxPerRound)
		v.VotePerRound = slices.Clone(v.VotePerRound)
		c.Voters[i] = v
	}
	c.YesPerRound = slices.Clone(m.YesPerRound)
	return &c
}

func (m *MedallionVote) voter(id string) (*MedallionVoter, bool) {
	i := slices.IndexFunc(m.Voters, func(v MedallionVoter) bool { return v.ID == id })
	if i < 0 {
		return nil, false
	}
	return &m.Voters[i], true
}

func (m *MedallionVote) allVotersLocked() bool {
	for _, v := range m.Voters {
		if !v.LockedVote {
			return false
		}
	}
	return true
}

// accepts reports whether yes votes are a strict majority of voters.
func accepts(yes, voters int) bool {
	return yes > voters/2
}

// decisionBox validates a box edit by the decision player and returns the
// targeted voter.
func (s *State) decisionBox(playerID, targetID string, amount int) (*MedallionVote, *MedallionVoter, error) {
	m, err := activeModule[*MedallionVote](s, playerID, ModuleMedallionVote)
	if err != nil {
		return nil, nil, err
	}
	if playerID != m.DecisionPlayer {
		return nil, nil, ErrNotDecisionPlayer
	}
	if m.LockedDeposit {
		return nil, nil, ErrAlreadyLocked
	}
	if m.Phase != PhaseDecision {
		return nil, nil, newError(CodeWrongPhase, "deposits can only change during the decision phase")
	}
	if amount < 0 {
		return nil, nil, newError(CodeInvalidAmount, "amount must not be negative")
	}
	v, ok := m.voter(targetID)
	if !ok {
		return nil, nil, newError(CodeUnknownPlayer, "%q is not a voter", targetID)
	}
	return m, v, nil
}

func (s *State) putMoneyInBoxDecision(playerID, targetID string, amount int) ([]Event, error) {
	m, v, err := s.decisionBox(playerID, targetID, amount)
	if err != nil {
		return nil, err
	}
	if amount > m.MoneyAllocation {
		return nil, newError(CodeInsufficient, "only %d left to allocate", m.MoneyAllocation)
	}
	m.MoneyAllocation -= amount
	v.MoneyInBox += amount
	return nil, nil
}

func (s *State) removeMoneyFromBoxDecision(playerID, targetID string, amount int) ([]Event, error) {
	m, v, err := s.decisionBox(playerID, targetID, amount)
	if err != nil {
		return nil, err
	}
	if amount > v.MoneyInBox {
		return nil, newError(CodeInsufficient, "only %d in %s's box", v.MoneyInBox, targetID)
	}
	v.MoneyInBox -= amount
	m.MoneyAllocation += amount
	return nil, nil
}

func (s *State) lockDeposits(playerID string) ([]Event, error) {
	m, err := activeModule[*MedallionVote](s, playerID, ModuleMedallionVote)
	if err != nil {
		return nil, err
	}
	if playerID != m.DecisionPlayer {
		return nil, ErrNotDecisionPlayer
	}
	if m.LockedDeposit {
		return nil, ErrAlreadyLocked
	}

	m.LockedDeposit = true
	m.Phase = PhaseVoters
	for i := range m.Voters {
		v := &m.Voters[i]
		v.MoneyInBoxPerRound = append(v.MoneyInBoxPerRound, v.MoneyInBox)
		s.mustPlayer(v.ID).Status = PlayerActive
	}
	s.mustPlayer(playerID).Status = PlayerLocked

	events := []Event{{
		Type:     EvtDepositsLocked,
		PlayerID: playerID,
		Module:   ModuleMedallionVote,
		Round:    m.Round,
		Amount:   m.MoneyAllocation,
		Message:  printer.Sprintf("%s has made an offer and keeps %d; voters, cast your votes", playerID, m.MoneyAllocation),
	}}
	if m.allVotersLocked() {
		events = append(events, s.resolveVote(m)...)
	}
	return events, nil
}

// votingVoter validates that playerID may still vote this round.
func (s *State) votingVoter(playerID string) (*MedallionVote, *MedallionVoter, error) {
	m, err := activeModule[*MedallionVote](s, playerID, ModuleMedallionVote)
	if err != nil {
		return nil, nil, err
	}
	v, ok := m.voter(playerID)
	if !ok {
		return nil, nil, ErrNotVoter
	}
	if v.LockedVote {
		return nil, nil, ErrAlreadyLocked
	}
	if m.Phase != PhaseVoters {
		return nil, nil, newError(CodeWrongPhase, "waiting for %s to lock deposits", m.DecisionPlayer)
	}
	return m, v, nil
}

func (s *State) submitVote(playerID string, vote bool) ([]Event, error) {
	_, v, err := s.votingVoter(playerID)
	if err != nil {
		return nil, err
	}
	v.Vote = vote
	v.HasVoted = true
	return nil, nil
}

func (s *State) lockVote(playerID string) ([]Event, error) {
	m, v, err := s.votingVoter(playerID)
	if err != nil {
		return nil, err
	}
	if !v.HasVoted {
		return nil, newError(CodeNothingChosen, "submit a vote before locking")
	}
	v.LockedVote = true
	s.mustPlayer(playerID).Status = PlayerLocked

	events := []Event{lockedEvent(playerID, ModuleMedallionVote, m.Round)}
	if !m.allVotersLocked() {
		return events, nil
	}
	return append(events, s.resolveVote(m)...), nil
}

func (s *State) resolveVote(m *MedallionVote) []Event {
	yes := 0
	for i := range m.Voters {
		v := &m.Voters[i]
		v.VotePerRound = append(v.VotePerRound, v.Vote)
		if v.Vote {
			yes++
		}
	}
	m.YesPerRound = append(m.YesPerRound, yes)
	events := []Event{{
		Type:    EvtAllPlayersLocked,
		Module:  ModuleMedallionVote,
		Round:   m.Round,
		Message: "All votes are in",
	}}

	if accepts(yes, len(m.Voters)) {
		m.Accepted = true
		events = append(events, Event{
			Type:     EvtVoteAccepted,
			PlayerID: m.DecisionPlayer,
			Module:   ModuleMedallionVote,
			Round:    m.Round,
			Amount:   yes,
			Message:  printer.Sprintf("The deal passes with %d of %d votes", yes, len(m.Voters)),
		})
		for _, v := range m.Voters {
			_, evs := s.payMoney(v.ID, v.MoneyInBox, ModuleMedallionVote, m.Round)
			events = append(events, evs...)
		}
		_, evs := s.payMoney(m.DecisionPlayer, m.MoneyAllocation, ModuleMedallionVote, m.Round)
		events = append(events, evs...)
		return append(events, s.finishGame()...)
	}

	events = append(events, Event{
		Type:     EvtVoteRejected,
		PlayerID: m.DecisionPlayer,
		Module:   ModuleMedallionVote,
		Round:    m.Round,
		Amount:   yes,
		Message:  printer.Sprintf("The deal fails with %d of %d votes", yes, len(m.Voters)),
	})
	if m.Round >= m.MaxRounds-1 {
		return append(events, s.finishGame()...)
	}

	m.Round++
	m.Phase = PhaseDecision
	m.LockedDeposit = false
	for i := range m.Voters {
		v := &m.Voters[i]
		v.Vote = false
		v.HasVoted = false
		v.LockedVote = false
		s.mustPlayer(v.ID).Status = PlayerWaiting
	}
	s.mustPlayer(m.DecisionPlayer).Status = PlayerActive
	return append(events, Event{
		Type:     EvtRoundStarted,
		PlayerID: m.DecisionPlayer,
		Module:   ModuleMedallionVote,
		Round:    m.Round,
		Message:  printer.Sprintf("Negotiation round %d of %d: %s may revise the offer", m.Round+1, m.MaxRounds, m.DecisionPlayer),
	})
}
