package engine

import (
	"cmp"
	"fmt"
	"slices"
)

// requirePhase rejects commands that do not target the live lockstep phase.
func (s *State) requirePhase(playerID string, tag ModuleTag) error {
	if !s.hasPlayer(playerID) {
		return ErrNotJoined
	}
	switch s.GameStatus {
	case GameWaiting:
		return newError(CodeWrongPhase, "game has not started")
	case GameFinished:
		return ErrGameFinished
	}
	if s.CurrentModule != tag || s.RoundStatus != RoundActive {
		return newError(CodeWrongPhase, "%s is not the active phase", tag)
	}
	return nil
}

// activeModule routes a command to the live module state of type M.
func activeModule[M ModuleState](s *State, playerID string, tag ModuleTag) (M, error) {
	var zero M
	if err := s.requirePhase(playerID, tag); err != nil {
		return zero, err
	}
	m, ok := s.Module.(M)
	if !ok {
		panic(fmt.Sprintf("engine: %s is active without its module state", tag))
	}
	return m, nil
}

func (s *State) joinGame(playerID string) ([]Event, error) {
	switch s.GameStatus {
	case GameInProgress:
		return nil, ErrGameAlreadyStarted
	case GameFinished:
		return nil, ErrGameFinished
	}
	if playerID == "" {
		return nil, newError(CodeUnknownPlayer, "player id is required")
	}
	if s.hasPlayer(playerID) {
		return nil, ErrAlreadyJoined
	}
	if len(s.Players) >= s.Rules.MaxPlayers {
		return nil, ErrRoomFull
	}

	s.Players = append(s.Players, Player{ID: playerID, Status: PlayerWaiting})
	return []Event{{
		Type:     EvtPlayerJoined,
		PlayerID: playerID,
		Message:  printer.Sprintf("%s joined (%d/%d)", playerID, len(s.Players), s.Rules.MaxPlayers),
	}}, nil
}

func (s *State) startGame(playerID string) ([]Event, error) {
	if !s.hasPlayer(playerID) {
		return nil, ErrNotJoined
	}
	switch s.GameStatus {
	case GameInProgress:
		return nil, ErrGameAlreadyStarted
	case GameFinished:
		return nil, ErrGameFinished
	}
	if len(s.Players) < s.Rules.MinPlayers {
		return nil, newError(CodeNotEnoughPlayers, "need at least %d players, have %d", s.Rules.MinPlayers, len(s.Players))
	}

	s.GameStatus = GameInProgress
	s.TurnNumber = 1
	events := []Event{{
		Type:     EvtGameStarted,
		PlayerID: playerID,
		Message:  printer.Sprintf("Game started with %d players and %d turns", len(s.Players), s.Rules.TotalTurns),
	}}
	return append(events, s.openTrading()...), nil
}

// startRound moves a session whose phase has completed into the next one.
func (s *State) startRound(playerID string) ([]Event, error) {
	if !s.hasPlayer(playerID) {
		return nil, ErrNotJoined
	}
	switch s.GameStatus {
	case GameWaiting:
		return nil, newError(CodeWrongPhase, "game has not started")
	case GameFinished:
		return nil, ErrGameFinished
	}
	if s.RoundStatus == RoundActive {
		return nil, ErrRoundNotComplete
	}
	return s.advanceTurn(), nil
}

// advanceTurn opens the next turn's trading phase, or the final vote once
// every turn has been played.
func (s *State) advanceTurn() []Event {
	if s.TurnNumber >= s.Rules.TotalTurns {
		return s.startVote()
	}
	s.TurnNumber++
	return s.openTrading()
}

// turnIndex is the 0-based turn, used as Round on trading events.
func (s *State) turnIndex() int {
	return s.TurnNumber - 1
}

func (s *State) openTrading() []Event {
	s.CurrentModule = ModuleTrading
	s.RoundStatus = RoundActive
	for i := range s.Players {
		s.Players[i].LockedTrade = false
		s.Players[i].Status = PlayerActive
	}
	return []Event{{
		Type:    EvtTradingStarted,
		Module:  ModuleTrading,
		Round:   s.turnIndex(),
		Message: printer.Sprintf("Turn %d of %d: trading is open", s.TurnNumber, s.Rules.TotalTurns),
	}}
}

func (s *State) modulePool() []ModuleTag {
	if len(s.Rules.Modules) > 0 {
		return s.Rules.Modules
	}
	return RotatingModules
}

// selectModule draws uniformly among the pool modules not yet played this
// cycle and records the pick.
func (s *State) selectModule() ModuleTag {
	pool := s.modulePool()
	candidates := make([]ModuleTag, 0, len(pool))
	for _, tag := range pool {
		if !slices.Contains(s.ModulesPlayed, tag) {
			candidates = append(candidates, tag)
		}
	}
	if len(candidates) == 0 {
		if s.Rules.CycleReset {
			s.ModulesPlayed = s.ModulesPlayed[:0]
		}
		candidates = slices.Clone(pool)
	}

	tag := candidates[s.intn(len(candidates))]
	s.ModulesPlayed = append(s.ModulesPlayed, tag)
	return tag
}

func (s *State) newModule(tag ModuleTag) roundModule {
	ids := s.playerIDs()
	switch tag {
	case ModulePrizeDraw:
		return newPrizeDraw(s.Rules.PrizeDraw, ids)
	case ModuleLowestUniqueBid:
		return newLowestUniqueBid(s.Rules.LowestUniqueBid, ids)
	case ModuleMagicMoneyMachine:
		return newMagicMoneyMachine(s.Rules.MagicMoneyMachine, ids)
	case ModulePickAPrize:
		return newPickAPrize(s.Rules.PickAPrize, ids)
	default:
		panic(fmt.Sprintf("engine: %s is not a rotating module", tag))
	}
}

func (s *State) startModule(tag ModuleTag) []Event {
	m := s.newModule(tag)
	s.Module = m
	s.CurrentModule = tag
	s.RoundStatus = RoundActive
	s.setStatuses(PlayerActive)
	return []Event{{
		Type:    EvtModuleStarted,
		Module:  tag,
		Round:   m.CurrentRound(),
		Message: printer.Sprintf("Turn %d: %s begins", s.TurnNumber, tag),
	}}
}

// settleRound is called after every lock in a rotating module. Nothing
// happens until the last enrolled player has locked.
func (s *State) settleRound(m roundModule) []Event {
	if !m.allLocked() {
		return nil
	}
	events := []Event{{
		Type:    EvtAllPlayersLocked,
		Module:  m.Tag(),
		Round:   m.CurrentRound(),
		Message: "All players have locked in, determining results",
	}}
	events = append(events, m.resolveRound(s)...)

	if m.lastRound() {
		return append(events, s.completeModule(m)...)
	}
	m.advanceRound()
	s.setStatuses(PlayerActive)
	return append(events, Event{
		Type:    EvtRoundStarted,
		Module:  m.Tag(),
		Round:   m.CurrentRound(),
		Message: printer.Sprintf("Round %d is starting", m.CurrentRound()+1),
	})
}

func (s *State) completeModule(m ModuleState) []Event {
	s.RoundStatus = RoundCompleted
	s.setStatuses(PlayerWaiting)
	events := []Event{{
		Type:    EvtModuleCompleted,
		Module:  m.Tag(),
		Round:   m.CurrentRound(),
		Message: printer.Sprintf("%s is over", m.Tag()),
	}}
	if s.Rules.AutoAdvance {
		events = append(events, s.advanceTurn()...)
	}
	return events
}

func (s *State) startVote() []Event {
	v := newMedallionVote(s)
	s.Module = v
	s.CurrentModule = ModuleMedallionVote
	s.RoundStatus = RoundActive
	for i := range s.Players {
		if s.Players[i].ID == v.DecisionPlayer {
			s.Players[i].Status = PlayerActive
		} else {
			s.Players[i].Status = PlayerWaiting
		}
	}
	return []Event{{
		Type:     EvtModuleStarted,
		PlayerID: v.DecisionPlayer,
		Module:   ModuleMedallionVote,
		Round:    v.Round,
		Amount:   v.MoneyAllocation,
		Message:  printer.Sprintf("Final vote: %s allocates %d", v.DecisionPlayer, v.MoneyAllocation),
	}}
}

// finishGame ranks players by money, then medallions, then join order.
func (s *State) finishGame() []Event {
	s.GameStatus = GameFinished
	s.RoundStatus = RoundCompleted
	s.CurrentModule = ModuleFinalResults
	s.setStatuses(PlayerWaiting)

	results := make([]PlayerScore, len(s.Players))
	for i, p := range s.Players {
		results[i] = PlayerScore{PlayerID: p.ID, Score: p.Money, Medallions: p.Medallions}
	}
	slices.SortStableFunc(results, func(a, b PlayerScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(b.Medallions, a.Medallions)
	})
	s.FinalResults = results

	return []Event{{
		Type:     EvtGameFinished,
		PlayerID: results[0].PlayerID,
		Amount:   results[0].Score,
		Message:  printer.Sprintf("Game over: %s finishes first with %d", results[0].PlayerID, results[0].Score),
	}}
}
