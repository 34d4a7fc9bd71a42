package engine

import (
	"math/rand/v2"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/DoyleJ11/money-game-backend/internal/economy"
)

// RNG is the serializable random source of a session. Every draw derives a
// fresh PCG stream from (Seed, Draws), so a cloned state draws the same
// numbers as its original and a replay reproduces every outcome.
type RNG struct {
	Seed  uint64 `json:"seed"`
	Draws uint64 `json:"draws"`
}

var printer = message.NewPrinter(language.English)

func NewState(rules Rules, seed uint64) State {
	return State{
		Players:       []Player{},
		Ledger:        economy.NewLedger(rules.StartingBank, rules.TotalMedallions),
		GameStatus:    GameWaiting,
		RoundStatus:   RoundWaiting,
		ModulesPlayed: []ModuleTag{},
		Rules:         rules,
		RNG:           RNG{Seed: seed},
	}
}

func NewEmptyState() State {
	return NewState(DefaultRules(), 0)
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// Clone deep-copies everything Apply may mutate. Rules are treated as
// immutable and shared.
func (s State) Clone() State {
	c := s
	c.Players = slices.Clone(s.Players)
	c.ModulesPlayed = slices.Clone(s.ModulesPlayed)
	c.FinalResults = slices.Clone(s.FinalResults)
	if s.Module != nil {
		c.Module = s.Module.clone()
	}
	return c
}

func (s *State) intn(n int) int {
	r := rand.New(rand.NewPCG(s.RNG.Seed, s.RNG.Draws))
	s.RNG.Draws++
	return r.IntN(n)
}

func (s *State) playerIndex(id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

func (s *State) hasPlayer(id string) bool {
	return s.playerIndex(id) >= 0
}

// mustPlayer panics for ids that never joined: callers are routed through
// membership checks first.
func (s *State) mustPlayer(id string) *Player {
	i := s.playerIndex(id)
	if i < 0 {
		panic("engine: unknown player " + id)
	}
	return &s.Players[i]
}

func (s *State) playerIDs() []string {
	ids := make([]string, len(s.Players))
	for i, p := range s.Players {
		ids[i] = p.ID
	}
	return ids
}

func (s *State) setStatuses(status PlayerStatus) {
	for i := range s.Players {
		s.Players[i].Status = status
	}
}

// TotalMoney is bank plus every player's money.
func (s State) TotalMoney() int {
	total := s.Bank
	for _, p := range s.Players {
		total += p.Money
	}
	return total
}

// TotalMedallions is the pool plus every player's medallions.
func (s State) TotalMedallions() int {
	total := s.MedallionsAvailable
	for _, p := range s.Players {
		total += p.Medallions
	}
	return total
}

// payMoney settles a module payout from the bank and returns what was
// actually paid. A shortfall does not abort the round; it is reported to the
// player instead and nothing is paid.
func (s *State) payMoney(playerID string, amount int, module ModuleTag, round int) (int, []Event) {
	p := s.mustPlayer(playerID)
	paid, err := s.Ledger.PayFromBank(&p.Account, amount)
	if err != nil {
		return 0, []Event{{
			Type: EvtPayoutFailed, To: playerID, PlayerID: playerID, Module: module, Round: round, Amount: amount,
			Message: printer.Sprintf("Payout of %d could not be made: %v", amount, err),
		}}
	}
	if !paid {
		return 0, nil
	}
	return amount, []Event{{
		Type: EvtMoneyPaid, To: playerID, PlayerID: playerID, Module: module, Round: round, Amount: amount,
		Message: printer.Sprintf("You received %d from the bank", amount),
	}}
}

func (s *State) payMedallions(playerID string, amount int, module ModuleTag, round int) (int, []Event) {
	p := s.mustPlayer(playerID)
	paid, err := s.Ledger.PayMedallionsFromPool(&p.Account, amount)
	if err != nil {
		return 0, []Event{{
			Type: EvtPayoutFailed, To: playerID, PlayerID: playerID, Module: module, Round: round, Amount: amount,
			Message: printer.Sprintf("Medallion award of %d could not be made: %v", amount, err),
		}}
	}
	if !paid {
		return 0, nil
	}
	return amount, []Event{{
		Type: EvtMedallionsPaid, To: playerID, PlayerID: playerID, Module: module, Round: round, Amount: amount,
		Message: printer.Sprintf("You received %d medallion(s)", amount),
	}}
}

func lockedEvent(playerID string, module ModuleTag, round int) Event {
	return Event{Type: EvtPlayerLocked, PlayerID: playerID, Module: module, Round: round,
		Message: printer.Sprintf("%s locked in", playerID)}
}
