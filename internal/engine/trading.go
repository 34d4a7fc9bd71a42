package engine

import "github.com/DoyleJ11/money-game-backend/internal/economy"

func (s *State) lockTrading(playerID string) ([]Event, error) {
	if err := s.requirePhase(playerID, ModuleTrading); err != nil {
		return nil, err
	}
	p := s.mustPlayer(playerID)
	if p.LockedTrade {
		return nil, ErrAlreadyLocked
	}
	p.LockedTrade = true
	p.Status = PlayerLocked

	events := []Event{lockedEvent(playerID, ModuleTrading, s.turnIndex())}
	for _, other := range s.Players {
		if !other.LockedTrade {
			return events, nil
		}
	}
	events = append(events, Event{
		Type:    EvtAllPlayersLocked,
		Module:  ModuleTrading,
		Round:   s.turnIndex(),
		Message: "Trading is closed",
	})
	return append(events, s.startModule(s.selectModule())...), nil
}

// tradeParties resolves sender and receiver of a peer transfer.
func (s *State) tradeParties(playerID, targetID string) (from, to *Player, err error) {
	if err := s.requirePhase(playerID, ModuleTrading); err != nil {
		return nil, nil, err
	}
	from = s.mustPlayer(playerID)
	if from.LockedTrade {
		return nil, nil, ErrAlreadyLocked
	}
	if targetID == playerID || !s.hasPlayer(targetID) {
		return nil, nil, newError(CodeUnknownPlayer, "cannot transfer to %q", targetID)
	}
	return from, s.mustPlayer(targetID), nil
}

func (s *State) transferMoney(playerID, targetID string, amount int) ([]Event, error) {
	from, to, err := s.tradeParties(playerID, targetID)
	if err != nil {
		return nil, err
	}
	moved, err := economy.TransferMoney(&from.Account, &to.Account, amount)
	if err != nil {
		return nil, wrapEconomy(err)
	}
	if !moved {
		return nil, nil
	}
	return []Event{{
		Type:     EvtMoneyTransferred,
		To:       targetID,
		PlayerID: playerID,
		Module:   ModuleTrading,
		Round:    s.turnIndex(),
		Amount:   amount,
		Message:  printer.Sprintf("%s sent you %d", playerID, amount),
	}}, nil
}

func (s *State) transferMedallion(playerID, targetID string, amount int) ([]Event, error) {
	from, to, err := s.tradeParties(playerID, targetID)
	if err != nil {
		return nil, err
	}
	moved, err := economy.TransferMedallions(&from.Account, &to.Account, amount)
	if err != nil {
		return nil, wrapEconomy(err)
	}
	if !moved {
		return nil, nil
	}
	return []Event{{
		Type:     EvtMedallionTransferred,
		To:       targetID,
		PlayerID: playerID,
		Module:   ModuleTrading,
		Round:    s.turnIndex(),
		Amount:   amount,
		Message:  printer.Sprintf("%s sent you %d medallion(s)", playerID, amount),
	}}, nil
}
