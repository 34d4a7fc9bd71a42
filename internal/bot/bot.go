// Package bot plays a session from a player's own view. Bots drive the
// simulator and the engine's whole-game tests.
package bot

import (
	"math/rand/v2"

	"github.com/DoyleJ11/money-game-backend/internal/engine"
)

type Bot struct {
	ID  string
	rng *rand.Rand
}

func New(id string, seed, stream uint64) *Bot {
	return &Bot{ID: id, rng: rand.New(rand.NewPCG(seed, stream))}
}

// Next returns the commands the bot wants to send for view v, ending with a
// lock when a lockable phase is waiting on it. It returns nil when the bot
// has nothing to do.
func (b *Bot) Next(v engine.View) []engine.Command {
	if v.Self == nil || v.GameStatus != engine.GameInProgress || v.RoundStatus != engine.RoundActive {
		return nil
	}

	switch v.CurrentModule {
	case engine.ModuleTrading:
		if v.Self.LockedTrade {
			return nil
		}
		return b.trade(v)
	case engine.ModulePrizeDraw:
		if v.Self.Status != engine.PlayerActive || v.PrizeDraw == nil {
			return nil
		}
		tickets := v.PrizeDraw.MinTickets + b.rng.IntN(v.PrizeDraw.MaxTickets-v.PrizeDraw.MinTickets+1)
		return []engine.Command{
			{Type: engine.CmdEnterTicketsAmount, Tickets: tickets},
			{Type: engine.CmdLockTickets},
		}
	case engine.ModuleLowestUniqueBid:
		if v.Self.Status != engine.PlayerActive || v.LowestUniqueBid == nil {
			return nil
		}
		paddles := v.LowestUniqueBid.PaddlesToChooseFrom
		return []engine.Command{
			{Type: engine.CmdChoosePaddle, Paddle: paddles[b.rng.IntN(len(paddles))]},
			{Type: engine.CmdLockPaddle},
		}
	case engine.ModuleMagicMoneyMachine:
		if v.Self.Status != engine.PlayerActive || v.MagicMoneyMachine == nil || v.MagicMoneyMachine.MoneyInHand == nil {
			return nil
		}
		return []engine.Command{
			{Type: engine.CmdPutMoneyInBox, Amount: b.rng.IntN(*v.MagicMoneyMachine.MoneyInHand + 1)},
			{Type: engine.CmdLockMoney},
		}
	case engine.ModulePickAPrize:
		if v.Self.Status != engine.PlayerActive || v.PickAPrize == nil {
			return nil
		}
		return []engine.Command{
			{Type: engine.CmdSelectAPrize, Prize: b.rng.IntN(len(v.PickAPrize.Prizes))},
			{Type: engine.CmdLockPrizeSelection},
		}
	case engine.ModuleMedallionVote:
		return b.negotiate(v)
	}
	return nil
}

// trade occasionally passes a little money to the next player before
// locking.
func (b *Bot) trade(v engine.View) []engine.Command {
	var cmds []engine.Command
	if v.Self.Money > 0 && len(v.Players) > 1 && b.rng.IntN(3) == 0 {
		target := v.Players[b.rng.IntN(len(v.Players))].ID
		if target != b.ID {
			cmds = append(cmds, engine.Command{
				Type:     engine.CmdTransferMoney,
				TargetID: target,
				Amount:   1 + b.rng.IntN(v.Self.Money),
			})
		}
	}
	return append(cmds, engine.Command{Type: engine.CmdLockTrading})
}

func (b *Bot) negotiate(v engine.View) []engine.Command {
	vote := v.MedallionVote
	if vote == nil {
		return nil
	}
	if d := v.MedallionDecision; d != nil {
		if vote.Phase != engine.PhaseDecision || vote.LockedDeposit {
			return nil
		}
		var cmds []engine.Command
		if vote.Round == 0 && len(d.Boxes) > 0 {
			share := d.MoneyAllocation / (2 * len(d.Boxes))
			for _, box := range d.Boxes {
				cmds = append(cmds, engine.Command{Type: engine.CmdPutMoneyInBoxDecision, TargetID: box.ID, Amount: share})
			}
		}
		return append(cmds, engine.Command{Type: engine.CmdLockDeposits})
	}
	if voter := v.MedallionVoter; voter != nil {
		if vote.Phase != engine.PhaseVoters || voter.LockedVote {
			return nil
		}
		return []engine.Command{
			{Type: engine.CmdSubmitVote, Vote: b.rng.IntN(2) == 0},
			{Type: engine.CmdLockVote},
		}
	}
	return nil
}
