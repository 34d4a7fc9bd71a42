package engine

import (
	"github.com/DoyleJ11/money-game-backend/internal/economy"
)

type GameStatus string

const (
	GameWaiting    GameStatus = "waiting"
	GameInProgress GameStatus = "in_progress"
	GameFinished   GameStatus = "finished"
)

type RoundStatus string

const (
	RoundWaiting   RoundStatus = "waiting"
	RoundActive    RoundStatus = "active"
	RoundCompleted RoundStatus = "completed"
)

type PlayerStatus string

const (
	PlayerWaiting PlayerStatus = "waiting"
	PlayerActive  PlayerStatus = "active"
	PlayerLocked  PlayerStatus = "locked"
)

// ModuleTag names the phase a session is in. The four rotating mini-games,
// the final vote, and the two pseudo phases share one namespace.
type ModuleTag string

const (
	ModulePrizeDraw         ModuleTag = "PRIZE_DRAW"
	ModuleLowestUniqueBid   ModuleTag = "LOWEST_UNIQUE_BID"
	ModuleMagicMoneyMachine ModuleTag = "MAGIC_MONEY_MACHINE"
	ModulePickAPrize        ModuleTag = "PICK_A_PRIZE"
	ModuleMedallionVote     ModuleTag = "MEDALLION_MAJORITY_VOTE"
	ModuleTrading           ModuleTag = "TRADING"
	ModuleFinalResults      ModuleTag = "FINAL_RESULTS"
)

// RotatingModules is the default pool a turn picks its mini-game from.
var RotatingModules = []ModuleTag{
	ModulePrizeDraw,
	ModuleLowestUniqueBid,
	ModuleMagicMoneyMachine,
	ModulePickAPrize,
}

type Player struct {
	ID string `json:"id"`
	economy.Account
	Status      PlayerStatus `json:"status"`
	LockedTrade bool         `json:"locked_trade"`
}

type PlayerScore struct {
	PlayerID   string `json:"player_id"`
	Score      int    `json:"score"`
	Medallions int    `json:"medallions"`
}

// ModuleState is the live mini-game of a session. Exactly one variant is
// set at a time: *PrizeDraw, *LowestUniqueBid, *MagicMoneyMachine,
// *PickAPrize or *MedallionVote.
type ModuleState interface {
	Tag() ModuleTag
	CurrentRound() int
	clone() ModuleState
}

// roundModule is implemented by the four rotating modules, which all share
// the lock -> resolve -> advance cycle.
type roundModule interface {
	ModuleState
	allLocked() bool
	resolveRound(s *State) []Event
	lastRound() bool
	advanceRound()
}

type State struct {
	Players []Player `json:"players"`
	economy.Ledger
	TurnNumber    int         `json:"turn_number"`
	GameStatus    GameStatus  `json:"game_status"`
	RoundStatus   RoundStatus `json:"round_status"`
	CurrentModule ModuleTag   `json:"current_module,omitempty"`
	// ModulesPlayed is the exclusion set for the current rotation cycle, in play order.
	ModulesPlayed []ModuleTag   `json:"modules_played"`
	Module        ModuleState   `json:"-"`
	FinalResults  []PlayerScore `json:"final_results,omitempty"`
	Rules         Rules         `json:"rules"`
	RNG           RNG           `json:"rng"`
}

type CommandType string

const (
	CmdJoinGame                   CommandType = "joinGame"
	CmdStartGame                  CommandType = "startGame"
	CmdStartRound                 CommandType = "startRound"
	CmdLockTrading                CommandType = "lockTrading"
	CmdTransferMoney              CommandType = "transferMoney"
	CmdTransferMedallion          CommandType = "transferMedallion"
	CmdEnterTicketsAmount         CommandType = "enterTicketsAmount"
	CmdLockTickets                CommandType = "lockTickets"
	CmdChoosePaddle               CommandType = "choosePaddle"
	CmdLockPaddle                 CommandType = "lockPaddle"
	CmdPutMoneyInBox              CommandType = "putMoneyInBox"
	CmdRemoveMoneyFromBox         CommandType = "removeMoneyFromBox"
	CmdLockMoney                  CommandType = "lockMoney"
	CmdSelectAPrize               CommandType = "selectAPrize"
	CmdLockPrizeSelection         CommandType = "lockPrizeSelection"
	CmdPutMoneyInBoxDecision      CommandType = "putMoneyInBoxDecision"
	CmdRemoveMoneyFromBoxDecision CommandType = "removeMoneyFromBoxDecision"
	CmdLockDeposits               CommandType = "lockDeposits"
	CmdSubmitVote                 CommandType = "submitVote"
	CmdLockVote                   CommandType = "lockVote"
)

/*
	CmdJoinGame        -> EvtPlayerJoined
	CmdStartGame       -> EvtGameStarted -> EvtTradingStarted
	CmdLockTrading     -> EvtPlayerLocked [-> EvtAllPlayersLocked -> EvtModuleStarted]
	CmdLockTickets etc -> EvtPlayerLocked [-> EvtAllPlayersLocked -> outcome events -> EvtRoundStarted or EvtModuleCompleted]
	CmdStartRound      -> EvtTradingStarted or EvtModuleStarted (vote)
	CmdLockVote        -> EvtPlayerLocked [-> EvtVoteAccepted/EvtVoteRejected -> EvtRoundStarted or EvtGameFinished]
*/

type Command struct {
	Type CommandType `json:"type"`
	// TargetID is the receiving player for transfers and decision deposits.
	TargetID string `json:"target_id,omitempty"`
	Amount   int    `json:"amount,omitempty"`
	Tickets  int    `json:"tickets,omitempty"`
	Paddle   int    `json:"paddle,omitempty"`
	Prize    int    `json:"prize,omitempty"`
	Vote     bool   `json:"vote,omitempty"`
}

type EventType string

const (
	EvtPlayerJoined         EventType = "PlayerJoined"
	EvtGameStarted          EventType = "GameStarted"
	EvtTradingStarted       EventType = "TradingStarted"
	EvtMoneyTransferred     EventType = "MoneyTransferred"
	EvtMedallionTransferred EventType = "MedallionTransferred"
	EvtModuleStarted        EventType = "ModuleStarted"
	EvtPlayerLocked         EventType = "PlayerLocked"
	EvtAllPlayersLocked     EventType = "AllPlayersLocked"
	EvtWinnerDeclared       EventType = "WinnerDeclared"
	EvtNoWinner             EventType = "NoWinner"
	EvtPaddlesRevealed      EventType = "PaddlesRevealed"
	EvtPrizeAwarded         EventType = "PrizeAwarded"
	EvtBonusApplied         EventType = "BonusApplied"
	EvtInterestPaid         EventType = "InterestPaid"
	EvtRoundStarted         EventType = "RoundStarted"
	EvtModuleCompleted      EventType = "ModuleCompleted"
	EvtMoneyPaid            EventType = "MoneyPaid"
	EvtMedallionsPaid       EventType = "MedallionsPaid"
	EvtPayoutFailed         EventType = "PayoutFailed"
	EvtDepositsLocked       EventType = "DepositsLocked"
	EvtVoteAccepted         EventType = "VoteAccepted"
	EvtVoteRejected         EventType = "VoteRejected"
	EvtGameFinished         EventType = "GameFinished"
)

// Event is an advisory notification. An empty To means broadcast; PlayerID
// names the player the event is about.
type Event struct {
	Type     EventType `json:"type"`
	To       string    `json:"to,omitempty"`
	PlayerID string    `json:"player_id,omitempty"`
	Module   ModuleTag `json:"module,omitempty"`
	Round    int       `json:"round"`
	Amount   int       `json:"amount,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Apply runs one player command against s. On error the original state is
// returned untouched; on success the returned state is a fresh copy.
func Apply(s State, playerID string, cmd Command) ([]Event, State, error) {
	next := s.Clone()
	events, err := next.apply(playerID, cmd)
	if err != nil {
		return nil, s, err
	}
	return events, next, nil
}

func (s *State) apply(playerID string, cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdJoinGame:
		return s.joinGame(playerID)
	case CmdStartGame:
		return s.startGame(playerID)
	case CmdStartRound:
		return s.startRound(playerID)

	case CmdLockTrading:
		return s.lockTrading(playerID)
	case CmdTransferMoney:
		return s.transferMoney(playerID, cmd.TargetID, cmd.Amount)
	case CmdTransferMedallion:
		return s.transferMedallion(playerID, cmd.TargetID, cmd.Amount)

	case CmdEnterTicketsAmount:
		return s.enterTicketsAmount(playerID, cmd.Tickets)
	case CmdLockTickets:
		return s.lockTickets(playerID)

	case CmdChoosePaddle:
		return s.choosePaddle(playerID, cmd.Paddle)
	case CmdLockPaddle:
		return s.lockPaddle(playerID)

	case CmdPutMoneyInBox:
		return s.putMoneyInBox(playerID, cmd.Amount)
	case CmdRemoveMoneyFromBox:
		return s.removeMoneyFromBox(playerID, cmd.Amount)
	case CmdLockMoney:
		return s.lockMoney(playerID)

	case CmdSelectAPrize:
		return s.selectAPrize(playerID, cmd.Prize)
	case CmdLockPrizeSelection:
		return s.lockPrizeSelection(playerID)

	case CmdPutMoneyInBoxDecision:
		return s.putMoneyInBoxDecision(playerID, cmd.TargetID, cmd.Amount)
	case CmdRemoveMoneyFromBoxDecision:
		return s.removeMoneyFromBoxDecision(playerID, cmd.TargetID, cmd.Amount)
	case CmdLockDeposits:
		return s.lockDeposits(playerID)
	case CmdSubmitVote:
		return s.submitVote(playerID, cmd.Vote)
	case CmdLockVote:
		return s.lockVote(playerID)

	default:
		return nil, newError(CodeUnsupportedCommand, "unsupported command %q", cmd.Type)
	}
}
