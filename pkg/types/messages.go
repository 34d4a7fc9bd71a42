package types

// Client -> Server
// Connect: GET /ws?code=<session>&player=<id>
//   player omitted -> server mints one and sends Welcome first
//
// Every client message is { type: <command>, ...fields }.
//
// joinGame / startGame / startRound: {}
//
// Trading (turn phase before every mini-game):
//   transferMoney:     target_id: string, amount: number
//   transferMedallion: target_id: string, amount: number
//   lockTrading:       {}
//
// PRIZE_DRAW:
//   enterTicketsAmount: tickets: number
//   lockTickets:        {}
//
// LOWEST_UNIQUE_BID:
//   choosePaddle: paddle: number  // 1..player count
//   lockPaddle:   {}
//
// MAGIC_MONEY_MACHINE:
//   putMoneyInBox:      amount: number
//   removeMoneyFromBox: amount: number
//   lockMoney:          {}
//
// PICK_A_PRIZE:
//   selectAPrize:       prize: number  // 0-based prize index
//   lockPrizeSelection: {}
//
// MEDALLION_MAJORITY_VOTE:
//   putMoneyInBoxDecision:      target_id: string, amount: number  // decision player only
//   removeMoneyFromBoxDecision: target_id: string, amount: number  // decision player only
//   lockDeposits:               {}                                 // decision player only
//   submitVote:                 vote: boolean                      // voters only
//   lockVote:                   {}

// Server -> Client
// Welcome:
//   player_id: string
//
// StateSnapshot (after connect and after every accepted command):
//   version: number
//   view: see snapshot.go
//   events: Event[]  // broadcasts plus those addressed to this player
//
// Error (rejected command, sender only):
//   code: "WRONG_PHASE" | "NOT_JOINED" | "ALREADY_LOCKED" | "INSUFFICIENT" | ... | "BAD_JSON"
//   error: string
//
// Event:
//   type: string       // "WinnerDeclared", "MoneyPaid", ...
//   to: string         // omitted for broadcasts
//   player_id: string  // subject of the event
//   module: string
//   round: number      // 0-based
//   amount: number
//   message: string
