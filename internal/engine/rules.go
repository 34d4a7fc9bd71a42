package engine

import "slices"

type PrizeType string

const (
	PrizeMoney      PrizeType = "money"
	PrizeMedallions PrizeType = "medallions"
)

type Prize struct {
	Type   PrizeType `json:"type"`
	Amount int       `json:"amount"`
}

type PrizeDrawRules struct {
	PotsPerRound       []int `json:"pots_per_round"`
	MedallionsPerRound []int `json:"medallions_per_round"`
	MinTickets         int   `json:"min_tickets"`
	MaxTickets         int   `json:"max_tickets"`
}

type LowestUniqueBidRules struct {
	MultiplierPerRound []int `json:"multiplier_per_round"`
	MedallionsPerRound []int `json:"medallions_per_round"`
}

type MagicMoneyMachineRules struct {
	InterestPerRound []float64 `json:"interest_per_round"`
	StartingHand     int       `json:"starting_hand"`
	// CompletionBonus medallions go to the richest player when the module ends.
	CompletionBonus int `json:"completion_bonus"`
}

type PickAPrizeRules struct {
	PrizesPerRound [][]Prize `json:"prizes_per_round"`
	BonusIncrement int       `json:"bonus_increment"`
}

type Rules struct {
	StartingBank    int `json:"starting_bank"`
	TotalMedallions int `json:"total_medallions"`
	MinPlayers      int `json:"min_players"`
	MaxPlayers      int `json:"max_players"`
	// TotalTurns is the number of trading + mini-game turns before the final vote.
	TotalTurns int `json:"total_turns"`
	// CycleReset clears the played-modules exclusion set once every module
	// in Modules has been played.
	CycleReset bool `json:"cycle_reset"`
	// AutoAdvance opens the next phase as soon as a module completes instead
	// of waiting for a startRound command.
	AutoAdvance bool        `json:"auto_advance"`
	Modules     []ModuleTag `json:"modules"`
	VoteRounds  int         `json:"vote_rounds"`

	PrizeDraw         PrizeDrawRules         `json:"prize_draw"`
	LowestUniqueBid   LowestUniqueBidRules   `json:"lowest_unique_bid"`
	MagicMoneyMachine MagicMoneyMachineRules `json:"magic_money_machine"`
	PickAPrize        PickAPrizeRules        `json:"pick_a_prize"`
}

func DefaultRules() Rules {
	return Rules{
		StartingBank:    10000,
		TotalMedallions: 10,
		MinPlayers:      2,
		MaxPlayers:      8,
		TotalTurns:      4,
		CycleReset:      true,
		AutoAdvance:     false,
		Modules:         slices.Clone(RotatingModules),
		VoteRounds:      3,
		PrizeDraw: PrizeDrawRules{
			PotsPerRound:       []int{100, 200, 300},
			MedallionsPerRound: []int{1, 2, 3},
			MinTickets:         0,
			MaxTickets:         20,
		},
		LowestUniqueBid: LowestUniqueBidRules{
			MultiplierPerRound: []int{10, 20, 30},
			MedallionsPerRound: []int{1, 1, 1},
		},
		MagicMoneyMachine: MagicMoneyMachineRules{
			InterestPerRound: []float64{0.25, 0.5, 1.0},
			StartingHand:     100,
			CompletionBonus:  2,
		},
		PickAPrize: PickAPrizeRules{
			PrizesPerRound: [][]Prize{
				{{PrizeMoney, 100}, {PrizeMoney, 150}, {PrizeMoney, 200}, {PrizeMedallions, 1}},
				{{PrizeMoney, 150}, {PrizeMoney, 250}, {PrizeMoney, 300}, {PrizeMedallions, 1}},
				{{PrizeMoney, 200}, {PrizeMoney, 350}, {PrizeMoney, 500}, {PrizeMedallions, 2}},
			},
			BonusIncrement: 50,
		},
	}
}
