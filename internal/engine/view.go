package engine

import "slices"

// PublicPlayer is what every player may see of every other player.
type PublicPlayer struct {
	ID          string       `json:"id"`
	Money       int          `json:"money"`
	Medallions  int          `json:"medallions"`
	Status      PlayerStatus `json:"status"`
	LockedTrade bool         `json:"locked_trade"`
}

// View is the per-player projection of a session. Private module fields are
// filled in for Self only; at most one module section is set.
type View struct {
	Self                *PublicPlayer  `json:"self,omitempty"`
	Players             []PublicPlayer `json:"players"`
	Bank                int            `json:"bank"`
	MedallionsAvailable int            `json:"medallions_available"`
	TurnNumber          int            `json:"turn_number"`
	TotalTurns          int            `json:"total_turns"`
	GameStatus          GameStatus     `json:"game_status"`
	RoundStatus         RoundStatus    `json:"round_status"`
	CurrentModule       ModuleTag      `json:"current_module,omitempty"`
	ModulesPlayed       []ModuleTag    `json:"modules_played"`

	PrizeDraw         *PrizeDrawView         `json:"prize_draw,omitempty"`
	LowestUniqueBid   *LowestUniqueBidView   `json:"lowest_unique_bid,omitempty"`
	MagicMoneyMachine *MagicMoneyMachineView `json:"magic_money_machine,omitempty"`
	PickAPrize        *PickAPrizeView        `json:"pick_a_prize,omitempty"`
	MedallionVote     *MedallionVoteView     `json:"medallion_vote,omitempty"`
	MedallionDecision *MedallionDecisionView `json:"medallion_decision,omitempty"`
	MedallionVoter    *MedallionVoterView    `json:"medallion_voter,omitempty"`

	FinalResults []PlayerScore `json:"final_results,omitempty"`
}

type RoundResults struct {
	ID                 string `json:"id"`
	Locked             bool   `json:"locked"`
	WinningsPerRound   []int  `json:"winnings_per_round"`
	MedallionsPerRound []int  `json:"medallions_per_round,omitempty"`
	// Machine cash out, zero until the module completes.
	CashedOut       int `json:"cashed_out,omitempty"`
	BonusMedallions int `json:"bonus_medallions,omitempty"`
}

type PrizeDrawView struct {
	Round              int            `json:"round"`
	MaxRounds          int            `json:"max_rounds"`
	PotsPerRound       []int          `json:"pots_per_round"`
	MedallionsPerRound []int          `json:"medallions_per_round"`
	MinTickets         int            `json:"min_tickets"`
	MaxTickets         int            `json:"max_tickets"`
	WinnerPerRound     []string       `json:"winner_per_round"`
	Players            []RoundResults `json:"players"`
	Tickets            *int           `json:"tickets,omitempty"`
}

type LowestUniqueBidView struct {
	Round               int            `json:"round"`
	MaxRounds           int            `json:"max_rounds"`
	MultiplierPerRound  []int          `json:"multiplier_per_round"`
	MedallionsPerRound  []int          `json:"medallions_per_round"`
	PaddlesToChooseFrom []int          `json:"paddles_to_choose_from"`
	RevealedPaddles     [][]int        `json:"revealed_paddles"`
	WinnerPerRound      []string       `json:"winner_per_round"`
	Players             []RoundResults `json:"players"`
	ChosenPaddle        *int           `json:"chosen_paddle,omitempty"`
}

type MagicMoneyMachineView struct {
	Round                 int            `json:"round"`
	MaxRounds             int            `json:"max_rounds"`
	InterestPerRound      []float64      `json:"interest_per_round"`
	TotalInterestPerRound []int          `json:"total_interest_per_round"`
	TotalPayoutPerRound   []int          `json:"total_payout_per_round"`
	Players               []RoundResults `json:"players"`
	MoneyInHand           *int           `json:"money_in_hand,omitempty"`
	MoneyInBox            *int           `json:"money_in_box,omitempty"`
}

type PickAPrizeView struct {
	Round                 int            `json:"round"`
	MaxRounds             int            `json:"max_rounds"`
	Prizes                []Prize        `json:"prizes"`
	PrizesPerRound        [][]Prize      `json:"prizes_per_round"`
	BonusEligiblePerRound []bool         `json:"bonus_eligible_per_round"`
	BoostedPerRound       [][]int        `json:"boosted_per_round"`
	Players               []RoundResults `json:"players"`
	ChosenPrize           *int           `json:"chosen_prize,omitempty"`
}

type VoterStatus struct {
	ID         string `json:"id"`
	LockedVote bool   `json:"locked_vote"`
}

type MedallionVoteView struct {
	Round          int           `json:"round"`
	MaxRounds      int           `json:"max_rounds"`
	DecisionPlayer string        `json:"decision_player"`
	Phase          VotePhase     `json:"phase"`
	LockedDeposit  bool          `json:"locked_deposit"`
	Voters         []VoterStatus `json:"voters"`
	YesPerRound    []int         `json:"yes_per_round"`
	Accepted       bool          `json:"accepted"`
}

type VoterBox struct {
	ID           string `json:"id"`
	MoneyInBox   int    `json:"money_in_box"`
	VotePerRound []bool `json:"vote_per_round"`
}

type MedallionDecisionView struct {
	MoneyAllocation int        `json:"money_allocation"`
	Boxes           []VoterBox `json:"boxes"`
}

type MedallionVoterView struct {
	// Offer is the box amount of the latest locked deposit.
	Offer              int    `json:"offer"`
	MoneyInBoxPerRound []int  `json:"money_in_box_per_round"`
	Vote               bool   `json:"vote"`
	HasVoted           bool   `json:"has_voted"`
	LockedVote         bool   `json:"locked_vote"`
	VotePerRound       []bool `json:"vote_per_round"`
}

// BuildView projects s for playerID. Unknown ids get the public part only.
func BuildView(s State, playerID string) View {
	v := View{
		Players:             make([]PublicPlayer, len(s.Players)),
		Bank:                s.Bank,
		MedallionsAvailable: s.MedallionsAvailable,
		TurnNumber:          s.TurnNumber,
		TotalTurns:          s.Rules.TotalTurns,
		GameStatus:          s.GameStatus,
		RoundStatus:         s.RoundStatus,
		CurrentModule:       s.CurrentModule,
		ModulesPlayed:       slices.Clone(s.ModulesPlayed),
		FinalResults:        slices.Clone(s.FinalResults),
	}
	for i, p := range s.Players {
		v.Players[i] = PublicPlayer{
			ID:          p.ID,
			Money:       p.Money,
			Medallions:  p.Medallions,
			Status:      p.Status,
			LockedTrade: p.LockedTrade,
		}
		if p.ID == playerID {
			self := v.Players[i]
			v.Self = &self
		}
	}

	switch m := s.Module.(type) {
	case *PrizeDraw:
		v.PrizeDraw = viewPrizeDraw(m, playerID)
	case *LowestUniqueBid:
		v.LowestUniqueBid = viewLowestUniqueBid(m, playerID)
	case *MagicMoneyMachine:
		v.MagicMoneyMachine = viewMagicMoneyMachine(m, playerID)
	case *PickAPrize:
		v.PickAPrize = viewPickAPrize(m, playerID)
	case *MedallionVote:
		v.MedallionVote, v.MedallionDecision, v.MedallionVoter = viewMedallionVote(m, playerID)
	}
	return v
}

func viewPrizeDraw(m *PrizeDraw, playerID string) *PrizeDrawView {
	out := &PrizeDrawView{
		Round:              m.Round,
		MaxRounds:          m.MaxRounds(),
		PotsPerRound:       slices.Clone(m.PotsPerRound),
		MedallionsPerRound: slices.Clone(m.MedallionsPerRound),
		MinTickets:         m.MinTickets,
		MaxTickets:         m.MaxTickets,
		WinnerPerRound:     slices.Clone(m.WinnerPerRound),
		Players:            make([]RoundResults, len(m.Players)),
	}
	for i, p := range m.Players {
		out.Players[i] = RoundResults{
			ID:                 p.ID,
			Locked:             p.TicketsLocked,
			WinningsPerRound:   slices.Clone(p.WinningsPerRound),
			MedallionsPerRound: slices.Clone(p.MedallionsPerRound),
		}
		if p.ID == playerID {
			tickets := p.Tickets
			out.Tickets = &tickets
		}
	}
	return out
}

func viewLowestUniqueBid(m *LowestUniqueBid, playerID string) *LowestUniqueBidView {
	out := &LowestUniqueBidView{
		Round:               m.Round,
		MaxRounds:           m.MaxRounds(),
		MultiplierPerRound:  slices.Clone(m.MultiplierPerRound),
		MedallionsPerRound:  slices.Clone(m.MedallionsPerRound),
		PaddlesToChooseFrom: slices.Clone(m.PaddlesToChooseFrom),
		RevealedPaddles:     make([][]int, len(m.RevealedPaddles)),
		WinnerPerRound:      slices.Clone(m.WinnerPerRound),
		Players:             make([]RoundResults, len(m.Players)),
	}
	for i, r := range m.RevealedPaddles {
		out.RevealedPaddles[i] = slices.Clone(r)
	}
	for i, p := range m.Players {
		out.Players[i] = RoundResults{
			ID:                 p.ID,
			Locked:             p.LockPaddle,
			WinningsPerRound:   slices.Clone(p.WinningsPerRound),
			MedallionsPerRound: slices.Clone(p.MedallionsPerRound),
		}
		if p.ID == playerID && p.ChosenPaddle != 0 {
			paddle := p.ChosenPaddle
			out.ChosenPaddle = &paddle
		}
	}
	return out
}

func viewMagicMoneyMachine(m *MagicMoneyMachine, playerID string) *MagicMoneyMachineView {
	out := &MagicMoneyMachineView{
		Round:                 m.Round,
		MaxRounds:             m.MaxRounds(),
		InterestPerRound:      slices.Clone(m.InterestPerRound),
		TotalInterestPerRound: slices.Clone(m.TotalInterestPerRound),
		TotalPayoutPerRound:   slices.Clone(m.TotalPayoutPerRound),
		Players:               make([]RoundResults, len(m.Players)),
	}
	for i, p := range m.Players {
		out.Players[i] = RoundResults{
			ID:               p.ID,
			Locked:           p.LockedMoney,
			WinningsPerRound: slices.Clone(p.WinningsPerRound),
			CashedOut:        p.CashedOut,
			BonusMedallions:  p.BonusMedallions,
		}
		if p.ID == playerID {
			hand, box := p.MoneyInHand, p.MoneyInBox
			out.MoneyInHand = &hand
			out.MoneyInBox = &box
		}
	}
	return out
}

func viewPickAPrize(m *PickAPrize, playerID string) *PickAPrizeView {
	out := &PickAPrizeView{
		Round:                 m.Round,
		MaxRounds:             m.MaxRounds(),
		Prizes:                slices.Clone(m.PrizesPerRound[m.Round]),
		PrizesPerRound:        make([][]Prize, len(m.PrizesPerRound)),
		BonusEligiblePerRound: slices.Clone(m.BonusEligiblePerRound),
		BoostedPerRound:       make([][]int, len(m.BoostedPerRound)),
		Players:               make([]RoundResults, len(m.Players)),
	}
	for i, prizes := range m.PrizesPerRound {
		out.PrizesPerRound[i] = slices.Clone(prizes)
	}
	for i, b := range m.BoostedPerRound {
		out.BoostedPerRound[i] = slices.Clone(b)
	}
	for i, p := range m.Players {
		out.Players[i] = RoundResults{
			ID:                 p.ID,
			Locked:             p.LockPrizeSelection,
			WinningsPerRound:   slices.Clone(p.WinningsPerRound),
			MedallionsPerRound: slices.Clone(p.MedallionsPerRound),
		}
		if p.ID == playerID && p.HasChosen {
			prize := p.ChosenPrize
			out.ChosenPrize = &prize
		}
	}
	return out
}

func viewMedallionVote(m *MedallionVote, playerID string) (*MedallionVoteView, *MedallionDecisionView, *MedallionVoterView) {
	public := &MedallionVoteView{
		Round:          m.Round,
		MaxRounds:      m.MaxRounds,
		DecisionPlayer: m.DecisionPlayer,
		Phase:          m.Phase,
		LockedDeposit:  m.LockedDeposit,
		Voters:         make([]VoterStatus, len(m.Voters)),
		YesPerRound:    slices.Clone(m.YesPerRound),
		Accepted:       m.Accepted,
	}
	for i, v := range m.Voters {
		public.Voters[i] = VoterStatus{ID: v.ID, LockedVote: v.LockedVote}
	}

	if playerID == m.DecisionPlayer {
		decision := &MedallionDecisionView{
			MoneyAllocation: m.MoneyAllocation,
			Boxes:           make([]VoterBox, len(m.Voters)),
		}
		for i, v := range m.Voters {
			decision.Boxes[i] = VoterBox{ID: v.ID, MoneyInBox: v.MoneyInBox, VotePerRound: slices.Clone(v.VotePerRound)}
		}
		return public, decision, nil
	}

	v, ok := m.voter(playerID)
	if !ok {
		return public, nil, nil
	}
	voter := &MedallionVoterView{
		MoneyInBoxPerRound: slices.Clone(v.MoneyInBoxPerRound),
		Vote:               v.Vote,
		HasVoted:           v.HasVoted,
		LockedVote:         v.LockedVote,
		VotePerRound:       slices.Clone(v.VotePerRound),
	}
	if n := len(v.MoneyInBoxPerRound); n > 0 {
		voter.Offer = v.MoneyInBoxPerRound[n-1]
	}
	return public, nil, voter
}
