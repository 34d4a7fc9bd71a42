package types

// StateSnapshot.view:
//   self: Player | null  // null for watchers
//   players: { id, money, medallions, status, locked_trade }[]
//   bank: number
//   medallions_available: number
//   turn_number: number
//   total_turns: number
//   game_status: "waiting" | "in_progress" | "finished"
//   round_status: "waiting" | "active" | "completed"
//   current_module: "TRADING" | "PRIZE_DRAW" | "LOWEST_UNIQUE_BID" |
//                   "MAGIC_MONEY_MACHINE" | "PICK_A_PRIZE" |
//                   "MEDALLION_MAJORITY_VOTE" | "FINAL_RESULTS"
//   modules_played: string[]
//
//   at most one module section, private fields only filled for self:
//   prize_draw: { round, max_rounds, pots_per_round, winner_per_round, tickets?, players[] }
//   lowest_unique_bid: { round, paddles_to_choose_from, revealed_paddles, chosen_paddle?, players[] }
//   magic_money_machine: { round, interest_per_round, total_payout_per_round, money_in_hand?, money_in_box?, players[] }
//   pick_a_prize: { round, prizes, bonus_eligible_per_round, boosted_per_round, chosen_prize?, players[] }
//   medallion_vote: { round, max_rounds, decision_player, phase, locked_deposit, voters[], yes_per_round, accepted }
//   medallion_decision: { money_allocation, boxes[] }          // decision player only
//   medallion_voter: { offer, money_in_box_per_round, vote, has_voted, ... }  // voters only
//
//   players[] in module sections: { id, locked, winnings_per_round, medallions_per_round }
//
//   final_results: { player_id, score, medallions }[]  // once FINISHED
