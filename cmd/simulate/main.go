// Command simulate plays one complete seeded session with bots and prints
// every module outcome and the final standings.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/DoyleJ11/money-game-backend/internal/bot"
	"github.com/DoyleJ11/money-game-backend/internal/engine"
)

const maxSteps = 10000

func main() {
	players := flag.Int("players", 4, "number of bots")
	seed := flag.Uint64("seed", 1, "session seed")
	turns := flag.Int("turns", 4, "turns before the final vote")
	verbose := flag.Bool("verbose", false, "print every event")
	flag.Parse()

	if err := run(*players, *seed, *turns, *verbose); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(players int, seed uint64, turns int, verbose bool) error {
	rules := engine.DefaultRules()
	rules.TotalTurns = turns
	rules.AutoAdvance = true
	if players < rules.MinPlayers || players > rules.MaxPlayers {
		return fmt.Errorf("players must be between %d and %d", rules.MinPlayers, rules.MaxPlayers)
	}

	initial := engine.NewState(rules, seed)
	s := initial
	var journal []engine.Action

	apply := func(playerID string, cmd engine.Command) error {
		events, next, err := engine.Apply(s, playerID, cmd)
		if err != nil {
			return fmt.Errorf("%s by %s: %w", cmd.Type, playerID, err)
		}
		s = next
		journal = append(journal, engine.Action{PlayerID: playerID, Cmd: cmd})
		report(s, events, verbose)
		return nil
	}

	pterm.DefaultHeader.Println("Money Game simulation")
	pterm.Info.Printfln("seed %d, %d players, %d turns", seed, players, turns)

	bots := make([]*bot.Bot, players)
	for i := range bots {
		bots[i] = bot.New("bot"+strconv.Itoa(i+1), seed, uint64(i))
		if err := apply(bots[i].ID, engine.Command{Type: engine.CmdJoinGame}); err != nil {
			return err
		}
	}
	if err := apply(bots[0].ID, engine.Command{Type: engine.CmdStartGame}); err != nil {
		return err
	}

	for steps := 0; s.GameStatus != engine.GameFinished; steps++ {
		if steps >= maxSteps {
			return errors.New("game did not finish")
		}
		acted := false
		for _, b := range bots {
			for _, cmd := range b.Next(engine.BuildView(s, b.ID)) {
				if err := apply(b.ID, cmd); err != nil {
					return err
				}
				acted = true
			}
		}
		if !acted {
			if err := apply(bots[0].ID, engine.Command{Type: engine.CmdStartRound}); err != nil {
				return err
			}
		}
	}

	if err := renderResults(s); err != nil {
		return err
	}

	spinner, _ := pterm.DefaultSpinner.Start("Replaying journal ...")
	_, replayed, err := engine.Replay(initial, journal)
	if err != nil {
		spinner.Fail("replay failed")
		return err
	}
	if !reflect.DeepEqual(replayed, s) {
		spinner.Fail("replay diverged")
		return errors.New("replayed state differs from live state")
	}
	spinner.Success(fmt.Sprintf("replayed %d actions to an identical state", len(journal)))
	return nil
}

func report(s engine.State, events []engine.Event, verbose bool) {
	for _, e := range events {
		switch e.Type {
		case engine.EvtModuleStarted:
			pterm.DefaultSection.Printfln("Turn %d: %s", s.TurnNumber, e.Module)
		case engine.EvtWinnerDeclared, engine.EvtNoWinner, engine.EvtPaddlesRevealed,
			engine.EvtPrizeAwarded, engine.EvtBonusApplied, engine.EvtInterestPaid,
			engine.EvtVoteAccepted, engine.EvtVoteRejected:
			pterm.Info.Println(e.Message)
		case engine.EvtPayoutFailed:
			pterm.Warning.Println(e.Message)
		case engine.EvtModuleCompleted:
			pterm.Success.Println(e.Message)
			_ = standings(s).Render()
		default:
			if verbose && e.Message != "" {
				pterm.Debug.Println(e.Message)
			}
		}
	}
}

func standings(s engine.State) *pterm.TablePrinter {
	data := pterm.TableData{{"Player", "Money", "Medallions", "Status"}}
	for _, p := range s.Players {
		data = append(data, []string{p.ID, strconv.Itoa(p.Money), strconv.Itoa(p.Medallions), string(p.Status)})
	}
	data = append(data, []string{"bank", strconv.Itoa(s.Bank), strconv.Itoa(s.MedallionsAvailable), ""})
	return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data)
}

func renderResults(s engine.State) error {
	data := pterm.TableData{{"#", "Player", "Money", "Medallions"}}
	for i, r := range s.FinalResults {
		data = append(data, []string{strconv.Itoa(i + 1), r.PlayerID, strconv.Itoa(r.Score), strconv.Itoa(r.Medallions)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.DefaultBox.WithTitle(pterm.LightGreen("|FINAL RESULTS|")).WithTitleTopCenter().Println(table)
	return nil
}
