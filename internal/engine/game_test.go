package engine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/money-game-backend/internal/bot"
	"github.com/DoyleJ11/money-game-backend/internal/engine"
)

type playedGame struct {
	initial engine.State
	final   engine.State
	actions []engine.Action
	events  []engine.Event
}

// playGame runs a complete session with bots, checking the economy
// invariants after every accepted command.
func playGame(t *testing.T, rules engine.Rules, seed uint64, players int) playedGame {
	t.Helper()
	g := playedGame{initial: engine.NewState(rules, seed)}
	s := g.initial
	bank := s.TotalMoney()

	apply := func(playerID string, cmd engine.Command) {
		t.Helper()
		events, next, err := engine.Apply(s, playerID, cmd)
		require.NoError(t, err, "%s by %s", cmd.Type, playerID)
		s = next
		g.actions = append(g.actions, engine.Action{PlayerID: playerID, Cmd: cmd})
		g.events = append(g.events, events...)

		require.LessOrEqual(t, s.TotalMoney(), bank, "money was minted by %s", cmd.Type)
		require.Equal(t, rules.TotalMedallions, s.TotalMedallions())
		require.GreaterOrEqual(t, s.Bank, 0)
		for _, p := range s.Players {
			require.GreaterOrEqual(t, p.Money, 0)
			require.GreaterOrEqual(t, p.Medallions, 0)
		}
	}

	bots := make([]*bot.Bot, players)
	for i := range bots {
		bots[i] = bot.New(fmt.Sprintf("p%d", i+1), seed, uint64(i))
		apply(bots[i].ID, engine.Command{Type: engine.CmdJoinGame})
	}
	apply(bots[0].ID, engine.Command{Type: engine.CmdStartGame})

	for steps := 0; s.GameStatus != engine.GameFinished; steps++ {
		require.Less(t, steps, 10000, "game did not finish")
		acted := false
		for _, b := range bots {
			for _, cmd := range b.Next(engine.BuildView(s, b.ID)) {
				apply(b.ID, cmd)
				acted = true
			}
		}
		if !acted {
			require.Equal(t, engine.RoundCompleted, s.RoundStatus, "nobody can act in %s", s.CurrentModule)
			apply(bots[0].ID, engine.Command{Type: engine.CmdStartRound})
		}
	}
	g.final = s
	return g
}

func TestWholeGame(t *testing.T) {
	cases := []struct {
		name    string
		players int
		seed    uint64
		rules   func() engine.Rules
	}{
		{name: "two players", players: 2, seed: 1, rules: engine.DefaultRules},
		{name: "full room", players: 8, seed: 2, rules: engine.DefaultRules},
		{name: "auto advance over two cycles", players: 4, seed: 3, rules: func() engine.Rules {
			r := engine.DefaultRules()
			r.AutoAdvance = true
			r.TotalTurns = 8
			return r
		}},
		{name: "no cycle reset", players: 3, seed: 4, rules: func() engine.Rules {
			r := engine.DefaultRules()
			r.CycleReset = false
			r.TotalTurns = 6
			return r
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := tc.rules()
			g := playGame(t, rules, tc.seed, tc.players)

			assert.Equal(t, engine.GameFinished, g.final.GameStatus)
			assert.Equal(t, engine.ModuleFinalResults, g.final.CurrentModule)
			assert.Equal(t, rules.TotalTurns, g.final.TurnNumber)
			assert.Len(t, g.final.FinalResults, tc.players)
			for i := 1; i < len(g.final.FinalResults); i++ {
				assert.GreaterOrEqual(t, g.final.FinalResults[i-1].Score, g.final.FinalResults[i].Score)
			}
			assert.True(t, engine.ContainsEvent(g.events, engine.EvtGameFinished))
			assert.Equal(t, rules.StartingBank, g.final.TotalMoney())
		})
	}
}

func TestCycleCoversEveryModule(t *testing.T) {
	rules := engine.DefaultRules()
	rules.TotalTurns = len(engine.RotatingModules)
	g := playGame(t, rules, 11, 3)

	assert.ElementsMatch(t, engine.RotatingModules, g.final.ModulesPlayed)
}

func TestReplayReproducesSession(t *testing.T) {
	g := playGame(t, engine.DefaultRules(), 99, 5)

	events, replayed, err := engine.Replay(g.initial, g.actions)
	require.NoError(t, err)
	assert.Equal(t, g.final, replayed)
	assert.Equal(t, g.events, events)
}

func TestReplayStopsAtFirstRejectedAction(t *testing.T) {
	s := engine.NewEmptyState()
	actions := []engine.Action{
		{PlayerID: "a", Cmd: engine.Command{Type: engine.CmdJoinGame}},
		{PlayerID: "a", Cmd: engine.Command{Type: engine.CmdStartGame}},
	}

	_, last, err := engine.Replay(s, actions)
	require.ErrorIs(t, err, engine.ErrNotEnoughPlayers)
	assert.Len(t, last.Players, 1)
	assert.Equal(t, engine.GameWaiting, last.GameStatus)
}

func TestSameSeedSameGame(t *testing.T) {
	a := playGame(t, engine.DefaultRules(), 5, 4)
	b := playGame(t, engine.DefaultRules(), 5, 4)
	assert.Equal(t, a.final, b.final)
}
