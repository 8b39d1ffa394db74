package experiments

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundRobin(t *testing.T) {
	configs := []metrics.AgentConfig{{ID: 1}, {ID: 2}, {ID: 3}}

	matchUps := RoundRobin(configs)

	require.Len(t, matchUps, 3)
	require.Equal(t, 1, matchUps[0][0].ID)
	require.Equal(t, 2, matchUps[0][1].ID)
	require.Equal(t, 2, matchUps[2][0].ID)
	require.Equal(t, 3, matchUps[2][1].ID)
}

func TestTournament(t *testing.T) {
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.RandomAgent},
		{ID: 2, Kind: metrics.SearchAgent, Depth: 1, Heuristic: "orb_diff"},
	}
	tournament := Tournament{
		Name:     "test",
		Configs:  configs,
		MatchUps: RoundRobin(configs),
		Games:    4,
		Parallel: 2,
		Rows:     4,
		Cols:     4,
		Rules:    game.NewStandardRules(),
		Weights:  game.DefaultWeights(),
		Seed:     7,
	}

	results, err := tournament.Run(context.Background())

	require.NoError(t, err)
	require.Len(t, results.Games, 4)
	for i, record := range results.Games {
		require.Equal(t, i+1, record.Game)
		require.NotEqual(t, game.None, record.Winner, "Games on a small board should finish")
		require.Positive(t, record.TotalMoves)
		if i%2 == 0 {
			require.Equal(t, 1, record.Agent1)
		} else {
			require.Equal(t, 2, record.Agent1, "Starting side should alternate")
		}
	}
	total := 0
	for _, record := range results.Games {
		total += record.TotalMoves
	}
	require.Len(t, results.Moves, total)

	standings := Standings(results.Games)
	require.Len(t, standings, 2)
	require.Equal(t, 4, standings[0].Wins+standings[0].Losses+standings[0].Draws)

	t.Run("writes the results", func(t *testing.T) {
		dir, err := tournament.Write(t.TempDir(), results)
		require.NoError(t, err)
		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv"} {
			_, err := os.Stat(filepath.Join(dir, name))
			require.NoError(t, err)
		}
	})

	t.Run("rejects an unknown heuristic", func(t *testing.T) {
		bad := tournament
		bad.Configs = []metrics.AgentConfig{{ID: 1, Kind: metrics.SearchAgent, Depth: 1, Heuristic: "material"}, configs[0]}
		bad.MatchUps = RoundRobin(bad.Configs)
		bad.Games = 1
		_, err := bad.Run(context.Background())
		require.ErrorIs(t, err, game.ErrUnknownHeuristic)
	})
}

func TestStandings(t *testing.T) {
	records := []metrics.GameRecord{
		{Agent1: 1, Agent2: 2, GameMetric: metrics.GameMetric{Winner: game.PlayerB}},
		{Agent1: 2, Agent2: 1, GameMetric: metrics.GameMetric{Winner: game.PlayerA}},
		{Agent1: 1, Agent2: 2, GameMetric: metrics.GameMetric{Winner: game.None}},
	}

	standings := Standings(records)

	require.Equal(t, []Standing{
		{Agent: 2, Wins: 2, Draws: 1},
		{Agent: 1, Losses: 2, Draws: 1},
	}, standings)
}

func TestThroughput(t *testing.T) {
	positions := Positions(5, 5, 4, 3)
	require.Len(t, positions, 4)
	for _, p := range positions {
		require.False(t, p.Over())
	}

	configs := []metrics.AgentConfig{
		{ID: 1, Kind: metrics.SearchAgent, Depth: 1, Heuristic: "weighted"},
		{ID: 2, Kind: metrics.SearchAgent, Depth: 2, Heuristic: "orb_diff"},
	}
	results, err := RunThroughput(configs, game.DefaultWeights(), positions)

	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, 4, results[0].Positions)
	require.Greater(t, results[1].Nodes, results[0].Nodes, "Deeper search should visit more nodes")

	_, err = RunThroughput([]metrics.AgentConfig{{ID: 3, Depth: 0, Heuristic: "weighted"}}, game.DefaultWeights(), positions)
	require.Error(t, err)
}
