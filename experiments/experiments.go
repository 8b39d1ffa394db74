package experiments

import (
	"chainreaction/engine"
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher/agent"
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Tournament struct {
	Name     string
	Configs  []metrics.AgentConfig
	MatchUps [][2]metrics.AgentConfig
	Games    int // Per match up
	Parallel int
	Rows     int
	Cols     int
	Rules    game.Rules
	Weights  game.Weights
	Seed     uint64
}

type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// RoundRobin pairs every config with every later one.
func RoundRobin(configs []metrics.AgentConfig) [][2]metrics.AgentConfig {
	matchUps := [][2]metrics.AgentConfig{}
	for i := range configs {
		for j := i + 1; j < len(configs); j++ {
			matchUps = append(matchUps, [2]metrics.AgentConfig{configs[i], configs[j]})
		}
	}
	return matchUps
}

// Run plays every match up Games times, alternating which config moves
// first. Games are numbered from 1 in match up order regardless of the order
// they finish in.
func (t Tournament) Run(ctx context.Context) (Results, error) {
	if t.Games < 1 {
		return Results{}, fmt.Errorf("tournament %s: games per match up must be at least 1", t.Name)
	}
	parallel := max(t.Parallel, 1)
	total := len(t.MatchUps) * t.Games
	games := make([]metrics.GameRecord, total)
	moves := make([][]metrics.MoveRecord, total)

	log.Info().Msgf("starting %s tournament: %d match ups, %d games", t.Name, len(t.MatchUps), total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for mi, matchUp := range t.MatchUps {
		for i := range t.Games {
			index := mi*t.Games + i
			first, second := matchUp[0], matchUp[1]
			if i%2 == 1 {
				first, second = second, first
			}
			g.Go(func() error {
				gameMetric, moveMetrics, err := t.play(ctx, first, second, t.Seed+uint64(index)*2)
				if err != nil {
					return fmt.Errorf("game %d between %s and %s: %w", index+1, first, second, err)
				}
				games[index] = metrics.GameRecord{
					Game:       index + 1,
					Agent1:     first.ID,
					Agent2:     second.ID,
					GameMetric: gameMetric,
				}
				for _, mm := range moveMetrics {
					moves[index] = append(moves[index], metrics.MoveRecord{Game: index + 1, MoveMetric: mm})
				}
				log.Info().Msgf("completed game %d of %d: %s vs %s, winner %s", index+1, total, first, second, gameMetric.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	results := Results{Games: games}
	for _, m := range moves {
		results.Moves = append(results.Moves, m...)
	}
	log.Info().Msgf("completed %s tournament", t.Name)
	return results, nil
}

// play runs one game with first as PlayerA.
func (t Tournament) play(ctx context.Context, first, second metrics.AgentConfig, seed uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	agentA, err := agent.New(first, t.Weights, seed)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	agentB, err := agent.New(second, t.Weights, seed+1)
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	state := game.NewGameState(t.Rows, t.Cols, game.PlayerA)
	var e engine.Engine = engine.LocalEngine([2]agent.Agent{agentA, agentB}, state, t.Rules)
	return e.Run(ctx)
}

// Write stores the configs and results in a new experiment directory under
// root and returns it.
func (t Tournament) Write(root string, results Results) (string, error) {
	writer, err := metrics.NewWriter(root, t.Name)
	if err != nil {
		return "", err
	}
	if err := writer.WriteAgentConfigs(t.Configs); err != nil {
		return "", err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return "", err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return "", err
	}
	log.Info().Msg("stored move records")
	return writer.Dir(), nil
}

type Standing struct {
	Agent  int
	Wins   int
	Losses int
	Draws  int
}

// Standings tallies results per agent ID, best first.
func Standings(records []metrics.GameRecord) []Standing {
	byAgent := map[int]*Standing{}
	get := func(id int) *Standing {
		if s, ok := byAgent[id]; ok {
			return s
		}
		s := &Standing{Agent: id}
		byAgent[id] = s
		return s
	}
	for _, r := range records {
		a, b := get(r.Agent1), get(r.Agent2)
		switch r.Winner {
		case game.PlayerA:
			a.Wins++
			b.Losses++
		case game.PlayerB:
			b.Wins++
			a.Losses++
		default:
			a.Draws++
			b.Draws++
		}
	}

	standings := make([]Standing, 0, len(byAgent))
	for _, s := range byAgent {
		standings = append(standings, *s)
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Agent < standings[j].Agent
	})
	return standings
}
