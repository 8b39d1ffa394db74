package engine

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher/agent"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Update is published after every ply.
type Update struct {
	Step   int
	Player game.Player
	Move   game.Move
	Passed bool
	State  *game.GameState
	Hash   uint64
}

type Local struct {
	ID     uuid.UUID
	State  *game.GameState
	Agents [2]agent.Agent // Indexed like game.Players
	Rules  game.Rules

	// OnUpdate, if set, observes every ply
	OnUpdate func(Update)
}

func LocalEngine(agents [2]agent.Agent, state *game.GameState, rules game.Rules) *Local {
	for i, a := range agents {
		if a == nil {
			panic(fmt.Sprintf("no agent for player %s", game.Players[i]))
		}
	}
	if state.ToMove == game.None {
		panic("state has no player to move")
	}
	if rules.MaxTurns <= 0 {
		rules.MaxTurns = game.DefaultMaxTurns
	}

	return &Local{
		ID:     uuid.New(),
		State:  state,
		Agents: agents,
		Rules:  rules,
	}
}

// Run executes the entire game loop until a winner is found.
func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		ID:             e.ID,
		StartingPlayer: e.State.ToMove,
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric
	finish := func(winner game.Player) metrics.GameMetric {
		gameMetric.Winner = winner
		gameMetric.EndTime = time.Now()
		gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
		gameMetric.TotalMoves = len(moveMetrics)
		return gameMetric
	}

	log.Info().Msgf("game %s: player %s is starting", e.ID, e.State.ToMove)

	passes := 0
	for turn := 1; turn <= e.Rules.MaxTurns; turn++ {
		if e.State.Over() {
			break
		}
		if err := ctx.Err(); err != nil {
			return finish(game.None), moveMetrics, err
		}

		player := e.State.ToMove
		moves := e.State.LegalMoves()
		if len(moves) == 0 {
			if e.Rules.NoMoves == game.NoMovesLose {
				log.Info().Msgf("game %s: player %s has no legal moves and loses", e.ID, player)
				return finish(player.Opponent()), moveMetrics, nil
			}
			passes++
			e.State.Pass()
			e.publish(Update{Step: turn, Player: player, Passed: true})
			if passes >= len(game.Players) {
				log.Info().Msgf("game %s: neither player can move", e.ID)
				break
			}
			continue
		}
		passes = 0

		move, searchMetric, err := e.agentFor(player).FindMove(ctx, e.State)
		if err != nil {
			return finish(game.None), moveMetrics, fmt.Errorf("player %s at turn %d: %w", player, turn, err)
		}
		if !e.State.Grid.IsLegal(player, move.Row, move.Col) {
			return finish(game.None), moveMetrics, fmt.Errorf("%w: player %s played %v at turn %d", game.ErrIllegalMove, player, move, turn)
		}

		if err := e.State.Apply(move); err != nil {
			return finish(game.None), moveMetrics, err
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         turn,
			Player:       player,
			Move:         move,
			SearchMetric: searchMetric,
		})
		e.publish(Update{Step: turn, Player: player, Move: move})
	}

	winner := e.State.Winner()
	if winner == game.None && !e.State.Over() {
		log.Info().Msgf("game %s: stopped after %d moves without a winner", e.ID, len(moveMetrics))
	} else {
		log.Info().Msgf("game %s: player %s wins after %d moves", e.ID, winner, len(moveMetrics))
	}
	return finish(winner), moveMetrics, nil
}

func (e *Local) agentFor(player game.Player) agent.Agent {
	if player == game.PlayerB {
		return e.Agents[1]
	}
	return e.Agents[0]
}

func (e *Local) publish(u Update) {
	if e.OnUpdate == nil {
		return
	}
	u.State = e.State.Copy()
	u.Hash = e.State.Hash()
	e.OnUpdate(u)
}
