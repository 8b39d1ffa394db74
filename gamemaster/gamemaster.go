package gamemaster

import (
	"chainreaction/communication"
	"chainreaction/game"
	"chainreaction/searcher/agent"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Status describes what a single Step did.
type Status int

const (
	// Waiting means it is not the AI's turn yet.
	Waiting Status = iota
	// Moved means the AI played and wrote its move.
	Moved
	// Finished means the game is over; Winner is set.
	Finished
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Moved:
		return "moved"
	case Finished:
		return "finished"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

type StepResult struct {
	Status Status
	Move   game.Move
	Winner game.Player
}

// GameMaster plays the AI side of a game shared through a Communicator. It
// only moves when the snapshot header records a human move and the board
// shows that the human has placed at least one orb.
type GameMaster struct {
	Communicator communication.Communicator
	Agent        agent.Agent
	AI           game.Player
	Rows         int
	Cols         int

	limiter *rate.Limiter
}

// NewGameMaster initializes a new GameMaster. Snapshots are re-read at most
// every minInterval however many change events arrive.
func NewGameMaster(comm communication.Communicator, a agent.Agent, ai game.Player, rows, cols int, minInterval time.Duration) *GameMaster {
	if ai != game.PlayerA && ai != game.PlayerB {
		panic(fmt.Sprintf("AI must play R or B, got %s", ai))
	}
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &GameMaster{
		Communicator: comm,
		Agent:        a,
		AI:           ai,
		Rows:         rows,
		Cols:         cols,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// InitializeGame writes an empty board handed to the human.
func (gm *GameMaster) InitializeGame() error {
	return gm.Communicator.Write(communication.Snapshot{
		Header: communication.HumanHeader,
		Grid:   game.NewGrid(gm.Rows, gm.Cols),
	})
}

// Step reads the current snapshot once and replies if it is the AI's turn.
func (gm *GameMaster) Step(ctx context.Context) (StepResult, error) {
	snapshot, err := gm.Communicator.Read()
	if err != nil {
		return StepResult{}, err
	}
	human := gm.AI.Opponent()

	if !snapshot.HumanMoved() || snapshot.Grid.CountOrbs(human) == 0 {
		if state := game.Resume(snapshot.Grid, human); state.Over() {
			return StepResult{Status: Finished, Winner: state.Winner()}, nil
		}
		return StepResult{Status: Waiting}, nil
	}

	state := game.Resume(snapshot.Grid, gm.AI)
	if state.Over() {
		log.Info().Msgf("player %s wins", state.Winner())
		return StepResult{Status: Finished, Winner: state.Winner()}, nil
	}

	move, metric, err := gm.Agent.FindMove(ctx, state)
	if errors.Is(err, game.ErrNoLegalMoves) {
		log.Info().Msgf("AI (%s) has no legal moves and resigns", gm.AI)
		return StepResult{Status: Finished, Winner: human}, nil
	}
	if err != nil {
		return StepResult{}, err
	}

	next, err := state.Play(move)
	if err != nil {
		return StepResult{}, fmt.Errorf("AI move %v: %w", move, err)
	}
	err = gm.Communicator.Write(communication.Snapshot{Header: communication.AIHeader, Grid: next.Grid})
	if err != nil {
		return StepResult{}, err
	}

	log.Info().
		Str("move", move.String()).
		Float64("score", metric.Score).
		Int("depth", metric.CompletedDepth).
		Int("nodes", metric.Nodes).
		Dur("duration", metric.Duration).
		Msgf("AI (%s) moved", gm.AI)

	result := StepResult{Status: Moved, Move: move}
	if next.Over() {
		result.Winner = next.Winner()
		log.Info().Msgf("player %s wins", result.Winner)
	}
	return result, nil
}

// RunGame replies to every human move until the game ends or ctx is done.
// Unreadable snapshots are logged and retried on the next change.
func (gm *GameMaster) RunGame(ctx context.Context) (game.Player, error) {
	changes, err := gm.Communicator.Changes(ctx)
	if err != nil {
		return game.None, err
	}

	for range changes {
		if err := gm.limiter.Wait(ctx); err != nil {
			break
		}
		result, err := gm.Step(ctx)
		switch {
		case errors.Is(err, os.ErrNotExist), errors.Is(err, game.ErrMalformedState):
			log.Warn().Err(err).Msg("skipping unreadable game state")
			continue
		case err != nil:
			return game.None, err
		}
		if result.Status == Finished || result.Winner != game.None {
			return result.Winner, nil
		}
	}
	return game.None, ctx.Err()
}
