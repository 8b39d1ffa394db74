package gamemaster

import (
	"chainreaction/communication"
	"chainreaction/game"
	"errors"
	"fmt"
)

var (
	ErrNotYourTurn = errors.New("not your turn")
	ErrGameOver    = errors.New("game is over")
)

// PlaceHuman plays move for the human side and hands the turn to the AI.
func PlaceHuman(comm communication.Communicator, human game.Player, move game.Move) (*game.GameState, error) {
	snapshot, err := comm.Read()
	if err != nil {
		return nil, err
	}
	if snapshot.HumanMoved() && snapshot.Grid.TotalOrbs() > 0 {
		return nil, fmt.Errorf("%w: waiting for the AI to move", ErrNotYourTurn)
	}

	state := game.Resume(snapshot.Grid, human)
	if state.Over() {
		return nil, fmt.Errorf("%w: player %s won", ErrGameOver, state.Winner())
	}
	next, err := state.Play(move)
	if err != nil {
		return nil, err
	}

	err = comm.Write(communication.Snapshot{Header: communication.HumanHeader, Grid: next.Grid})
	if err != nil {
		return nil, err
	}
	return next, nil
}
