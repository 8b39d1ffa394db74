package file

import (
	"chainreaction/communication"
	"chainreaction/game"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamestate.txt")
	c := New(path, 3, 3, 0)

	g := game.NewGrid(3, 3)
	require.NoError(t, g.ApplyMove(game.PlayerA, 1, 1))
	require.NoError(t, c.Write(communication.Snapshot{Header: communication.HumanHeader, Grid: g}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Human Move:\n0 0 0\n0 1R 0\n0 0 0\n", string(data))

	snapshot, err := c.Read()
	require.NoError(t, err)
	require.True(t, snapshot.HumanMoved())
	require.True(t, g.Equal(snapshot.Grid))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "Temporary files should be cleaned up")
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := New(filepath.Join(dir, "absent.txt"), 0, 0, 0).Read()
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("wrong board size", func(t *testing.T) {
		path := filepath.Join(dir, "small.txt")
		require.NoError(t, os.WriteFile(path, []byte("AI Move:\n0 0\n0 0\n"), 0644))
		_, err := New(path, 9, 6, 0).Read()
		require.ErrorIs(t, err, game.ErrMalformedState)
	})
}

func TestChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gamestate.txt")
	c := New(path, 2, 2, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := c.Changes(ctx)
	require.NoError(t, err)

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("expected an initial signal")
	}

	require.NoError(t, c.Write(communication.Snapshot{Header: communication.AIHeader, Grid: game.NewGrid(2, 2)}))
	select {
	case _, ok := <-changes:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a signal after writing the state file")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-changes:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond, "Channel should close with the context")
}

func TestHumanMoved(t *testing.T) {
	require.True(t, communication.Snapshot{Header: " human move: "}.HumanMoved())
	require.True(t, communication.Snapshot{Header: "Human Move: 3 2"}.HumanMoved())
	require.True(t, communication.Snapshot{Header: "HUMAN MOVE"}.HumanMoved())
	require.False(t, communication.Snapshot{Header: communication.AIHeader}.HumanMoved())
	require.False(t, communication.Snapshot{Header: "AI Move: after Human Move"}.HumanMoved())
	require.False(t, communication.Snapshot{Header: "Human"}.HumanMoved())
}
