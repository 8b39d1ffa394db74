package main

import (
	"bytes"
	"chainreaction/gamemaster"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func smallBoardConfig(t *testing.T, dir string) string {
	t.Helper()
	return writeFile(t, dir, "config.yaml", "board:\n  rows: 3\n  cols: 3\nlog:\n  level: error\n  format: json\n")
}

func TestBestMoveCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := smallBoardConfig(t, dir)
	state := writeFile(t, dir, "state.txt", "Human Move:\n1R 1B 0\n0 0 0\n0 0 0\n")

	out, err := run(t, "--config", cfg, "--depth", "1", "--heuristic", "orb_diff", "bestmove", "--player", "R", state)

	require.NoError(t, err)
	require.Equal(t, "0 0 (score 3)\n", out)

	t.Run("rejects an invalid depth", func(t *testing.T) {
		_, err := run(t, "--config", cfg, "--depth", "0", "bestmove", state)
		require.Error(t, err)
	})

	t.Run("missing state file", func(t *testing.T) {
		_, err := run(t, "--config", cfg, "bestmove", filepath.Join(dir, "absent.txt"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestPlaceCommand(t *testing.T) {
	dir := t.TempDir()
	state := writeFile(t, dir, "state.txt", "AI Move:\n0 0 0\n0 0 0\n0 0 0\n")

	cfgWithState := writeFile(t, dir, "config_state.yaml", "board:\n  rows: 3\n  cols: 3\nprotocol:\n  state_file: '"+state+"'\nlog:\n  level: error\n  format: json\n")

	_, err := run(t, "--config", cfgWithState, "place", "1", "1")
	require.NoError(t, err)

	data, err := os.ReadFile(state)
	require.NoError(t, err)
	require.Equal(t, "Human Move:\n0 0 0\n0 1R 0\n0 0 0\n", string(data))

	_, err = run(t, "--config", cfgWithState, "place", "0", "0")
	require.ErrorIs(t, err, gamemaster.ErrNotYourTurn)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setupLogger("info", "json", &buf))
	require.False(t, isTerminal(&buf))
	require.Error(t, setupLogger("loud", "json", &buf))
}

func TestSelfPlayCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := smallBoardConfig(t, dir)

	out, err := run(t, "--config", cfg, "--depth", "1", "selfplay", "--quiet")

	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "player "), out)

	_, err = run(t, "--config", cfg, "selfplay", "--remote", "http://localhost:1")
	require.Error(t, err)
}
