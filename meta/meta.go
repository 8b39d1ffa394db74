// meta/meta.go
package meta

import (
	"chainreaction/game"
	"time"
)

// ROWS and COLS are the canonical board size.
const ROWS = game.DefaultRows
const COLS = game.DefaultCols

// DEPTH is the default minimax search depth.
const DEPTH = 3

const HEURISTIC = game.WeightedHeuristic

// MAX_TURNS stops a game without a winner after this many plies.
const MAX_TURNS = game.DefaultMaxTurns

const NO_MOVES = "lose"

// STATE_FILE is shared by the human and the AI side of a turn-file game.
const STATE_FILE = "gamestate.txt"

const POLL_INTERVAL = 500 * time.Millisecond

// MIN_READ_INTERVAL throttles re-reads of the state file on bursts of events.
const MIN_READ_INTERVAL = 50 * time.Millisecond

const AI_PLAYER = "B"

const SERVER_ADDR = ":8080"

const AGENT_TIMEOUT = 30 * time.Second

// GAMES is the number of games per tournament matchup.
const GAMES = 10

const PARALLEL_GAMES = 4

const RESULTS_DIR = "results"
