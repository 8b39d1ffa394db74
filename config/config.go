package config

import (
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/meta"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type Config struct {
	Board      Board        `yaml:"board"`
	Search     Search       `yaml:"search"`
	Weights    game.Weights `yaml:"weights"`
	Rules      Rules        `yaml:"rules"`
	Protocol   Protocol     `yaml:"protocol"`
	Server     Server       `yaml:"server"`
	Tournament Tournament   `yaml:"tournament"`
	Log        Log          `yaml:"log"`
}

type Board struct {
	Rows int `yaml:"rows" validate:"min=2,max=64"`
	Cols int `yaml:"cols" validate:"min=2,max=64"`
}

type Search struct {
	Depth     int           `yaml:"depth" validate:"min=1,max=16"`
	Heuristic string        `yaml:"heuristic" validate:"required"`
	TimeLimit time.Duration `yaml:"time_limit" validate:"gte=0"` // Zero searches to full depth
}

type Rules struct {
	NoMoves  string `yaml:"no_moves" validate:"oneof=lose pass"`
	MaxTurns int    `yaml:"max_turns" validate:"min=1"`
}

type Protocol struct {
	StateFile       string        `yaml:"state_file" validate:"required"`
	PollInterval    time.Duration `yaml:"poll_interval" validate:"gt=0"`
	MinReadInterval time.Duration `yaml:"min_read_interval" validate:"gte=0"`
	AIPlayer        string        `yaml:"ai_player" validate:"oneof=R B r b"`
	AgentURL        string        `yaml:"agent_url" validate:"omitempty,url"` // Empty searches in process
	AgentTimeout    time.Duration `yaml:"agent_timeout" validate:"gte=0"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"required"`
}

type Tournament struct {
	Games     int    `yaml:"games" validate:"min=1"`
	Parallel  int    `yaml:"parallel" validate:"min=1"`
	OutputDir string `yaml:"output_dir" validate:"required"`
	Seed      uint64 `yaml:"seed"`
}

type Log struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto console json"`
}

func Default() Config {
	return Config{
		Board: Board{Rows: meta.ROWS, Cols: meta.COLS},
		Search: Search{
			Depth:     meta.DEPTH,
			Heuristic: meta.HEURISTIC,
		},
		Weights: game.DefaultWeights(),
		Rules:   Rules{NoMoves: meta.NO_MOVES, MaxTurns: meta.MAX_TURNS},
		Protocol: Protocol{
			StateFile:       meta.STATE_FILE,
			PollInterval:    meta.POLL_INTERVAL,
			MinReadInterval: meta.MIN_READ_INTERVAL,
			AIPlayer:        meta.AI_PLAYER,
			AgentTimeout:    meta.AGENT_TIMEOUT,
		},
		Server: Server{Addr: meta.SERVER_ADDR},
		Tournament: Tournament{
			Games:     meta.GAMES,
			Parallel:  meta.PARALLEL_GAMES,
			OutputDir: meta.RESULTS_DIR,
			Seed:      1,
		},
		Log: Log{Level: "info", Format: "auto"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := game.Heuristic(c.Search.Heuristic); err != nil {
		return err
	}
	return nil
}

func (c Config) GameRules() game.Rules {
	policy, err := game.ParseNoMovePolicy(c.Rules.NoMoves)
	if err != nil {
		panic(err) // Rejected by Validate
	}
	return game.Rules{NoMoves: policy, MaxTurns: c.Rules.MaxTurns}
}

func (c Config) AIPlayer() game.Player {
	player, err := game.ParsePlayer(c.Protocol.AIPlayer)
	if err != nil {
		panic(err) // Rejected by Validate
	}
	return player
}

// SearchAgent describes the configured search agent.
func (c Config) SearchAgent(id int) metrics.AgentConfig {
	return metrics.AgentConfig{
		ID:        id,
		Kind:      metrics.SearchAgent,
		Depth:     c.Search.Depth,
		Heuristic: c.Search.Heuristic,
		TimeLimit: c.Search.TimeLimit,
	}
}

// Marshal renders the config as YAML, e.g. to seed a config file.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
