package main

import (
	"chainreaction/communication/client"
	"chainreaction/communication/file"
	"chainreaction/config"
	"chainreaction/engine"
	"chainreaction/experiments"
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/gamemaster"
	"chainreaction/player"
	"chainreaction/searcher"
	"chainreaction/searcher/agent"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	configPath string
	logLevel   string
	depth      int
	heuristic  string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:           "chainreaction",
		Short:         "Chain Reaction engine with a minimax AI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML config file (defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level override: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().IntVar(&c.depth, "depth", 0, "Search depth override")
	rootCmd.PersistentFlags().StringVar(&c.heuristic, "heuristic", "", "Heuristic override, one of "+strings.Join(game.HeuristicNames(), ", "))

	rootCmd.AddCommand(
		c.bestMoveCmd(),
		c.placeCmd(),
		c.watchCmd(),
		c.playCmd(),
		c.selfPlayCmd(),
		c.serveCmd(),
		c.tournamentCmd(),
		c.throughputCmd(),
	)
	return rootCmd
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
	}
	if cmd.Flags().Changed("depth") {
		cfg.Search.Depth = c.depth
	}
	if c.heuristic != "" {
		cfg.Search.Heuristic = c.heuristic
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// aiAgent is the configured search agent, or a client of the configured
// agent server.
func (c *cli) aiAgent() (agent.Agent, error) {
	if c.cfg.Protocol.AgentURL != "" {
		log.Info().Msgf("using agent server %s", c.cfg.Protocol.AgentURL)
		return client.NewAgentClient(c.cfg.Protocol.AgentURL, c.cfg.Protocol.AgentTimeout), nil
	}
	return agent.New(c.cfg.SearchAgent(1), c.cfg.Weights, c.cfg.Tournament.Seed)
}

func (c *cli) communicator(path string) *file.Communicator {
	if path == "" {
		path = c.cfg.Protocol.StateFile
	}
	return file.New(path, c.cfg.Board.Rows, c.cfg.Board.Cols, c.cfg.Protocol.PollInterval)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func (c *cli) bestMoveCmd() *cobra.Command {
	var side string
	cmd := &cobra.Command{
		Use:   "bestmove [state file]",
		Short: "Prints the best move for a board in the turn-file format",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfg.Protocol.StateFile
			if len(args) == 1 {
				path = args[0]
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, grid, err := game.Decode(f, c.cfg.Board.Rows, c.cfg.Board.Cols)
			if err != nil {
				return err
			}

			toMove := c.cfg.AIPlayer()
			if side != "" {
				if toMove, err = game.ParsePlayer(side); err != nil {
					return err
				}
			}
			evaluate, err := game.Heuristic(c.cfg.Search.Heuristic)
			if err != nil {
				return err
			}
			if c.cfg.Search.Heuristic == game.WeightedHeuristic {
				evaluate = game.Weighted(c.cfg.Weights)
			}
			m := searcher.NewMinimax(searcher.WithDepth(c.cfg.Search.Depth), searcher.WithEvaluation(c.cfg.Search.Heuristic, evaluate))
			result, _, err := m.Search(game.Resume(grid, toMove))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&side, "player", "", "Side to move (R or B), defaults to the AI player")
	return cmd
}

func printResult(w io.Writer, result searcher.Result) error {
	if !result.Found {
		_, err := fmt.Fprintf(w, "no move (score %g)\n", result.Score)
		return err
	}
	_, err := fmt.Fprintf(w, "%d %d (score %g)\n", result.Move.Row, result.Move.Col, result.Score)
	return err
}

func (c *cli) placeCmd() *cobra.Command {
	var path string
	return &cobra.Command{
		Use:   "place ROW COL",
		Short: "Places a human orb in the state file and hands the turn to the AI",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			move, err := player.ParseMove(strings.Join(args, " "))
			if err != nil {
				return err
			}
			state, err := gamemaster.PlaceHuman(c.communicator(path), c.cfg.AIPlayer().Opponent(), move)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), player.Render(state.Grid))
			if state.Over() {
				fmt.Fprintf(cmd.OutOrStdout(), "player %s wins\n", state.Winner())
			}
			return nil
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var initialize bool
	cmd := &cobra.Command{
		Use:   "watch [state file]",
		Short: "Plays the AI side of a game through the state file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			a, err := c.aiAgent()
			if err != nil {
				return err
			}
			comm := c.communicator(path)
			gm := gamemaster.NewGameMaster(comm, a, c.cfg.AIPlayer(), c.cfg.Board.Rows, c.cfg.Board.Cols, c.cfg.Protocol.MinReadInterval)
			if initialize {
				if err := gm.InitializeGame(); err != nil {
					return err
				}
			}

			ctx, stop := signalContext()
			defer stop()
			log.Info().Msgf("watching %s as player %s", comm.Path(), c.cfg.AIPlayer())
			winner, err := gm.RunGame(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "player %s wins\n", winner)
			return nil
		},
	}
	cmd.Flags().BoolVar(&initialize, "init", false, "Start a new game before watching")
	return cmd
}

func (c *cli) playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Plays against the AI in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ai, err := c.aiAgent()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			human := player.NewHuman(cmd.InOrStdin(), out)

			var agents [2]agent.Agent
			if c.cfg.AIPlayer() == game.PlayerA {
				agents = [2]agent.Agent{ai, human}
			} else {
				agents = [2]agent.Agent{human, ai}
			}
			e := engine.LocalEngine(agents, game.NewGameState(c.cfg.Board.Rows, c.cfg.Board.Cols, game.PlayerA), c.cfg.GameRules())
			e.OnUpdate = func(u engine.Update) {
				if u.Player == c.cfg.AIPlayer() && !u.Passed {
					fmt.Fprintf(out, "AI plays %d %d\n", u.Move.Row, u.Move.Col)
				}
			}

			ctx, stop := signalContext()
			defer stop()
			gameMetric, _, err := e.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, player.Render(e.State.Grid))
			return printWinner(out, gameMetric)
		},
	}
}

func printWinner(w io.Writer, gameMetric metrics.GameMetric) error {
	if gameMetric.Winner == game.None {
		_, err := fmt.Fprintf(w, "no winner after %d moves\n", gameMetric.TotalMoves)
		return err
	}
	_, err := fmt.Fprintf(w, "player %s wins after %d moves\n", gameMetric.Winner, gameMetric.TotalMoves)
	return err
}

func (c *cli) selfPlayCmd() *cobra.Command {
	var remotes []string
	var quiet bool
	cmd := &cobra.Command{
		Use:   "selfplay",
		Short: "Plays the configured agent against itself, locally or across two agent servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := game.NewGameState(c.cfg.Board.Rows, c.cfg.Board.Cols, game.PlayerA)
			var e *engine.Local
			switch len(remotes) {
			case 0:
				var agents [2]agent.Agent
				for i := range agents {
					a, err := agent.New(c.cfg.SearchAgent(i+1), c.cfg.Weights, c.cfg.Tournament.Seed+uint64(i))
					if err != nil {
						return err
					}
					agents[i] = a
				}
				e = engine.LocalEngine(agents, state, c.cfg.GameRules())
			case 2:
				e = engine.RemoteEngine([2]string{remotes[0], remotes[1]}, c.cfg.Protocol.AgentTimeout, state, c.cfg.GameRules())
			default:
				return errors.New("--remote takes exactly two agent server URLs")
			}

			out := cmd.OutOrStdout()
			if !quiet {
				e.OnUpdate = func(u engine.Update) {
					if u.Passed {
						fmt.Fprintf(out, "%d. %s passes\n", u.Step, u.Player)
						return
					}
					fmt.Fprintf(out, "%d. %s %d %d\n%s\n", u.Step, u.Player, u.Move.Row, u.Move.Col, player.Render(u.State.Grid))
				}
			}

			ctx, stop := signalContext()
			defer stop()
			gameMetric, _, err := e.Run(ctx)
			if err != nil {
				return err
			}
			return printWinner(out, gameMetric)
		},
	}
	cmd.Flags().StringSliceVar(&remotes, "remote", nil, "Agent server URLs for R and B")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the result")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serves the configured search agent over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			a, err := agent.New(c.cfg.SearchAgent(1), c.cfg.Weights, c.cfg.Tournament.Seed)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			server := &http.Server{
				Addr:    addr,
				Handler: agent.NewRouter(a, c.cfg.Board.Rows, c.cfg.Board.Cols),
			}

			ctx, stop := signalContext()
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				log.Info().Msgf("agent server listening on %s", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			log.Info().Msg("shutting down agent server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, defaults to the configured one")
	return cmd
}

func (c *cli) tournamentCmd() *cobra.Command {
	var heuristics []string
	var games, parallel int
	var output string
	cmd := &cobra.Command{
		Use:   "tournament",
		Short: "Plays a round robin between a random baseline and one search agent per heuristic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs := []metrics.AgentConfig{{ID: 1, Kind: metrics.RandomAgent}}
			for i, name := range heuristics {
				config := c.cfg.SearchAgent(i + 2)
				config.Heuristic = name
				configs = append(configs, config)
			}
			t := experiments.Tournament{
				Name:     "tournament",
				Configs:  configs,
				MatchUps: experiments.RoundRobin(configs),
				Games:    c.cfg.Tournament.Games,
				Parallel: c.cfg.Tournament.Parallel,
				Rows:     c.cfg.Board.Rows,
				Cols:     c.cfg.Board.Cols,
				Rules:    c.cfg.GameRules(),
				Weights:  c.cfg.Weights,
				Seed:     c.cfg.Tournament.Seed,
			}
			if cmd.Flags().Changed("games") {
				t.Games = games
			}
			if cmd.Flags().Changed("parallel") {
				t.Parallel = parallel
			}
			if output == "" {
				output = c.cfg.Tournament.OutputDir
			}

			ctx, stop := signalContext()
			defer stop()
			results, err := t.Run(ctx)
			if err != nil {
				return err
			}
			dir, err := t.Write(output, results)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, s := range experiments.Standings(results.Games) {
				fmt.Fprintf(out, "%s: %d wins, %d losses, %d draws\n", configs[s.Agent-1], s.Wins, s.Losses, s.Draws)
			}
			fmt.Fprintf(out, "results written to %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&heuristics, "heuristics", []string{"orb_diff", "corner", game.WeightedHeuristic}, "Heuristics to enter")
	cmd.Flags().IntVar(&games, "games", 0, "Games per match up, defaults to the configured count")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "Games played at once, defaults to the configured count")
	cmd.Flags().StringVar(&output, "out", "", "Results directory, defaults to the configured one")
	return cmd
}

func (c *cli) throughputCmd() *cobra.Command {
	var positions int
	cmd := &cobra.Command{
		Use:   "throughput",
		Short: "Measures search speed from depth 1 up to the configured depth",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var configs []metrics.AgentConfig
			for depth := 1; depth <= c.cfg.Search.Depth; depth++ {
				config := c.cfg.SearchAgent(depth)
				config.Depth = depth
				configs = append(configs, config)
			}
			states := experiments.Positions(c.cfg.Board.Rows, c.cfg.Board.Cols, positions, c.cfg.Tournament.Seed)
			results, err := experiments.RunThroughput(configs, c.cfg.Weights, states)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "depth %d: %d nodes, %d cutoffs, %.0f nodes/s\n", r.Config.Depth, r.Nodes, r.Cutoffs, r.NodesPerSecond())
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&positions, "positions", 20, "Number of sampled positions")
	return cmd
}
