package client

import (
	"bytes"
	"chainreaction/experiments/metrics"
	"chainreaction/game"
	"chainreaction/searcher/agent"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AgentClient asks a remote agent server for moves.
type AgentClient struct {
	serverURL string
	client    *http.Client
}

// NewAgentClient initializes and returns a new AgentClient. A zero timeout
// leaves requests bounded by the caller's context only.
func NewAgentClient(serverURL string, timeout time.Duration) *AgentClient {
	return &AgentClient{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    &http.Client{Timeout: timeout},
	}
}

func (ac *AgentClient) FindMove(ctx context.Context, state *game.GameState) (game.Move, metrics.SearchMetric, error) {
	data, err := json.Marshal(agent.MoveRequest{
		Board:  state.Grid.Lines(),
		Player: state.ToMove.String(),
	})
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ac.serverURL+"/findmove", bytes.NewReader(data))
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := ac.client.Do(req)
	if err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var moveResp agent.MoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&moveResp); err != nil {
		return game.Move{}, metrics.SearchMetric{}, fmt.Errorf("failed to decode agent response: %w", err)
	}
	metric := metrics.SearchMetric{
		CompletedDepth: moveResp.Depth,
		Nodes:          moveResp.Nodes,
		Score:          moveResp.Score,
		Duration:       time.Since(start),
	}
	if !moveResp.Found {
		return game.Move{}, metric, game.ErrNoLegalMoves
	}
	return moveResp.Move, metric, nil
}
