package engine

import (
	"chainreaction/communication/client"
	"chainreaction/game"
	"chainreaction/searcher/agent"
	"time"
)

// RemoteEngine plays a game between two agent servers, one per player.
func RemoteEngine(urls [2]string, timeout time.Duration, state *game.GameState, rules game.Rules) *Local {
	var agents [2]agent.Agent
	for i, url := range urls {
		agents[i] = client.NewAgentClient(url, timeout)
	}
	return LocalEngine(agents, state, rules)
}
