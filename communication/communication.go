package communication

import (
	"chainreaction/game"
	"context"
	"strings"
)

// Headers tag whose move a snapshot records.
const (
	HumanHeader = "Human Move:"
	AIHeader    = "AI Move:"
)

// Snapshot is one persisted board together with its header line.
type Snapshot struct {
	Header string
	Grid   *game.Grid
}

// HumanMoved reports whether the header starts with the human marker, e.g.
// "Human Move: 3 2". Case and leading space are ignored.
func (s Snapshot) HumanMoved() bool {
	marker := strings.ToLower(strings.TrimSuffix(HumanHeader, ":"))
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.Header)), marker)
}

// Communicator is an interface that abstracts the communication mechanism
// between the human side and the AI side of a game.
type Communicator interface {
	Read() (Snapshot, error)
	Write(snapshot Snapshot) error
	// Changes signals (possibly spuriously) that the snapshot may have
	// changed. The channel is closed when ctx is done.
	Changes(ctx context.Context) (<-chan struct{}, error)
}
