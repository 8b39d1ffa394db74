package file

import (
	"chainreaction/communication"
	"chainreaction/game"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const DefaultPollInterval = 500 * time.Millisecond

// Communicator shares the game through a single state file. Writes go to a
// temporary file that is renamed over the state file, so readers never see
// a partial board from this side. The other side may still write in place;
// a malformed read is reported and retried on the next change.
type Communicator struct {
	path     string
	rows     int
	cols     int
	interval time.Duration
}

// New returns a communicator for path. rows and cols of zero infer the board
// size from the file; interval of zero uses DefaultPollInterval.
func New(path string, rows, cols int, interval time.Duration) *Communicator {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Communicator{
		path:     path,
		rows:     rows,
		cols:     cols,
		interval: interval,
	}
}

func (c *Communicator) Path() string {
	return c.path
}

func (c *Communicator) Read() (communication.Snapshot, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return communication.Snapshot{}, err
	}
	defer f.Close()

	header, grid, err := game.Decode(f, c.rows, c.cols)
	if err != nil {
		return communication.Snapshot{}, fmt.Errorf("read %s: %w", c.path, err)
	}
	return communication.Snapshot{Header: header, Grid: grid}, nil
}

func (c *Communicator) Write(snapshot communication.Snapshot) error {
	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := game.Encode(tmp, snapshot.Header, snapshot.Grid); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode board: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", c.path, err)
	}
	return nil
}

// Changes merges file system events for the state file with a polling
// ticker, which covers editors and mounts that do not emit events.
func (c *Communicator) Changes(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: atomic replacement swaps the inode under a file watch
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default: // A signal is already pending
		}
	}

	go func() {
		defer close(changes)
		defer watcher.Close()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		notify() // Let the reader pick up the current state
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(c.path) {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					notify()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msgf("file watcher error on %s", c.path)
			case <-ticker.C:
				notify()
			}
		}
	}()

	return changes, nil
}
