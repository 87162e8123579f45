package audio

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Dispatcher tries candidates in order until one plays the file.
type Dispatcher struct {
	candidates []Candidate
	logger     *log.Logger
}

// NewDispatcher returns a dispatcher over candidates.
func NewDispatcher(candidates []Candidate, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{candidates: candidates, logger: logger}
}

// Names returns the candidate names in the order they are tried.
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.candidates))
	for i, c := range d.candidates {
		names[i] = c.Name()
	}
	return names
}

// Play plays path with the first candidate that succeeds. It fails with
// NO_PLAYER_AVAILABLE only once every candidate has failed.
func (d *Dispatcher) Play(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return ttypes.NewError(ttypes.ErrorCodeFileNotFound, fmt.Sprintf("audio file not found: %s", path), err)
	}

	for _, c := range d.candidates {
		if err := c.Play(ctx, path); err != nil {
			d.logger.Debug("player failed", "player", c.Name(), "err", err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		d.logger.Debug("played audio", "player", c.Name(), "path", path)
		return nil
	}

	names := d.Names()
	return ttypes.NewError(ttypes.ErrorCodeNoPlayerAvailable,
		fmt.Sprintf("no audio player found, install one of: %v", names), nil).
		WithCandidates(names)
}
