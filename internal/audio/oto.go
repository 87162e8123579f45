//go:build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process, fixed to the format it was
// opened with.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat Format
	otoErr    error
)

func otoContext(f Format) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		})
		if err != nil {
			otoErr = fmt.Errorf("failed to create audio context: %w", err)
			return
		}
		<-ready
		otoCtx = ctx
		otoFormat = Format{SampleRate: f.SampleRate, Channels: f.Channels, BitDepth: 16}
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoFormat.SampleRate != f.SampleRate || otoFormat.Channels != f.Channels {
		return nil, fmt.Errorf("audio context already open at %s", otoFormat)
	}
	return otoCtx, nil
}

// InProcessCandidate plays WAV files through the system audio device
// without an external program.
type InProcessCandidate struct{}

// Name returns "oto".
func (InProcessCandidate) Name() string {
	return "oto"
}

// Play decodes path and blocks until playback finishes or ctx is done.
func (InProcessCandidate) Play(ctx context.Context, path string) error {
	r, err := OpenWAV(path)
	if err != nil {
		return err
	}
	defer r.Close()

	pcm, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	octx, err := otoContext(r.Format())
	if err != nil {
		return err
	}

	// pcm must stay referenced until the player is closed
	player := octx.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
