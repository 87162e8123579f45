package tts

import (
	"context"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Adapter is a synthesis engine. Each variant builds its own invocation
// and interprets its own outcome.
type Adapter interface {
	// Name returns the engine identifier.
	Name() ttypes.EngineType

	// Available reports whether the engine was found when the adapter was built.
	Available() bool

	// Synthesize runs one request. Failures are *ttypes.Error values.
	Synthesize(ctx context.Context, req Request) (*Synthesis, error)

	// Voices describes the installed voices.
	Voices(ctx context.Context) (*VoiceListing, error)

	// Installation returns setup instructions for this engine.
	Installation() *ttypes.Guidance
}

// Player plays an audio file to completion.
type Player interface {
	Play(ctx context.Context, path string) error
}

// VoiceListing describes the voices an engine can use.
type VoiceListing struct {
	Engine ttypes.EngineType `json:"engine"`

	// Languages maps a language prefix to its voice files.
	Languages map[string][]string `json:"languages,omitempty"`

	// Preferred maps a language to its preferred voice file.
	Preferred map[string]string `json:"preferred,omitempty"`

	VoicesDir  string `json:"voices_dir,omitempty"`
	Executable string `json:"executable,omitempty"`

	// Raw is the engine's own listing output.
	Raw string `json:"raw,omitempty"`
}
