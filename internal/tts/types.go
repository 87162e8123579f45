// Package tts defines the synthesis request model shared by every engine
// adapter, along with input validation and tuning conversions.
package tts

import (
	"fmt"
	"hash/fnv"

	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Request is one synthesis call. Nil tuning fields take the engine's
// configured default; an explicit zero is passed through.
type Request struct {
	// Text to speak. Must contain something other than whitespace.
	Text string

	// Language is a short code such as "en" or "ar".
	Language string

	// OutputPath receives the WAV artifact. Ignored when PlayDirectly is set.
	OutputPath string

	// PlayDirectly routes audio to the default output instead of a file.
	PlayDirectly bool

	// Speed is words per minute for espeak and a rate multiplier for piper.
	Speed *float64

	// Pitch is the espeak pitch (0-99).
	Pitch *float64

	// Amplitude is the espeak amplitude (0-200).
	Amplitude *float64

	// NoiseScale is the piper noise scale (0-1).
	NoiseScale *float64

	// RequestID tags log lines for this request.
	RequestID string
}

// Synthesis is the outcome of a successful synthesis call.
type Synthesis struct {
	Engine         ttypes.EngineType
	Text           string
	Language       string
	VoiceModel     string
	FilePath       string
	FileSize       int64
	Played         bool
	EncodingMethod ttypes.EncodingMethod

	// Settings echoes the tuning parameters that reached the engine.
	Settings map[string]float64
}

// DefaultOutputPath derives an output file name from text. Different texts
// may collide; callers wanting a durable artifact pass an explicit path.
func DefaultOutputPath(text string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("tts_output_%d.wav", h.Sum32()%10000)
}
