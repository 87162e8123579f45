// Package ttypes contains shared types for the speech system.
// This package is used to break import cycles between the tts, stt, audio and result packages.
package ttypes

import (
	"fmt"
	"sort"
	"strings"
)

// EngineType represents the synthesis engine selection
type EngineType string

const (
	// EngineEspeak represents the espeak-ng formant synthesizer
	EngineEspeak EngineType = "espeak"

	// EnginePiper represents the Piper neural synthesizer
	EnginePiper EngineType = "piper"

	// EngineNone represents no engine selected
	EngineNone EngineType = ""
)

// String returns the engine name.
func (e EngineType) String() string {
	if e == EngineNone {
		return "none"
	}
	return string(e)
}

// ParseEngine normalizes an engine name and its aliases.
func ParseEngine(name string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "espeak", "espeak-ng", "formant":
		return EngineEspeak, nil
	case "piper", "neural":
		return EnginePiper, nil
	case "":
		return EngineNone, fmt.Errorf("%w: no engine given", ErrInvalidEngine)
	default:
		return EngineNone, fmt.Errorf("%w: %s\n\nSupported engines:\n  - espeak (formant, espeak-ng)\n  - piper (neural, onnx voices)", ErrInvalidEngine, name)
	}
}

// EncodingMethod describes how text reached a synthesis engine.
type EncodingMethod string

const (
	// EncodingDirect means text was passed as a command-line argument.
	EncodingDirect EncodingMethod = "direct"

	// EncodingFile means text was staged to a temporary file.
	EncodingFile EncodingMethod = "file"
)

// Guidance carries installation instructions attached to failures.
type Guidance struct {
	DownloadURL string            `json:"download_url,omitempty"`
	VoicesURL   string            `json:"voices_url,omitempty"`
	Steps       []string          `json:"setup_instructions,omitempty"`
	Platforms   map[string]string `json:"platforms,omitempty"`
}

// String renders the guidance as plain text.
func (g *Guidance) String() string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	if g.DownloadURL != "" {
		fmt.Fprintf(&b, "Download: %s\n", g.DownloadURL)
	}
	if g.VoicesURL != "" {
		fmt.Fprintf(&b, "Voices: %s\n", g.VoicesURL)
	}
	for _, step := range g.Steps {
		fmt.Fprintf(&b, "  %s\n", step)
	}
	for _, name := range sortedKeys(g.Platforms) {
		fmt.Fprintf(&b, "  %s: %s\n", name, g.Platforms[name])
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
