//go:build !nocgo

// Package vosk loads Vosk models for the stt package.
package vosk

import (
	"encoding/json"
	"fmt"
	"os"

	vosk "github.com/alphacep/vosk-api/go"

	"github.com/dgnsrekt/offline-speech/internal/stt"
)

type result struct {
	Text string `json:"text"`
}

func parse(raw string) (string, error) {
	var r result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("invalid recognizer result: %w", err)
	}
	return r.Text, nil
}

// SetLogLevel sets the Kaldi log level. Negative values silence it.
func SetLogLevel(level int) {
	vosk.SetLogLevel(level)
}

// Model wraps a loaded Vosk model.
type Model struct {
	model *vosk.VoskModel
}

// Load satisfies stt.ModelLoader.
func Load(dir string) (stt.Model, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("vosk model not found: %s", dir)
	}
	m, err := vosk.NewModel(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load vosk model: %w", err)
	}
	return &Model{model: m}, nil
}

// NewEngine creates a recognizer at sampleRate.
func (m *Model) NewEngine(sampleRate float64) (stt.Engine, error) {
	rec, err := vosk.NewRecognizer(m.model, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to create vosk recognizer: %w", err)
	}
	return &Recognizer{rec: rec}, nil
}

// Close frees the model.
func (m *Model) Close() {
	if m.model != nil {
		m.model.Free()
		m.model = nil
	}
}

// Recognizer wraps a Vosk recognizer.
type Recognizer struct {
	rec *vosk.VoskRecognizer
}

// AcceptWaveform feeds PCM to the recognizer.
func (r *Recognizer) AcceptWaveform(pcm []byte) (bool, error) {
	switch r.rec.AcceptWaveform(pcm) {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, fmt.Errorf("vosk rejected audio chunk")
	}
}

// Result returns the completed utterance.
func (r *Recognizer) Result() (string, error) {
	return parse(r.rec.Result())
}

// FinalResult flushes and returns trailing text.
func (r *Recognizer) FinalResult() (string, error) {
	return parse(r.rec.FinalResult())
}

// Close frees the recognizer.
func (r *Recognizer) Close() {
	if r.rec != nil {
		r.rec.Free()
		r.rec = nil
	}
}
