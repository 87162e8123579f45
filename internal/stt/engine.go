// Package stt transcribes WAV files by streaming PCM chunks through a
// recognition engine.
package stt

// Engine is a streaming recognizer bound to one sample rate.
type Engine interface {
	// AcceptWaveform feeds 16-bit little-endian PCM. It reports true when an
	// utterance boundary was reached and Result holds its text.
	AcceptWaveform(pcm []byte) (bool, error)

	// Result returns the text of the utterance just completed.
	Result() (string, error)

	// FinalResult flushes buffered audio and returns any trailing text.
	FinalResult() (string, error)

	Close()
}

// Model is a loaded recognition model.
type Model interface {
	// NewEngine creates a recognizer for audio at sampleRate.
	NewEngine(sampleRate float64) (Engine, error)

	Close()
}

// ModelLoader loads the model stored in dir.
type ModelLoader func(dir string) (Model, error)
