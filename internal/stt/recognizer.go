package stt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/audio"
	"github.com/dgnsrekt/offline-speech/internal/script"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Stream defaults.
const (
	DefaultSampleRate  = 16000
	DefaultChunkFrames = 4000
)

// RequiredFormat is the PCM profile recognition models are trained on.
var RequiredFormat = audio.Format{SampleRate: DefaultSampleRate, Channels: 1, BitDepth: 16}

// Transcription is the outcome of a successful recognition.
type Transcription struct {
	// Text is the transcript in logical order.
	Text string

	// DisplayText is Text shaped and reordered for display when the
	// language uses a complex script, otherwise equal to Text.
	DisplayText string

	Language string
	FilePath string
	Format   audio.Format
	Chunks   int
}

// Config holds recognizer settings.
type Config struct {
	Locator ModelLocator
	Loader  ModelLoader

	// SampleRate given to the engine (optional, defaults to 16000)
	SampleRate float64

	// ChunkFrames is the frame count per chunk (optional, defaults to 4000)
	ChunkFrames int

	Logger *log.Logger
}

// Recognizer transcribes WAV files. It keeps no per-request state.
type Recognizer struct {
	locator     ModelLocator
	loader      ModelLoader
	sampleRate  float64
	chunkFrames int
	logger      *log.Logger
}

// New returns a recognizer for cfg.
func New(cfg Config) *Recognizer {
	r := &Recognizer{
		locator:     cfg.Locator,
		loader:      cfg.Loader,
		sampleRate:  cfg.SampleRate,
		chunkFrames: cfg.ChunkFrames,
		logger:      cfg.Logger,
	}
	if r.locator.Models == nil {
		r.locator.Models = DefaultModels
	}
	if r.sampleRate <= 0 {
		r.sampleRate = DefaultSampleRate
	}
	if r.chunkFrames <= 0 {
		r.chunkFrames = DefaultChunkFrames
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	return r
}

// Locator returns the model locator.
func (r *Recognizer) Locator() ModelLocator {
	return r.locator
}

func recognitionError(err error) error {
	return ttypes.NewError(ttypes.ErrorCodeRecognition, "error processing audio file", err)
}

// Transcribe streams the WAV at path through the model for language.
// Engine and decoder failures, including panics, come back as
// RECOGNITION_ERROR.
func (r *Recognizer) Transcribe(ctx context.Context, path, language string) (tr *Transcription, err error) {
	defer func() {
		if p := recover(); p != nil {
			tr = nil
			err = recognitionError(fmt.Errorf("panic: %v", p))
		}
	}()

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ttypes.NewError(ttypes.ErrorCodeFileNotFound, fmt.Sprintf("audio file not found: %s", path), nil)
		}
		return nil, recognitionError(err)
	}

	reader, err := audio.OpenWAV(path)
	if err != nil {
		return nil, recognitionError(err)
	}
	defer reader.Close()

	format := reader.Format()
	if format != RequiredFormat {
		r.logger.Warn("audio file should be mono, 16-bit, 16kHz", "path", path, "format", format.String())
	}

	if r.loader == nil {
		return nil, recognitionError(errors.New("no recognition engine available"))
	}
	dir, err := r.locator.Locate(language)
	if err != nil {
		return nil, err
	}
	model, err := r.loader(dir)
	if err != nil {
		return nil, ttypes.NewError(ttypes.ErrorCodeRecognition,
			fmt.Sprintf("failed to load VOSK model for language '%s'", language), err)
	}
	defer model.Close()

	engine, err := model.NewEngine(r.sampleRate)
	if err != nil {
		return nil, recognitionError(err)
	}
	defer engine.Close()

	session := NewSession(engine)
	for {
		if err := ctx.Err(); err != nil {
			return nil, recognitionError(err)
		}
		chunk, err := reader.ReadFrames(r.chunkFrames)
		if err != nil {
			return nil, recognitionError(err)
		}
		if len(chunk) == 0 {
			break
		}
		if err := session.Accept(chunk); err != nil {
			return nil, recognitionError(err)
		}
	}

	text, err := session.Finalize()
	if err != nil {
		return nil, recognitionError(err)
	}

	display := text
	if text != "" && script.IsComplexLanguage(language) {
		display = script.Display(text)
	}

	r.logger.Debug("transcribed audio", "path", path, "chunks", session.Chunks(), "chars", len(text))
	return &Transcription{
		Text:        text,
		DisplayText: display,
		Language:    language,
		FilePath:    path,
		Format:      format,
		Chunks:      session.Chunks(),
	}, nil
}
