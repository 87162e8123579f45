// Package speech wires configuration to the engine adapters, the
// recognizer and the playback chain, and turns every outcome into a
// result record.
package speech

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/dgnsrekt/offline-speech/internal/audio"
	"github.com/dgnsrekt/offline-speech/internal/config"
	"github.com/dgnsrekt/offline-speech/internal/convert"
	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/result"
	"github.com/dgnsrekt/offline-speech/internal/staging"
	"github.com/dgnsrekt/offline-speech/internal/stt"
	"github.com/dgnsrekt/offline-speech/internal/stt/vosk"
	"github.com/dgnsrekt/offline-speech/internal/tts"
	"github.com/dgnsrekt/offline-speech/internal/tts/engines"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// previewWidth bounds the text echoed in log lines.
const previewWidth = 40

// Options override collaborators, mainly for tests.
type Options struct {
	Runner process.Runner
	Loader stt.ModelLoader

	// Candidates replaces the configured player chain.
	Candidates []audio.Candidate

	Logger *log.Logger
	GOOS   string
}

// Service runs speech operations. Adapters are built on first use and
// reused; each call keeps its own staged files and invocation.
type Service struct {
	cfg        config.Config
	runner     process.Runner
	stager     *staging.Stager
	dispatcher *audio.Dispatcher
	recognizer *stt.Recognizer
	converter  *convert.Converter
	logger     *log.Logger
	goos       string

	mu       sync.Mutex
	adapters map[ttypes.EngineType]tts.Adapter
}

// New builds a service from cfg.
func New(cfg config.Config, opts Options) (*Service, error) {
	s := &Service{
		cfg:      cfg,
		runner:   opts.Runner,
		logger:   opts.Logger,
		goos:     opts.GOOS,
		adapters: make(map[ttypes.EngineType]tts.Adapter),
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.goos == "" {
		s.goos = runtime.GOOS
	}
	if s.runner == nil {
		s.runner = process.NewExecRunner(s.logger)
	}

	s.stager = staging.New(cfg.Staging.Dir, cfg.Staging.BOM, s.logger)

	candidates := opts.Candidates
	if candidates == nil {
		var err error
		candidates, err = Players(cfg.Audio, s.runner)
		if err != nil {
			return nil, err
		}
	}
	s.dispatcher = audio.NewDispatcher(candidates, s.logger)

	loader := opts.Loader
	if loader == nil {
		loader = vosk.Load
	}
	s.recognizer = stt.New(stt.Config{
		Locator: stt.ModelLocator{
			Models:      cfg.Vosk.Models,
			SearchPaths: stt.DefaultSearchPaths(cfg.Vosk.ModelsDir),
		},
		Loader:      loader,
		SampleRate:  float64(cfg.Vosk.SampleRate),
		ChunkFrames: cfg.Vosk.ChunkFrames,
		Logger:      s.logger,
	})
	s.converter = convert.New(cfg.Converter.Binary, cfg.Staging.Dir, cfg.Vosk.SampleRate, s.runner, s.logger)

	return s, nil
}

// Players builds the playback chain from cfg.
func Players(cfg config.AudioConfig, runner process.Runner) ([]audio.Candidate, error) {
	commands, err := audio.CommandCandidates(cfg.Players, runner)
	if err != nil {
		return nil, fmt.Errorf("invalid player command: %w", err)
	}
	if !cfg.InProcess {
		return commands, nil
	}
	return append([]audio.Candidate{audio.InProcessCandidate{}}, commands...), nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() config.Config {
	return s.cfg
}

// Dispatcher returns the playback chain.
func (s *Service) Dispatcher() *audio.Dispatcher {
	return s.dispatcher
}

// Adapter returns the adapter for engine, creating it on first use.
func (s *Service) Adapter(ctx context.Context, engine ttypes.EngineType) (tts.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.adapters[engine]; ok {
		return a, nil
	}

	var a tts.Adapter
	switch engine {
	case ttypes.EngineEspeak:
		a = engines.NewEspeak(ctx, engines.EspeakConfig{
			Binary:    s.cfg.Espeak.Binary,
			Speed:     tts.Float(s.cfg.Espeak.Speed),
			Pitch:     tts.Float(s.cfg.Espeak.Pitch),
			Amplitude: tts.Float(s.cfg.Espeak.Amplitude),
			Voices:    s.cfg.Espeak.Voices,
			Stager:    s.stager,
			Runner:    s.runner,
			Logger:    s.logger,
			GOOS:      s.goos,
		})
	case ttypes.EnginePiper:
		// piper reads stdin as UTF-8 and does not expect a BOM
		a = engines.NewPiper(engines.PiperConfig{
			Dir:              s.cfg.Piper.Dir,
			Binary:           s.cfg.Piper.Binary,
			VoicesDir:        s.cfg.Piper.VoicesDir,
			Speed:            tts.Float(s.cfg.Piper.Speed),
			NoiseScale:       tts.Float(s.cfg.Piper.NoiseScale),
			FallbackLanguage: s.cfg.Piper.FallbackLanguage,
			Preferred:        s.cfg.Piper.Voices,
			Stager:           staging.New(s.cfg.Staging.Dir, false, s.logger),
			Runner:           s.runner,
			Player:           s.dispatcher,
			Logger:           s.logger,
			GOOS:             s.goos,
		})
	default:
		return nil, fmt.Errorf("%w: %s", ttypes.ErrInvalidEngine, engine)
	}

	s.adapters[engine] = a
	return a, nil
}

// SpeakRequest is a synthesis call as a caller states it. Nil tuning
// fields use the configured values.
type SpeakRequest struct {
	Text       string
	Language   string
	Engine     string
	OutputPath string
	Play       bool
	Speed      *float64
	Pitch      *float64
	Amplitude  *float64
	NoiseScale *float64
}

// Synthesize speaks req and never returns an error: failures are
// reported in the record.
func (s *Service) Synthesize(ctx context.Context, req SpeakRequest) (rec result.Record) {
	id := uuid.NewString()
	language := s.language(req.Language)
	logger := s.logger.With("request", id)

	defer func() {
		if p := recover(); p != nil {
			logger.Error("synthesis panicked", "panic", p)
			rec = result.FromError(result.KindSynthesis, fmt.Errorf("internal error: %v", p), language)
		}
		rec.RequestID = id
	}()

	engine, err := ttypes.ParseEngine(s.engineName(req.Engine))
	if err != nil {
		return result.FromError(result.KindSynthesis,
			ttypes.NewError(ttypes.ErrorCodeInvalidInput, err.Error(), err), language)
	}

	adapter, err := s.Adapter(ctx, engine)
	if err != nil {
		return result.FromError(result.KindSynthesis, err, language)
	}

	logger.Info("synthesizing",
		"engine", engine,
		"language", language,
		"text", runewidth.Truncate(req.Text, previewWidth, "..."))

	syn, err := adapter.Synthesize(ctx, tts.Request{
		Text:         req.Text,
		Language:     language,
		OutputPath:   req.OutputPath,
		PlayDirectly: req.Play,
		Speed:        req.Speed,
		Pitch:        req.Pitch,
		Amplitude:    req.Amplitude,
		NoiseScale:   req.NoiseScale,
		RequestID:    id,
	})
	if err != nil {
		logger.Error("synthesis failed", "engine", engine, "err", err)
		rec = result.FromError(result.KindSynthesis, err, language)
		rec.Engine = engine.String()
		return rec
	}

	logger.Debug("synthesis finished", "file", syn.FilePath, "size", syn.FileSize, "played", syn.Played)
	return result.FromSynthesis(syn)
}

// TranscribeRequest is a recognition call.
type TranscribeRequest struct {
	Path     string
	Language string

	// Convert runs the audio through the external converter first.
	Convert bool
}

// Transcribe recognizes speech in req.Path and never returns an error:
// failures are reported in the record.
func (s *Service) Transcribe(ctx context.Context, req TranscribeRequest) (rec result.Record) {
	id := uuid.NewString()
	language := s.language(req.Language)
	logger := s.logger.With("request", id)

	defer func() {
		if p := recover(); p != nil {
			logger.Error("transcription panicked", "panic", p)
			rec = result.FromError(result.KindTranscription,
				ttypes.NewError(ttypes.ErrorCodeRecognition, "error processing audio file", fmt.Errorf("panic: %v", p)), language)
		}
		rec.RequestID = id
	}()

	path := req.Path
	if req.Convert {
		converted, err := s.converter.Convert(ctx, req.Path)
		if err != nil {
			logger.Error("conversion failed", "path", req.Path, "err", err)
			return result.FromError(result.KindTranscription, err, language)
		}
		defer s.converter.Release(converted)
		path = converted
	}

	logger.Info("transcribing", "path", req.Path, "language", language, "converted", req.Convert)

	tr, err := s.recognizer.Transcribe(ctx, path, language)
	if err != nil {
		logger.Error("transcription failed", "path", req.Path, "err", err)
		return result.FromError(result.KindTranscription, err, language)
	}
	tr.FilePath = req.Path

	logger.Debug("transcription finished", "text", runewidth.Truncate(tr.Text, previewWidth, "..."))
	return result.FromTranscription(tr)
}

// Voices lists the voices of engine.
func (s *Service) Voices(ctx context.Context, engineName string) result.Record {
	engine, err := ttypes.ParseEngine(s.engineName(engineName))
	if err != nil {
		return result.FromError(result.KindVoices,
			ttypes.NewError(ttypes.ErrorCodeInvalidInput, err.Error(), err), "")
	}
	adapter, err := s.Adapter(ctx, engine)
	if err != nil {
		return result.FromError(result.KindVoices, err, "")
	}
	listing, err := adapter.Voices(ctx)
	if err != nil {
		rec := result.FromError(result.KindVoices, err, "")
		rec.Engine = engine.String()
		return rec
	}
	return result.FromVoices(listing)
}

func (s *Service) language(lang string) string {
	if lang != "" {
		return lang
	}
	if s.cfg.Language != "" {
		return s.cfg.Language
	}
	return "en"
}

func (s *Service) engineName(name string) string {
	if name != "" {
		return name
	}
	return s.cfg.Engine
}
