package engines

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/staging"
	"github.com/dgnsrekt/offline-speech/internal/tts"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
	"github.com/dgnsrekt/offline-speech/internal/voices"
)

// Piper defaults.
const (
	DefaultPiperSpeed      = 1.0
	DefaultPiperNoiseScale = 0.667
	DefaultPiperFallback   = "en"
	ModelExt               = ".onnx"
)

// DefaultPiperVoices are the preferred voice model per language.
var DefaultPiperVoices = map[string]string{
	"en": "en_US-ryan-high.onnx",
	"ar": "ar_JO-kareem-medium.onnx",
	"es": "es_ES-mls_10246-medium.onnx",
	"fr": "fr_FR-mls_1840-medium.onnx",
	"de": "de_DE-thorsten-medium.onnx",
	"it": "it_IT-riccardo-x_low.onnx",
	"pt": "pt_BR-faber-medium.onnx",
	"ru": "ru_RU-dmitri-medium.onnx",
	"zh": "zh_CN-huayan-medium.onnx",
}

// PiperConfig holds configuration for the Piper adapter.
type PiperConfig struct {
	// Dir holds the piper executable and, by default, its voices folder
	Dir string

	// Binary overrides Dir/piper (optional)
	Binary string

	// VoicesDir overrides Dir/voices (optional)
	VoicesDir string

	// Default tuning used when a request leaves a field nil (optional,
	// nil means the package defaults)
	Speed      *float64
	NoiseScale *float64

	// FallbackLanguage is used when no voice matches the request
	FallbackLanguage string

	// Preferred maps languages to voice files (optional)
	Preferred map[string]string

	Stager *staging.Stager
	Runner process.Runner

	// Player plays the synthesized file for direct playback requests
	Player tts.Player

	Logger *log.Logger

	// GOOS overrides runtime.GOOS (optional)
	GOOS string
}

// Piper is the neural synthesis adapter. Text always reaches piper on
// stdin from a staged file.
type Piper struct {
	dir        string
	executable string
	available  bool
	catalog    *voices.Catalog
	resolver   voices.Resolver

	speed      float64
	noiseScale float64

	stager *staging.Stager
	runner process.Runner
	player tts.Player
	logger *log.Logger
	goos   string
}

// NewPiper creates the adapter, checks the executable and scans voices.
// The catalog is fixed for the adapter's lifetime.
func NewPiper(cfg PiperConfig) *Piper {
	p := &Piper{
		dir:        cfg.Dir,
		executable: cfg.Binary,
		speed:      tts.Value(cfg.Speed, DefaultPiperSpeed),
		noiseScale: tts.Value(cfg.NoiseScale, DefaultPiperNoiseScale),
		stager:     cfg.Stager,
		runner:     cfg.Runner,
		player:     cfg.Player,
		logger:     cfg.Logger,
		goos:       cfg.GOOS,
	}
	if p.goos == "" {
		p.goos = runtime.GOOS
	}
	if p.logger == nil {
		p.logger = log.Default()
	}
	if p.stager == nil {
		p.stager = staging.New("", false, cfg.Logger)
	}
	if p.runner == nil {
		p.runner = process.NewExecRunner(cfg.Logger)
	}
	if p.executable == "" {
		name := "piper"
		if p.goos == "windows" {
			name = "piper.exe"
		}
		p.executable = filepath.Join(p.dir, name)
	}
	if filepath.Base(p.executable) == p.executable {
		if found, err := process.CheckBinary(p.executable); err == nil {
			p.executable = found
		}
	}
	p.executable = absPath(p.executable)

	voicesDir := cfg.VoicesDir
	if voicesDir == "" {
		voicesDir = filepath.Join(p.dir, "voices")
	}
	voicesDir = absPath(voicesDir)

	preferred := cfg.Preferred
	if preferred == nil {
		preferred = DefaultPiperVoices
	}
	fallback := cfg.FallbackLanguage
	if fallback == "" {
		fallback = DefaultPiperFallback
	}
	p.resolver = voices.Resolver{Preferred: preferred, Fallback: fallback}

	p.available = process.IsExecutable(p.executable)

	catalog, err := voices.Scan(voicesDir, ModelExt)
	if err != nil {
		p.logger.Warn("could not scan voices", "dir", voicesDir, "err", err)
	}
	p.catalog = catalog

	p.logger.Debug("initialized piper",
		"executable", p.executable,
		"available", p.available,
		"voices", p.catalog.Len())
	return p
}

// Name returns EnginePiper.
func (p *Piper) Name() ttypes.EngineType {
	return ttypes.EnginePiper
}

// Available reports whether the executable exists and may be run.
func (p *Piper) Available() bool {
	return p.available
}

// Installation returns Piper setup steps.
func (p *Piper) Installation() *ttypes.Guidance {
	return PiperGuidance(p.goos)
}

// Executable returns the resolved piper executable path.
func (p *Piper) Executable() string {
	return p.executable
}

// Catalog returns the voices found at construction.
func (p *Piper) Catalog() *voices.Catalog {
	return p.catalog
}

func (p *Piper) unavailable() error {
	return ttypes.NewError(ttypes.ErrorCodeEngineUnavailable, "Piper TTS executable not found", nil).
		WithGuidance(p.Installation())
}

// Synthesize speaks req with piper. Direct playback synthesizes into a
// temporary WAV and hands it to the player.
func (p *Piper) Synthesize(ctx context.Context, req tts.Request) (*tts.Synthesis, error) {
	if err := tts.ValidateRequest(&req); err != nil {
		return nil, err
	}
	if !p.available {
		return nil, p.unavailable()
	}

	voice, err := p.resolver.Resolve(req.Language, p.catalog)
	if err != nil {
		if e, ok := ttypes.AsError(err); ok {
			e.WithGuidance(p.Installation())
		}
		return nil, err
	}
	model := p.catalog.Path(voice)
	if _, err := os.Stat(model + ".json"); err != nil {
		p.logger.Warn("voice model has no config file", "model", voice)
	}

	output := req.OutputPath
	if req.PlayDirectly {
		tmp, err := os.CreateTemp(p.stager.Dir, "speech-*.wav")
		if err != nil {
			return nil, ttypes.NewError(ttypes.ErrorCodeStaging, "failed to create temporary audio file", err)
		}
		output = tmp.Name()
		tmp.Close()
		defer p.stager.Release(output)
	} else if output == "" {
		output = tts.DefaultOutputPath(req.Text)
	}
	// piper runs in its own directory
	output = absPath(output)

	speed := tts.Value(req.Speed, p.speed)
	noise := tts.Value(req.NoiseScale, p.noiseScale)
	lengthScale := tts.LengthScale(speed)

	staged, err := p.stager.Stage(req.Text)
	if err != nil {
		return nil, err
	}
	defer p.stager.Release(staged)

	inv := process.Invocation{
		Path: p.executable,
		Args: []string{
			"--model", model,
			"--output_file", output,
			"--noise_scale", formatFloat(noise),
			"--length_scale", tts.FormatScale(lengthScale),
		},
		Stdin: staged,
		Dir:   p.dir,
		Env:   utf8Env(p.goos),
	}
	p.logger.Debug("running piper", "request", req.RequestID, "voice", voice)

	out, err := p.runner.Run(ctx, inv)
	if err != nil {
		return nil, spawnError("Piper TTS", inv, err)
	}
	if !out.Success() {
		return nil, exitError("Piper TTS", inv, out)
	}

	s := &tts.Synthesis{
		Engine:     ttypes.EnginePiper,
		Text:       req.Text,
		Language:   req.Language,
		VoiceModel: voice,
		Settings: map[string]float64{
			"speed":        speed,
			"noise_scale":  noise,
			"length_scale": lengthScale,
		},
	}

	if req.PlayDirectly {
		if p.player == nil {
			return nil, ttypes.NewError(ttypes.ErrorCodeNoPlayerAvailable, "no audio player configured", nil)
		}
		if err := p.player.Play(ctx, output); err != nil {
			return nil, fmt.Errorf("failed to play audio: %w", err)
		}
		s.Played = true
		return s, nil
	}

	s.FilePath = output
	s.FileSize = artifactSize(output)
	return s, nil
}

// Voices lists the catalog and the preferred voices.
func (p *Piper) Voices(context.Context) (*tts.VoiceListing, error) {
	if !p.available {
		return nil, p.unavailable()
	}
	langs := map[string][]string{}
	for _, lang := range p.catalog.Languages() {
		langs[lang] = p.catalog.Voices(lang)
	}
	return &tts.VoiceListing{
		Engine:     ttypes.EnginePiper,
		Languages:  langs,
		Preferred:  p.resolver.Preferred,
		VoicesDir:  p.catalog.Dir(),
		Executable: p.executable,
	}, nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
