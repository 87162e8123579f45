package engines

import (
	"context"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/offline-speech/internal/process"
	"github.com/dgnsrekt/offline-speech/internal/script"
	"github.com/dgnsrekt/offline-speech/internal/staging"
	"github.com/dgnsrekt/offline-speech/internal/tts"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Espeak defaults.
const (
	DefaultEspeakSpeed     = 175
	DefaultEspeakPitch     = 50
	DefaultEspeakAmplitude = 100
)

// DefaultEspeakVoices maps language codes to espeak-ng voice names.
var DefaultEspeakVoices = map[string]string{
	"en": "en",
	"ar": "ar",
	"es": "es",
	"fr": "fr",
	"de": "de",
	"it": "it",
	"pt": "pt",
	"ru": "ru",
	"zh": "zh",
}

// DefaultEspeakBinary returns the espeak-ng executable for goos.
func DefaultEspeakBinary(goos string) string {
	if goos == "windows" {
		return `C:\Program Files\eSpeak NG\espeak-ng.exe`
	}
	return "espeak-ng"
}

// EspeakConfig holds configuration for the espeak-ng adapter.
type EspeakConfig struct {
	// Binary is the espeak-ng executable (optional, defaults per platform)
	Binary string

	// Default tuning used when a request leaves a field nil (optional,
	// nil means the package defaults)
	Speed     *float64
	Pitch     *float64
	Amplitude *float64

	// Voices maps language codes to espeak-ng voices (optional)
	Voices map[string]string

	Stager *staging.Stager
	Runner process.Runner
	Logger *log.Logger

	// GOOS overrides runtime.GOOS (optional)
	GOOS string
}

// Espeak is the formant synthesis adapter. Text is passed on the command
// line unless it needs staging, in which case espeak-ng reads it with -f.
type Espeak struct {
	binary    string
	available bool
	voices    map[string]string

	speed     float64
	pitch     float64
	amplitude float64

	stager *staging.Stager
	runner process.Runner
	logger *log.Logger
	goos   string
}

// NewEspeak creates the adapter and probes the binary once.
func NewEspeak(ctx context.Context, cfg EspeakConfig) *Espeak {
	e := &Espeak{
		binary:    cfg.Binary,
		voices:    cfg.Voices,
		speed:     tts.Value(cfg.Speed, DefaultEspeakSpeed),
		pitch:     tts.Value(cfg.Pitch, DefaultEspeakPitch),
		amplitude: tts.Value(cfg.Amplitude, DefaultEspeakAmplitude),
		stager:    cfg.Stager,
		runner:    cfg.Runner,
		logger:    cfg.Logger,
		goos:      cfg.GOOS,
	}
	if e.goos == "" {
		e.goos = runtime.GOOS
	}
	if e.binary == "" {
		e.binary = DefaultEspeakBinary(e.goos)
	}
	if e.voices == nil {
		e.voices = DefaultEspeakVoices
	}
	if e.stager == nil {
		e.stager = staging.New("", true, cfg.Logger)
	}
	if e.runner == nil {
		e.runner = process.NewExecRunner(cfg.Logger)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}

	_, e.available = process.Probe(ctx, e.runner, e.binary, "--version")
	e.logger.Debug("probed espeak-ng", "binary", e.binary, "available", e.available)
	return e
}

// Binary returns the espeak-ng executable.
func (e *Espeak) Binary() string {
	return e.binary
}

// Name returns EngineEspeak.
func (e *Espeak) Name() ttypes.EngineType {
	return ttypes.EngineEspeak
}

// Available reports whether espeak-ng answered the probe.
func (e *Espeak) Available() bool {
	return e.available
}

// Installation returns espeak-ng install commands.
func (e *Espeak) Installation() *ttypes.Guidance {
	return EspeakGuidance()
}

func (e *Espeak) voice(language string) string {
	if v := e.voices[strings.ToLower(language)]; v != "" {
		return v
	}
	if v := e.voices["en"]; v != "" {
		return v
	}
	return "en"
}

func (e *Espeak) unavailable() error {
	return ttypes.NewError(ttypes.ErrorCodeEngineUnavailable, "espeak-ng not installed", nil).
		WithGuidance(e.Installation())
}

// Synthesize speaks req with espeak-ng, to a file or to the default output.
func (e *Espeak) Synthesize(ctx context.Context, req tts.Request) (*tts.Synthesis, error) {
	if err := tts.ValidateRequest(&req); err != nil {
		return nil, err
	}
	if !e.available {
		return nil, e.unavailable()
	}

	speed := tts.Value(req.Speed, e.speed)
	pitch := tts.Value(req.Pitch, e.pitch)
	amplitude := tts.Value(req.Amplitude, e.amplitude)

	args := []string{
		"-v", e.voice(req.Language),
		"-s", formatInt(speed),
		"-p", formatInt(pitch),
		"-a", formatInt(amplitude),
	}

	output := ""
	if !req.PlayDirectly {
		output = req.OutputPath
		if output == "" {
			output = tts.DefaultOutputPath(req.Text)
		}
		args = append(args, "-w", output)
	}

	method := ttypes.EncodingDirect
	if script.NeedsStaging(req.Text, req.Language) {
		staged, err := e.stager.Stage(req.Text)
		if err != nil {
			return nil, err
		}
		defer e.stager.Release(staged)
		args = append(args, "-f", staged)
		method = ttypes.EncodingFile
	} else {
		args = append(args, req.Text)
	}

	inv := process.Invocation{Path: e.binary, Args: args, Env: utf8Env(e.goos)}
	e.logger.Debug("running espeak-ng", "request", req.RequestID, "encoding", method)

	out, err := e.runner.Run(ctx, inv)
	if err != nil {
		return nil, spawnError("espeak-ng", inv, err)
	}
	if !out.Success() {
		return nil, exitError("espeak-ng", inv, out)
	}

	s := &tts.Synthesis{
		Engine:         ttypes.EngineEspeak,
		Text:           req.Text,
		Language:       req.Language,
		EncodingMethod: method,
		Settings: map[string]float64{
			"speed":     speed,
			"pitch":     pitch,
			"amplitude": amplitude,
		},
	}
	if req.PlayDirectly {
		s.Played = true
	} else {
		s.FilePath = output
		s.FileSize = artifactSize(output)
	}
	return s, nil
}

// Voices returns the raw espeak-ng voice listing.
func (e *Espeak) Voices(ctx context.Context) (*tts.VoiceListing, error) {
	if !e.available {
		return nil, e.unavailable()
	}
	inv := process.Invocation{Path: e.binary, Args: []string{"--voices"}, Env: utf8Env(e.goos)}
	out, err := e.runner.Run(ctx, inv)
	if err != nil {
		return nil, spawnError("espeak-ng", inv, err)
	}
	if !out.Success() {
		return nil, exitError("espeak-ng", inv, out)
	}
	return &tts.VoiceListing{
		Engine:     ttypes.EngineEspeak,
		Executable: e.binary,
		Raw:        out.Stdout,
	}, nil
}
