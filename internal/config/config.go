// Package config holds the speech configuration model, its defaults and
// validation.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/dgnsrekt/offline-speech/internal/audio"
	"github.com/dgnsrekt/offline-speech/internal/convert"
	"github.com/dgnsrekt/offline-speech/internal/stt"
	"github.com/dgnsrekt/offline-speech/internal/tts/engines"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Tuning limits accepted by Validate.
const (
	MinEspeakSpeed     = 80
	MaxEspeakSpeed     = 450
	MaxEspeakPitch     = 99
	MaxEspeakAmplitude = 200
)

// Config contains all speech configuration options.
type Config struct {
	Engine   string `yaml:"engine"`
	Language string `yaml:"language"`
	Format   string `yaml:"format"`

	Espeak    EspeakConfig    `yaml:"espeak"`
	Piper     PiperConfig     `yaml:"piper"`
	Vosk      VoskConfig      `yaml:"vosk"`
	Audio     AudioConfig     `yaml:"audio"`
	Staging   StagingConfig   `yaml:"staging"`
	Converter ConverterConfig `yaml:"converter"`
}

// EspeakConfig contains espeak-ng settings.
type EspeakConfig struct {
	Binary    string            `yaml:"binary"`
	Speed     float64           `yaml:"speed"`
	Pitch     float64           `yaml:"pitch"`
	Amplitude float64           `yaml:"amplitude"`
	Voices    map[string]string `yaml:"voices"`
}

// PiperConfig contains Piper settings.
type PiperConfig struct {
	Dir              string            `yaml:"dir"`
	Binary           string            `yaml:"binary"`
	VoicesDir        string            `yaml:"voices_dir"`
	Speed            float64           `yaml:"speed"`
	NoiseScale       float64           `yaml:"noise_scale"`
	FallbackLanguage string            `yaml:"fallback_language"`
	Voices           map[string]string `yaml:"voices"`
}

// VoskConfig contains recognition settings.
type VoskConfig struct {
	ModelsDir   string            `yaml:"models_dir"`
	Models      map[string]string `yaml:"models"`
	SampleRate  int               `yaml:"sample_rate"`
	ChunkFrames int               `yaml:"chunk_frames"`
}

// AudioConfig contains playback settings.
type AudioConfig struct {
	// Players are command lines tried in order; {file} is replaced by the
	// audio path, or the path is appended when absent.
	Players []string `yaml:"players"`

	// InProcess tries the built-in player before any command.
	InProcess bool `yaml:"in_process"`
}

// StagingConfig contains temporary text file settings.
type StagingConfig struct {
	Dir string `yaml:"dir"`
	BOM bool   `yaml:"bom"`
}

// ConverterConfig contains audio converter settings.
type ConverterConfig struct {
	Binary string `yaml:"binary"`
}

// Default returns a Config with defaults for the running platform.
func Default() Config {
	return DefaultFor(runtime.GOOS)
}

// DefaultFor returns a Config with defaults for goos.
func DefaultFor(goos string) Config {
	return Config{
		Engine:   ttypes.EngineEspeak.String(),
		Language: "en",
		Format:   "json",
		Espeak: EspeakConfig{
			Binary:    engines.DefaultEspeakBinary(goos),
			Speed:     engines.DefaultEspeakSpeed,
			Pitch:     engines.DefaultEspeakPitch,
			Amplitude: engines.DefaultEspeakAmplitude,
			Voices:    copyMap(engines.DefaultEspeakVoices),
		},
		Piper: PiperConfig{
			Dir:              "piper",
			Speed:            engines.DefaultPiperSpeed,
			NoiseScale:       engines.DefaultPiperNoiseScale,
			FallbackLanguage: engines.DefaultPiperFallback,
			Voices:           copyMap(engines.DefaultPiperVoices),
		},
		Vosk: VoskConfig{
			Models:      copyMap(stt.DefaultModels),
			SampleRate:  stt.DefaultSampleRate,
			ChunkFrames: stt.DefaultChunkFrames,
		},
		Audio: AudioConfig{
			Players: audio.DefaultCommands(goos),
		},
		Staging: StagingConfig{
			BOM: true,
		},
		Converter: ConverterConfig{
			Binary: convert.DefaultBinary,
		},
	}
}

// Validate checks if the configuration is valid and normalizes names.
func (c *Config) Validate() error {
	engine, err := ttypes.ParseEngine(c.Engine)
	if err != nil {
		return err
	}
	c.Engine = engine.String()

	switch strings.ToLower(c.Format) {
	case "json", "text":
		c.Format = strings.ToLower(c.Format)
	default:
		return fmt.Errorf("invalid format '%s': must be json or text", c.Format)
	}

	if strings.TrimSpace(c.Language) == "" {
		return fmt.Errorf("language cannot be empty")
	}

	if err := c.Espeak.Validate(); err != nil {
		return fmt.Errorf("espeak config: %w", err)
	}
	if err := c.Piper.Validate(); err != nil {
		return fmt.Errorf("piper config: %w", err)
	}
	if err := c.Vosk.Validate(); err != nil {
		return fmt.Errorf("vosk config: %w", err)
	}
	return nil
}

// Validate checks espeak-ng tuning ranges.
func (c *EspeakConfig) Validate() error {
	if c.Speed < MinEspeakSpeed || c.Speed > MaxEspeakSpeed {
		return fmt.Errorf("speed must be between %d and %d, got %g", MinEspeakSpeed, MaxEspeakSpeed, c.Speed)
	}
	if c.Pitch < 0 || c.Pitch > MaxEspeakPitch {
		return fmt.Errorf("pitch must be between 0 and %d, got %g", MaxEspeakPitch, c.Pitch)
	}
	if c.Amplitude < 0 || c.Amplitude > MaxEspeakAmplitude {
		return fmt.Errorf("amplitude must be between 0 and %d, got %g", MaxEspeakAmplitude, c.Amplitude)
	}
	return nil
}

// Validate checks Piper tuning ranges.
func (c *PiperConfig) Validate() error {
	if c.Speed < 0 {
		return fmt.Errorf("speed cannot be negative, got %g", c.Speed)
	}
	if c.NoiseScale < 0 || c.NoiseScale > 1 {
		return fmt.Errorf("noise_scale must be between 0.0 and 1.0, got %g", c.NoiseScale)
	}
	return nil
}

// Validate checks recognition settings.
func (c *VoskConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.ChunkFrames <= 0 {
		return fmt.Errorf("chunk_frames must be positive, got %d", c.ChunkFrames)
	}
	return nil
}

// ExpandPaths replaces a leading ~ in every configured path.
func (c *Config) ExpandPaths() error {
	for _, p := range []*string{
		&c.Espeak.Binary,
		&c.Piper.Dir,
		&c.Piper.Binary,
		&c.Piper.VoicesDir,
		&c.Vosk.ModelsDir,
		&c.Staging.Dir,
		&c.Converter.Binary,
	} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expanding %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

func copyMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
