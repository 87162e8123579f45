package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from v over the platform defaults, expands
// paths and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	if v.IsSet("engine") {
		cfg.Engine = v.GetString("engine")
	}
	if v.IsSet("language") {
		cfg.Language = v.GetString("language")
	}
	if v.IsSet("format") {
		cfg.Format = v.GetString("format")
	}

	loadEspeak(v, &cfg.Espeak)
	loadPiper(v, &cfg.Piper)
	loadVosk(v, &cfg.Vosk)

	if v.IsSet("audio.players") {
		cfg.Audio.Players = v.GetStringSlice("audio.players")
	}
	if v.IsSet("audio.in_process") {
		cfg.Audio.InProcess = v.GetBool("audio.in_process")
	}
	if v.IsSet("staging.dir") {
		cfg.Staging.Dir = v.GetString("staging.dir")
	}
	if v.IsSet("staging.bom") {
		cfg.Staging.BOM = v.GetBool("staging.bom")
	}
	if v.IsSet("converter.binary") {
		cfg.Converter.Binary = v.GetString("converter.binary")
	}

	if err := cfg.ExpandPaths(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadEspeak(v *viper.Viper, cfg *EspeakConfig) {
	if v.IsSet("espeak.binary") {
		cfg.Binary = v.GetString("espeak.binary")
	}
	if v.IsSet("espeak.speed") {
		cfg.Speed = v.GetFloat64("espeak.speed")
	}
	if v.IsSet("espeak.pitch") {
		cfg.Pitch = v.GetFloat64("espeak.pitch")
	}
	if v.IsSet("espeak.amplitude") {
		cfg.Amplitude = v.GetFloat64("espeak.amplitude")
	}
	mergeMap(cfg.Voices, v.GetStringMapString("espeak.voices"))
}

func loadPiper(v *viper.Viper, cfg *PiperConfig) {
	if v.IsSet("piper.dir") {
		cfg.Dir = v.GetString("piper.dir")
	}
	if v.IsSet("piper.binary") {
		cfg.Binary = v.GetString("piper.binary")
	}
	if v.IsSet("piper.voices_dir") {
		cfg.VoicesDir = v.GetString("piper.voices_dir")
	}
	if v.IsSet("piper.speed") {
		cfg.Speed = v.GetFloat64("piper.speed")
	}
	if v.IsSet("piper.noise_scale") {
		cfg.NoiseScale = v.GetFloat64("piper.noise_scale")
	}
	if v.IsSet("piper.fallback_language") {
		cfg.FallbackLanguage = v.GetString("piper.fallback_language")
	}
	mergeMap(cfg.Voices, v.GetStringMapString("piper.voices"))
}

func loadVosk(v *viper.Viper, cfg *VoskConfig) {
	if v.IsSet("vosk.models_dir") {
		cfg.ModelsDir = v.GetString("vosk.models_dir")
	}
	if v.IsSet("vosk.sample_rate") {
		cfg.SampleRate = v.GetInt("vosk.sample_rate")
	}
	if v.IsSet("vosk.chunk_frames") {
		cfg.ChunkFrames = v.GetInt("vosk.chunk_frames")
	}
	mergeMap(cfg.Models, v.GetStringMapString("vosk.models"))
}

// mergeMap overlays configured entries onto the defaults.
func mergeMap(dst, src map[string]string) {
	for k, val := range src {
		dst[k] = val
	}
}

// SetDefaults registers the defaults with v so they show up in lookups.
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("engine", d.Engine)
	v.SetDefault("language", d.Language)
	v.SetDefault("format", d.Format)

	v.SetDefault("espeak.binary", d.Espeak.Binary)
	v.SetDefault("espeak.speed", d.Espeak.Speed)
	v.SetDefault("espeak.pitch", d.Espeak.Pitch)
	v.SetDefault("espeak.amplitude", d.Espeak.Amplitude)

	v.SetDefault("piper.dir", d.Piper.Dir)
	v.SetDefault("piper.speed", d.Piper.Speed)
	v.SetDefault("piper.noise_scale", d.Piper.NoiseScale)
	v.SetDefault("piper.fallback_language", d.Piper.FallbackLanguage)

	v.SetDefault("vosk.sample_rate", d.Vosk.SampleRate)
	v.SetDefault("vosk.chunk_frames", d.Vosk.ChunkFrames)

	v.SetDefault("audio.in_process", d.Audio.InProcess)
	v.SetDefault("staging.bom", d.Staging.BOM)
	v.SetDefault("converter.binary", d.Converter.Binary)
}
