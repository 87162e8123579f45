package speech

import (
	"context"

	"github.com/dgnsrekt/offline-speech/internal/convert"
	"github.com/dgnsrekt/offline-speech/internal/deps"
	"github.com/dgnsrekt/offline-speech/internal/tts/engines"
	"github.com/dgnsrekt/offline-speech/internal/ttypes"
)

// Dependency report sections.
const (
	SectionFormant     = "Formant engine (espeak-ng)"
	SectionNeural      = "Neural engine (piper)"
	SectionRecognition = "Recognition (vosk)"
	SectionAudio       = "Audio"
)

// Report builds the dependency report. Dependencies of engineName are
// required; an empty name checks everything as optional.
func (s *Service) Report(ctx context.Context, engineName string) (*deps.Report, error) {
	selected := ttypes.EngineNone
	if engineName != "" {
		engine, err := ttypes.ParseEngine(engineName)
		if err != nil {
			return nil, err
		}
		selected = engine
	}

	platform := deps.Platform(s.goos)
	report := deps.NewReport(s.logger)

	espeak, _ := s.Adapter(ctx, ttypes.EngineEspeak)
	report.Add(SectionFormant, "espeak-ng", selected == ttypes.EngineEspeak, &deps.BinaryChecker{
		Binary:       espeak.(*engines.Espeak).Binary(),
		Args:         []string{"--version"},
		VersionField: 4,
		Guidance:     espeak.Installation(),
		Platform:     platform,
		Runner:       s.runner,
	})

	piper, _ := s.Adapter(ctx, ttypes.EnginePiper)
	p := piper.(*engines.Piper)
	report.Add(SectionNeural, "piper", selected == ttypes.EnginePiper, &deps.BinaryChecker{
		Binary:   p.Executable(),
		Guidance: p.Installation(),
	})
	report.Add(SectionNeural, "piper voices", selected == ttypes.EnginePiper, &deps.CatalogChecker{
		Catalog:  p.Catalog(),
		Guidance: engines.PiperGuidance(s.goos),
	})

	report.Add(SectionRecognition, "vosk models", false, &deps.ModelChecker{
		Locator: s.recognizer.Locator(),
	})
	report.Add(SectionRecognition, "ffmpeg", false, &deps.BinaryChecker{
		Binary:       s.converter.Binary(),
		Args:         []string{"-version"},
		VersionField: 3,
		Guidance:     convert.Guidance(),
		Platform:     platform,
		Runner:       s.runner,
	})

	report.Add(SectionAudio, "players", false, &deps.PlayerChecker{
		Commands: s.cfg.Audio.Players,
	})

	return report, report.CheckAll(ctx)
}

// RecognitionLanguages lists the languages with a model mapping.
func (s *Service) RecognitionLanguages() []string {
	return s.recognizer.Locator().Languages()
}
